package storage

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
)

// Store is the key-value substrate the client persists small strings into
// (access token, redirect-surviving comment draft). A missing key is
// reported through the ok flag, never as an error; implementations must
// degrade to "absent" when the backing medium is unavailable.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MemoryStore keeps values for the lifetime of the process. It backs tests
// and contexts without a usable home directory.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// FileStore mirrors values to a JSON state file under the user's config
// directory so they survive restarts. Every operation reloads before
// acting; last writer wins.
type FileStore struct {
	path string
}

const defaultStatePath = "~/.config/threadlet/state"

func NewFileStore() *FileStore {
	return &FileStore{path: defaultStatePath}
}

func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() map[string]string {
	values := map[string]string{}

	path, err := homedir.Expand(s.path)
	if err != nil {
		return values
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return values
	}

	if err := json.Unmarshal(data, &values); err != nil {
		log.Debug().Err(err).Msg("state file is not valid JSON, starting empty")
		return map[string]string{}
	}

	return values
}

func (s *FileStore) save(values map[string]string) {
	path, err := homedir.Expand(s.path)
	if err != nil {
		return
	}

	if err := ensureParentDir(path); err != nil {
		log.Debug().Err(err).Msg("cannot create state directory")
		return
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		log.Debug().Err(err).Msg("cannot write state file")
	}
}

func (s *FileStore) Get(key string) (string, bool) {
	v, ok := s.load()[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) {
	values := s.load()
	values[key] = value
	s.save(values)
}

func (s *FileStore) Remove(key string) {
	values := s.load()
	delete(values, key)
	s.save(values)
}
