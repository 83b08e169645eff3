package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MemoryStore(t *testing.T) {
	t.Run("returns absent for a missing key", func(t *testing.T) {
		s := NewMemoryStore()
		_, ok := s.Get("token")
		assert.False(t, ok)
	})

	t.Run("returns what was set", func(t *testing.T) {
		s := NewMemoryStore()
		s.Set("token", "abc")
		v, ok := s.Get("token")
		assert.True(t, ok)
		assert.Equal(t, "abc", v)
	})

	t.Run("removes a key", func(t *testing.T) {
		s := NewMemoryStore()
		s.Set("token", "abc")
		s.Remove("token")
		_, ok := s.Get("token")
		assert.False(t, ok)
	})
}

func Test_FileStore(t *testing.T) {
	t.Run("persists values across instances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state")

		NewFileStoreAt(path).Set("token", "abc")

		v, ok := NewFileStoreAt(path).Get("token")
		assert.True(t, ok)
		assert.Equal(t, "abc", v)
	})

	t.Run("returns absent when the state file is unreadable", func(t *testing.T) {
		s := NewFileStoreAt(filepath.Join(t.TempDir(), "missing", "state"))
		_, ok := s.Get("token")
		assert.False(t, ok)
	})

	t.Run("removes a key from the state file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state")
		s := NewFileStoreAt(path)

		s.Set("token", "abc")
		s.Set("draft", "hello")
		s.Remove("token")

		_, ok := s.Get("token")
		assert.False(t, ok)

		v, ok := s.Get("draft")
		assert.True(t, ok)
		assert.Equal(t, "hello", v)
	})
}
