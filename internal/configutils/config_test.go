package configutils

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type mockConfigMerger struct {
	err error
}

func (m *mockConfigMerger) MergeConfig(in io.Reader) error {
	return m.err
}

func Test_mergeConfig(t *testing.T) {
	t.Run("returns nil when merge succeeds", func(t *testing.T) {
		err := mergeConfig(nil, &mockConfigMerger{nil})
		assert.Equal(t, nil, err)
	})

	t.Run("returns error when merge fails", func(t *testing.T) {
		vErr := errors.New("mergeFailed")
		err := mergeConfig(nil, &mockConfigMerger{vErr})
		assert.EqualError(t, err, vErr.Error())
	})
}

func Test_fileExists(t *testing.T) {
	t.Run("returns error if file does not exist", func(t *testing.T) {
		err := fileExists("does-not-exist")
		assert.Error(t, err)
	})

	t.Run("returns error if file is a directory", func(t *testing.T) {
		err := fileExists(t.TempDir())
		assert.EqualError(t, err, ErrConfigFileIsDir.Error())
	})
}

func Test_loadConfig(t *testing.T) {
	oldLoadFile := loadFile
	defer func() { loadFile = oldLoadFile }()

	t.Run("fails if file cannot be loaded", func(t *testing.T) {
		vErr := errors.New("file err")
		loadFile = func(string) (io.Reader, error) { return nil, vErr }
		err := loadConfig("", nil)
		assert.EqualError(t, err, vErr.Error())
	})
}
