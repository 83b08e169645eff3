package configutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	ErrHomeDirNotFound = errors.New("unable to determine the home directory")
	ErrConfigFileIsDir = errors.New("configuration file is a directory")
)

const globalConfigDir = "~/.config/threadlet"

type configMerger interface {
	MergeConfig(io.Reader) error
}

var mergeConfig = func(in io.Reader, cm configMerger) error {
	return cm.MergeConfig(in)
}

var fileExists = func(filename string) error {
	info, err := os.Stat(filename)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return ErrConfigFileIsDir
	}

	return nil
}

var loadFile = func(filename string) (io.Reader, error) {
	if err := fileExists(filename); err != nil {
		return nil, err
	}

	return os.Open(filename)
}

var loadConfig = func(filename string, v *viper.Viper) error {
	f, err := loadFile(filename)
	if err != nil {
		return err
	}

	return mergeConfig(f, v)
}

// Load merges a config file into the process-wide viper. With an empty
// path the global location is tried for every supported file type; a
// missing file is fine, the session then runs on defaults and flags.
func Load(path string) error {
	if path != "" {
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if ext == "" {
			ext = "toml"
		}
		viper.SetConfigType(ext)

		if err := loadConfig(path, viper.GetViper()); err != nil {
			return errors.Wrap(err, "could not load config")
		}

		return nil
	}

	cfgDir, err := homedir.Expand(globalConfigDir)
	if err != nil {
		return ErrHomeDirNotFound
	}

	for _, ft := range []string{"toml", "yaml", "json"} {
		f := filepath.Join(cfgDir, fmt.Sprintf("config.%s", ft))
		viper.SetConfigType(ft)
		if err := loadConfig(f, viper.GetViper()); err == nil {
			return nil
		}
		log.Debug().
			Msgf("config loading failed for type %s, skipping to next filetype", ft)
	}

	return nil
}
