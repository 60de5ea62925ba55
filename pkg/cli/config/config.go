package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// File is the optional TOML configuration file. Values from the file fill
// in whatever the corresponding CLI flags and environment variables left
// unset; flags always win.
type File struct {
	SessionsDir string `toml:"sessions_dir"`
	TasksFile   string `toml:"tasks_file"`
	Addr        string `toml:"addr"`
}

// LoadFile reads and parses a TOML configuration file. An empty path
// returns an empty configuration.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V("path", path))
	}

	var cfg File
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	return &cfg, nil
}

// fallback returns v unless it is empty, then the file value, then def
func fallback(v, fromFile, def string) string {
	if v != "" {
		return v
	}
	if fromFile != "" {
		return fromFile
	}
	return def
}
