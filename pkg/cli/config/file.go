package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// File mirrors the optional TOML config file. Every field is a pointer so an
// absent key can be told apart from a zero value.
type File struct {
	Pre           *bool   `toml:"pre"`
	Git           *bool   `toml:"git"`
	Path          *bool   `toml:"path"`
	Workers       *int64  `toml:"workers"`
	Timeout       *string `toml:"timeout"`
	StrictHistory *bool   `toml:"strict_history"`
	CargoHome     *string `toml:"cargo_home"`
	RegistryToken *string `toml:"registry_token"`
	Quiet         *bool   `toml:"quiet"`
}

// DefaultFilePath returns the default config file location
// (<user config dir>/binup/config.toml), or empty when it cannot be resolved.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "binup", "config.toml")
}

// LoadFile reads the config file at path. When path is empty the default
// location is tried and a missing file is not an error.
func LoadFile(path string) (*File, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFilePath()
		if path == "" {
			return nil, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "cannot read config file", goerr.V("path", path))
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, goerr.Wrap(err, "config file is not valid TOML", goerr.V("path", path))
	}
	return &f, nil
}

// Apply copies file values into cfg for every flag the user did not set
// explicitly; command-line flags and env vars win over the file.
func (f *File) Apply(cfg *Check, isSet func(name string) bool) error {
	if f == nil {
		return nil
	}

	if f.Pre != nil && !isSet("pre") {
		cfg.Pre = *f.Pre
	}
	if f.Git != nil && !isSet("git") {
		cfg.Git = *f.Git
	}
	if f.Path != nil && !isSet("path") {
		cfg.Path = *f.Path
	}
	if f.Workers != nil && !isSet("workers") {
		cfg.Workers = *f.Workers
	}
	if f.Timeout != nil && !isSet("timeout") {
		d, err := time.ParseDuration(*f.Timeout)
		if err != nil {
			return goerr.Wrap(err, "invalid timeout in config file", goerr.V("timeout", *f.Timeout))
		}
		cfg.Timeout = d
	}
	if f.StrictHistory != nil && !isSet("strict-history") {
		cfg.StrictHistory = *f.StrictHistory
	}
	if f.CargoHome != nil && !isSet("cargo-home") {
		cfg.CargoHome = *f.CargoHome
	}
	if f.RegistryToken != nil && !isSet("registry-token") {
		cfg.RegistryToken = *f.RegistryToken
	}
	if f.Quiet != nil && !isSet("quiet") {
		cfg.Quiet = *f.Quiet
	}

	return nil
}
