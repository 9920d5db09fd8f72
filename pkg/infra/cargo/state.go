// Package cargo reads the host package manager's persisted install record and
// replays install commands.
package cargo

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/binup-dev/binup/pkg/domain/model"
	"github.com/binup-dev/binup/pkg/domain/types"
)

// StateFileName is the install record inside the cargo home directory.
const StateFileName = ".crates2.json"

// Home resolves the cargo home directory: the override argument if non-empty,
// then $CARGO_HOME, then ~/.cargo.
func Home(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv("CARGO_HOME"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", goerr.Wrap(err, "cannot resolve home directory")
	}
	return filepath.Join(home, ".cargo"), nil
}

type stateFile struct {
	Installs map[string]json.RawMessage `json:"installs"`
}

// ReadInstallState parses the install record at path into an ordered mapping
// of package ids to install metadata.
//
// A single malformed identifier aborts the whole read: the file is written by
// one tool and assumed internally consistent, so a bad entry means the file
// itself cannot be trusted.
func ReadInstallState(path string) (*model.PackageMap[model.InstallInfo], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "cannot read install state", goerr.V("path", path))
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, goerr.Wrap(err, "install state is not valid JSON", goerr.V("path", path))
	}

	installs := &model.PackageMap[model.InstallInfo]{}
	for id, raw := range state.Installs {
		pkg, err := model.ParsePackageID(id)
		if err != nil {
			return nil, goerr.Wrap(err, "install state holds a bad identifier", goerr.V("path", path))
		}

		var info model.InstallInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return nil, goerr.Wrap(types.ErrMalformedIdentifier,
				"install metadata is not valid", goerr.V("package", pkg.Name))
		}
		installs.Insert(pkg, info)
	}

	return installs, nil
}
