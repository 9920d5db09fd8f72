package cargo_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/binup-dev/binup/pkg/domain/model"
	"github.com/binup-dev/binup/pkg/domain/types"
	"github.com/binup-dev/binup/pkg/infra/cargo"
)

func writeState(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), cargo.StateFileName)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadInstallState(t *testing.T) {
	path := writeState(t, `{
		"installs": {
			"ripgrep 13.0.0 (registry+https://github.com/rust-lang/crates.io-index)": {
				"version_req": null,
				"bins": ["rg"],
				"features": [],
				"all_features": false,
				"no_default_features": false,
				"profile": "release",
				"target": "x86_64-unknown-linux-gnu",
				"rustc": "rustc 1.75.0"
			},
			"tool 0.1.0 (git+https://github.com/acme/tool?branch=main#0123456789abcdef0123456789abcdef01234567)": {
				"version_req": null,
				"bins": ["tool"],
				"features": [],
				"all_features": false,
				"no_default_features": false,
				"profile": "release",
				"target": "x86_64-unknown-linux-gnu",
				"rustc": "rustc 1.75.0"
			}
		}
	}`)

	installs, err := cargo.ReadInstallState(path)
	gt.NoError(t, err)
	gt.Equal(t, installs.Len(), 2)

	entries := installs.Entries()
	gt.Equal(t, entries[0].Package.Name, "ripgrep")
	gt.Equal(t, entries[0].Package.SourceID.Kind, model.SourceKindRegistry)
	gt.Equal(t, entries[0].Value.Bins, []string{"rg"})
	gt.Equal(t, entries[1].Package.Name, "tool")
	gt.Equal(t, entries[1].Package.SourceID.Kind, model.SourceKindGit)
}

func TestReadInstallState_MalformedIdentifierAborts(t *testing.T) {
	path := writeState(t, `{
		"installs": {
			"ripgrep 13.0.0 (registry+https://github.com/rust-lang/crates.io-index)": {"bins": []},
			"broken-identifier": {"bins": []}
		}
	}`)

	_, err := cargo.ReadInstallState(path)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrMalformedIdentifier))
}

func TestReadInstallState_MissingFile(t *testing.T) {
	_, err := cargo.ReadInstallState(filepath.Join(t.TempDir(), "nope.json"))
	gt.Error(t, err)
}

func TestReadInstallState_InvalidJSON(t *testing.T) {
	path := writeState(t, `{not json`)
	_, err := cargo.ReadInstallState(path)
	gt.Error(t, err)
}

func TestHome(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		t.Setenv("CARGO_HOME", "/env/cargo")
		home, err := cargo.Home("/override/cargo")
		gt.NoError(t, err)
		gt.Equal(t, home, "/override/cargo")
	})

	t.Run("env var", func(t *testing.T) {
		t.Setenv("CARGO_HOME", "/env/cargo")
		home, err := cargo.Home("")
		gt.NoError(t, err)
		gt.Equal(t, home, "/env/cargo")
	})

	t.Run("default under home dir", func(t *testing.T) {
		t.Setenv("CARGO_HOME", "")
		home, err := cargo.Home("")
		gt.NoError(t, err)
		gt.Equal(t, filepath.Base(home), ".cargo")
	})
}
