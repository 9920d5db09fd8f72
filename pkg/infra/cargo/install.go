package cargo

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"

	"github.com/binup-dev/binup/pkg/domain/model"
)

// Installer replays `cargo install` with the options a package was originally
// installed with.
type Installer struct {
	cargoBin string
	quiet    bool
}

// NewInstaller builds an installer. When quiet is set, cargo's output is
// swallowed unless the command fails.
func NewInstaller(quiet bool) *Installer {
	return &Installer{cargoBin: "cargo", quiet: quiet}
}

// Install runs `cargo install <name> --version <version>` plus the flags
// reconstructed from info.
func (i *Installer) Install(ctx context.Context, name string, version *semver.Version, info model.InstallInfo) error {
	args := []string{"install", name, "--version", version.String()}
	args = append(args, installArgs(info)...)

	cmd := exec.CommandContext(ctx, i.cargoBin, args...)
	if !i.quiet {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return goerr.Wrap(err, "cargo install failed", goerr.V("package", name))
		}
		return nil
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		return goerr.Wrap(err, "cargo install failed",
			goerr.V("package", name), goerr.V("output", string(out)))
	}
	return nil
}

func installArgs(info model.InstallInfo) []string {
	var args []string
	for _, bin := range info.Bins {
		args = append(args, "--bin", bin)
	}

	if info.AllFeatures {
		args = append(args, "--all-features")
	} else if len(info.Features) > 0 {
		args = append(args, "--features", strings.Join(info.Features, ","))
	}

	if info.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	if info.Profile != "" {
		args = append(args, "--profile", info.Profile)
	}

	return args
}
