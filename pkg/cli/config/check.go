package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

// Check holds the detection configuration shared by the check and update
// commands.
type Check struct {
	Pre           bool
	Git           bool
	Path          bool
	Workers       int64
	Timeout       time.Duration
	StrictHistory bool
	CargoHome     string
	RegistryToken string
	Quiet         bool
	ConfigFile    string
}

// Flags returns CLI flags for detection configuration
func (c *Check) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "pre",
			Usage:       "Include pre-releases in updates",
			Destination: &c.Pre,
			Sources:     cli.EnvVars("BINUP_PRE"),
		},
		&cli.BoolFlag{
			Name:        "git",
			Usage:       "Include packages installed from git repos (potentially slow)",
			Destination: &c.Git,
			Sources:     cli.EnvVars("BINUP_GIT"),
		},
		&cli.BoolFlag{
			Name:        "path",
			Usage:       "Include packages installed from local paths (always reinstalled)",
			Destination: &c.Path,
			Sources:     cli.EnvVars("BINUP_PATH"),
		},
		&cli.Int64Flag{
			Name:        "workers",
			Usage:       "Number of packages checked in parallel",
			Value:       4,
			Destination: &c.Workers,
			Sources:     cli.EnvVars("BINUP_WORKERS"),
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Per-package detection timeout (0 disables)",
			Value:       0,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("BINUP_TIMEOUT"),
		},
		&cli.BoolFlag{
			Name:        "strict-history",
			Usage:       "Fail a package whose pinned commit is ahead of its remote",
			Destination: &c.StrictHistory,
			Sources:     cli.EnvVars("BINUP_STRICT_HISTORY"),
		},
		&cli.StringFlag{
			Name:        "cargo-home",
			Usage:       "Cargo home directory (defaults to $CARGO_HOME or ~/.cargo)",
			Destination: &c.CargoHome,
			Sources:     cli.EnvVars("BINUP_CARGO_HOME"),
		},
		&cli.StringFlag{
			Name:        "registry-token",
			Usage:       "Authorization token for the registry API",
			Destination: &c.RegistryToken,
			Sources:     cli.EnvVars("BINUP_REGISTRY_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML config file",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("BINUP_CONFIG"),
		},
	}
}

// QuietFlag returns the flag suppressing cargo subprocess output. Only the
// update command uses it.
func (c *Check) QuietFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "quiet",
		Aliases:     []string{"q"},
		Usage:       "Suppress cargo output unless an install fails",
		Destination: &c.Quiet,
		Sources:     cli.EnvVars("BINUP_QUIET"),
	}
}
