package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"

	"github.com/binup-dev/binup/pkg/cli/config"
	"github.com/binup-dev/binup/pkg/domain/interfaces"
	"github.com/binup-dev/binup/pkg/infra/cargo"
	"github.com/binup-dev/binup/pkg/infra/crates"
	"github.com/binup-dev/binup/pkg/infra/gitrepo"
	"github.com/binup-dev/binup/pkg/usecase"
)

func run(ctx context.Context, cfg *config.Check, install bool) error {
	logger := ctxlog.From(ctx)
	logger.Debug("configuration resolved", "config", cfg)

	home, err := cargo.Home(cfg.CargoHome)
	if err != nil {
		return err
	}

	endPhase := startPhase(1, "loading", "crate state")
	installs, err := cargo.ReadInstallState(filepath.Join(home, cargo.StateFileName))
	endPhase(err == nil)
	if err != nil {
		return err
	}
	logger.Debug("install state loaded", "packages", installs.Len(), "cargo_home", home)

	endPhase = startPhase(2, "preparing", "sources")
	gitCache := gitrepo.NewCache(filepath.Join(home, "git", "db"))
	newIndex := func() interfaces.VersionIndex {
		var opts []crates.Option
		if cfg.RegistryToken != "" {
			opts = append(opts, crates.WithToken(cfg.RegistryToken))
		}
		return crates.New(opts...)
	}
	collector := usecase.NewCollector(newIndex, gitCache, usecase.Options{
		IncludePrerelease: cfg.Pre,
		CheckGit:          cfg.Git,
		CheckPath:         cfg.Path,
		StrictHistory:     cfg.StrictHistory,
		Workers:           int(cfg.Workers),
		Timeout:           cfg.Timeout,
	})
	endPhase(true)

	endPhase = startPhase(3, "collecting", "updates")
	updates, err := collector.Collect(ctx, installs)
	endPhase(err == nil)
	if err != nil {
		return err
	}

	fmt.Println()
	printRegistryUpdates(&updates.Registry)
	printGitUpdates(&updates.Git, cfg.Git)
	printPathUpdates(&updates.Path, cfg.Path)
	printFailures(updates.Failures)
	fmt.Println()

	if !install {
		return nil
	}

	installer := cargo.NewInstaller(cfg.Quiet)
	installRegistryUpdates(ctx, installer, updates)
	printManualHints(updates)

	return nil
}
