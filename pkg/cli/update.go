package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/binup-dev/binup/pkg/cli/config"
)

func cmdUpdate() *cli.Command {
	var cfg config.Check

	return &cli.Command{
		Name:    "update",
		Aliases: []string{"up"},
		Usage:   "Install every available registry update",
		Flags:   append(cfg.Flags(), cfg.QuietFlag()),
		Action: func(ctx context.Context, c *cli.Command) error {
			file, err := config.LoadFile(cfg.ConfigFile)
			if err != nil {
				return err
			}
			if err := file.Apply(&cfg, c.IsSet); err != nil {
				return err
			}
			return run(ctx, &cfg, true)
		},
	}
}
