package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/binup-dev/binup/pkg/cli/config"
)

func cmdCheck() *cli.Command {
	var cfg config.Check

	return &cli.Command{
		Name:    "check",
		Aliases: []string{"c"},
		Usage:   "List available updates without installing anything",
		Flags:   cfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			file, err := config.LoadFile(cfg.ConfigFile)
			if err != nil {
				return err
			}
			if err := file.Apply(&cfg, c.IsSet); err != nil {
				return err
			}
			return run(ctx, &cfg, false)
		},
	}
}
