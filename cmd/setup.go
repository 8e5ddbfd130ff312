package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/liketab/internal/shared"
	"github.com/desertthunder/liketab/internal/sources"
	"github.com/desertthunder/liketab/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a starter configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config created", "path", path)
	r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Created %s", path)))
	r.writePlain("Fill in credentials.yandex.token before running sync commands.\n")
	return nil
}

// SetupDatabase initializes the sqlite like table.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		path = r.config.Table.Path
	}
	if path == "" {
		return fmt.Errorf("%w: no database path, pass --path or set table.path", shared.ErrMissingArgument)
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := sources.NewSqliteSource(db, r.logger); err != nil {
		return err
	}

	r.logger.Info("database initialized", "path", path)
	r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Database ready at %s", path)))
	return nil
}
