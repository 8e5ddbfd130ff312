package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/liketab/internal/formatter"
	"github.com/desertthunder/liketab/internal/shared"
	"github.com/desertthunder/liketab/internal/sources"
	"github.com/desertthunder/liketab/internal/tasks"
	"github.com/desertthunder/liketab/internal/ui"
	"github.com/urfave/cli/v3"
)

// TableInit writes the column header into the table.
func (r *Runner) TableInit(ctx context.Context, cmd *cli.Command) error {
	source, err := r.resolveSource(ctx)
	if err != nil {
		return err
	}

	if err := source.WriteHeader(sources.HeaderRow); err != nil {
		return err
	}

	r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Header written to %s table", source.Name())))
	return nil
}

// TableShow prints the table in the requested format.
func (r *Runner) TableShow(ctx context.Context, cmd *cli.Command) error {
	source, err := r.resolveSource(ctx)
	if err != nil {
		return err
	}

	entries, err := source.ReadAll(false)
	if err != nil {
		return err
	}

	switch format := cmd.String("format"); format {
	case "json":
		return r.writeJSON(entries, true)
	case "csv":
		data, err := formatter.ExportToCSV(entries)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "markdown", "md":
		data, err := formatter.ExportToMarkdown(entries, "")
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "text":
		data, err := formatter.ExportToText(entries)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// TableExport writes the table to a file in the requested format.
func (r *Runner) TableExport(ctx context.Context, cmd *cli.Command) error {
	source, err := r.resolveSource(ctx)
	if err != nil {
		return err
	}

	entries, err := source.ReadAll(false)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	var path string
	switch format := cmd.String("format"); format {
	case "csv":
		path, err = formatter.WriteCSVExport(entries, output)
	case "markdown", "md":
		path, err = formatter.WriteMarkdownExport(entries, output, "")
	case "text", "txt":
		path, err = formatter.WriteTextExport(entries, output)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	r.logger.Info("table exported", "path", path, "rows", len(entries))
	r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Exported %d rows to %s", len(entries), path)))
	return nil
}

// TableSort rewrites the whole table in presentation order.
func (r *Runner) TableSort(ctx context.Context, cmd *cli.Command) error {
	source, err := r.resolveSource(ctx)
	if err != nil {
		return err
	}

	entries, err := source.ReadAll(false)
	if err != nil {
		return err
	}

	tasks.SortEntries(entries)
	if err := source.WriteAll(entries); err != nil {
		return err
	}

	r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Rewrote %d rows in sorted order", len(entries))))
	return nil
}
