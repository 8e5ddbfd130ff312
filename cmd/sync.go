package main

import (
	"context"
	"slices"

	"github.com/desertthunder/liketab/internal/formatter"
	"github.com/desertthunder/liketab/internal/tasks"
	"github.com/desertthunder/liketab/internal/ui"
	"github.com/urfave/cli/v3"
)

// progressPrinter drains a progress channel onto the runner's output in a
// background goroutine. The returned channel closes once the progress channel
// is closed and fully drained; callers wait on it before printing a report so
// progress lines never interleave with the summary.
func (r *Runner) progressPrinter(progress <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", ui.RenderUpdate(update))
		}
	}()
	return done
}

// SyncRun performs a full reconciliation pass.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	return r.runSync(ctx, cmd, tasks.RunOptions{
		Push:   cmd.Bool("push"),
		DryRun: cmd.Bool("dry-run"),
	})
}

// SyncImport imports online likes into the table without pushing edits.
func (r *Runner) SyncImport(ctx context.Context, cmd *cli.Command) error {
	return r.runSync(ctx, cmd, tasks.RunOptions{
		DryRun: cmd.Bool("dry-run"),
	})
}

func (r *Runner) runSync(ctx context.Context, cmd *cli.Command, opts tasks.RunOptions) error {
	engine, err := r.newEngine(ctx)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.progressPrinter(progressCh)

	result, err := engine.Run(ctx, progressCh, opts)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainln("%s", ui.Title("Sync complete"))
	r.writePlain("%s", formatter.ReportToText(result))
	return nil
}

// SyncExport pushes checkbox edits to the music service and persists the
// timestamp adjustments back to the table.
func (r *Runner) SyncExport(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.newEngine(ctx)
	if err != nil {
		return err
	}
	source, err := r.resolveSource(ctx)
	if err != nil {
		return err
	}

	cached, err := source.ReadAll(true)
	if err != nil {
		return err
	}
	entries := slices.Clone(cached)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.progressPrinter(progressCh)

	snap, err := engine.Snapshot(ctx, progressCh)
	if err != nil {
		close(progressCh)
		<-done
		return err
	}

	result, err := engine.Export(ctx, progressCh, snap, entries)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	stats, err := source.Update(entries, cached)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainln("%s", ui.OK("✓ Export complete"))
	r.writePlain("Likes added: %d, removed: %d\n", result.Set, result.Unset)
	r.writePlain("Table rows touched: %d\n", stats.Updated)
	return nil
}

// SyncSnapshot fetches the online liked collections and reports them.
func (r *Runner) SyncSnapshot(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.newEngine(ctx)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.progressPrinter(progressCh)

	snap, err := engine.Snapshot(ctx, progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snap, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Online Likes")
	r.writePlain("Tracks:  %d\n", len(snap.Tracks))
	r.writePlain("Albums:  %d\n", len(snap.Albums))
	r.writePlain("Artists: %d\n", len(snap.Artists))
	r.writePlain("As of:   %s\n", snap.Timestamp)
	return nil
}
