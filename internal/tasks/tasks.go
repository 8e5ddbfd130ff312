// package tasks implements like reconciliation between the remote music
// service and the persisted like table.
//
// The core abstraction is SyncEngine, which builds online snapshots, absorbs
// online drift into the table (import), pushes checkbox edits back online
// (export) and persists the result through a table source. Operations emit
// progress updates via channels for non-blocking status reporting to the CLI
// layer.
package tasks

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/liketab/internal/models"
	"github.com/desertthunder/liketab/internal/services"
	"github.com/desertthunder/liketab/internal/shared"
	"github.com/desertthunder/liketab/internal/sources"
)

// ImportResult counts what the import path changed in the table.
type ImportResult struct {
	Unset int // likes switched off because they disappeared online
	Set   int // existing rows re-affirmed from newer online likes
	New   int // rows appended for previously unseen likes
}

// ExportResult counts the like mutations pushed to the remote service.
type ExportResult struct {
	Set   int // likes added online from checked rows
	Unset int // likes removed online from unchecked rows
}

// RunOptions configures a full reconciliation pass.
type RunOptions struct {
	// Push enables the export path after import, mutating remote likes
	// according to checkbox state.
	Push bool

	// DryRun computes everything but skips the table write and any remote
	// mutation.
	DryRun bool
}

// RunResult aggregates one reconciliation pass for reporting.
type RunResult struct {
	ID        string                 // run identifier for logs and reports
	Snapshot  *models.OnlineSnapshot // online state the pass reconciled against
	Import    *ImportResult
	Export    *ExportResult // nil unless Push was set
	Stats     *sources.UpdateStats
	TableRows int  // logical table length after the pass
	Created   bool // table was (re)created with a full sorted write
}

// SyncEngine defines the reconciliation operations between online likes and
// the table.
type SyncEngine interface {
	// Snapshot fetches the three liked collections and produces the
	// normalized, time-sorted online snapshot.
	Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*models.OnlineSnapshot, error)

	// Import absorbs online drift into the table entries: stale likes are
	// switched off, newer online likes re-affirm or append rows, and new
	// rows are enriched with metadata. Returns the updated entries.
	Import(ctx context.Context, progress chan<- ProgressUpdate, snap *models.OnlineSnapshot, entries []models.LikedEntry) ([]models.LikedEntry, *ImportResult, error)

	// Export pushes checkbox edits to the remote service in batched calls.
	Export(ctx context.Context, progress chan<- ProgressUpdate, snap *models.OnlineSnapshot, entries []models.LikedEntry) (*ExportResult, error)

	// Run performs a full pass: read table, snapshot, import, optionally
	// export, then persist through the table source.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOptions) (*RunResult, error)
}

// LikeEngine implements [SyncEngine].
//
// The service and source are explicit dependencies; the engine holds no
// ambient state and a single engine value must not run overlapping passes
// against the same table.
type LikeEngine struct {
	service services.MusicService
	source  sources.Source
	logger  *log.Logger
}

// NewLikeEngine creates a new LikeEngine with the provided collaborators.
func NewLikeEngine(service services.MusicService, source sources.Source, logger *log.Logger) *LikeEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LikeEngine{
		service: service,
		source:  source,
		logger:  logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *LikeEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs a full reconciliation pass.
//
// On a first run against an empty table the result is sorted and written in
// full; otherwise the positional update protocol applies the diff against the
// rows cached from the initial read.
func (e *LikeEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOptions) (*RunResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}
	if e.source == nil {
		return nil, fmt.Errorf("%w: table source not initialized", shared.ErrServiceUnavailable)
	}

	result := &RunResult{ID: shared.GenerateID()}
	logger := e.logger.With("run", result.ID)

	// Read with metadata: enrichment only fetches for rows with missing
	// display fields, and the update protocol matches rows against this
	// read, so ids must arrive exactly as stored.
	cachedOld, err := e.source.ReadAll(false)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	entries := slices.Clone(cachedOld)

	snap, err := e.Snapshot(ctx, progress)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap

	entries, imported, err := e.Import(ctx, progress, snap, entries)
	if err != nil {
		return nil, err
	}
	result.Import = imported

	if opts.Push && !opts.DryRun {
		exported, err := e.Export(ctx, progress, snap, entries)
		if err != nil {
			return nil, err
		}
		result.Export = exported
	}

	result.TableRows = len(entries)

	if opts.DryRun {
		logger.Info("dry run, skipping table write")
		return result, nil
	}

	e.sendProgress(progress, writeTableUpdate(len(entries)))

	if len(cachedOld) == 0 {
		SortEntries(entries)
		if err := e.source.WriteAll(entries); err != nil {
			return result, err
		}
		result.Created = true
		result.Stats = &sources.UpdateStats{Added: len(entries)}
		logger.Info("table created", "rows", len(entries))
		return result, nil
	}

	stats, err := e.source.Update(entries, cachedOld)
	result.Stats = stats
	if err != nil {
		return result, err
	}
	logger.Info("table updated", "updated", stats.Updated, "added", stats.Added)
	return result, nil
}
