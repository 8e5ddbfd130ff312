// package sources implements the row-oriented table stores the like table
// persists to.
//
// A table is a fixed 11-column layout with a header in row 1 and data from
// row 2. Three backends implement the same low-level row I/O: a local xlsx
// file, a Google Sheets document and a sqlite database. The positional update
// protocol lives here once, on top of that row I/O.
package sources

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/liketab/internal/models"
	"github.com/desertthunder/liketab/internal/shared"
)

// ColumnKeys is the fixed column order of the persisted table.
var ColumnKeys = []string{
	"like_on",
	"artist_id",
	"album_id",
	"track_id",
	"timestamp",
	"artist",
	"genres",
	"album",
	"track",
	"year",
	"genre",
}

// MinColumns is the column count of a metadata-free read: checkbox, the three
// ids and the timestamp.
const MinColumns = 5

const (
	// HeaderRow is the 1-based physical row of the column-name header.
	HeaderRow = 1
	// FirstDataRow is the 1-based physical row of the first entry.
	FirstDataRow = 2
)

// UpdateStats reports what a positional update touched.
type UpdateStats struct {
	Updated int // rows whose like_on/timestamp cells were rewritten
	Added   int // rows appended after the cached table end
}

// Source is the table store abstraction the reconciliation engine writes
// through.
//
// Row order between two reads of an unmodified table is stable; Update relies
// on that invariant and offers no protection against a concurrent writer
// reordering rows between the read that produced cachedOld and the update
// call. Runs against the same table must not overlap.
type Source interface {
	// ReadAll returns all entries in physical row order. With noMetadata
	// only the first MinColumns columns are read, which is cheaper on
	// remote backends and sufficient for the update protocol.
	ReadAll(noMetadata bool) ([]models.LikedEntry, error)

	// WriteAll truncates the store and rewrites header plus all rows.
	WriteAll(entries []models.LikedEntry) error

	// Update applies the positional-diff protocol without truncating:
	// rewrite only the like_on and timestamp cells of rows whose state
	// changed, then append strictly-new trailing entries. cachedOld is the
	// table as last read, in physical row order; read fresh when nil.
	Update(entries []models.LikedEntry, cachedOld []models.LikedEntry) (*UpdateStats, error)

	// WriteHeader (re)writes the column-name header at the given physical row.
	WriteHeader(row int) error

	// Name identifies the backend for logs and reports.
	Name() string
}

// WriteProcessors is the write-value extension point: a transform registered
// per column key runs on every cell value before it reaches the backend.
// Empty by default; values pass through unchanged.
var WriteProcessors = map[string]func(any) any{}

// backend is the minimal row I/O a table implementation provides. Rows and
// columns are 1-based physical coordinates; readRows starts at FirstDataRow.
type backend interface {
	readRows(columnCount int) ([][]any, error)
	writeRows(row int, rows [][]any, columns []string) error
	truncate() error
	Name() string
}

// headerDecorator is implemented by backends that need extra work after the
// header is written, such as data-validation rules or frozen rows.
type headerDecorator interface {
	decorateHeader(row int) error
}

// tableSource implements [Source] generically over a [backend].
type tableSource struct {
	backend backend
	logger  *log.Logger
}

func newTableSource(b backend, logger *log.Logger) *tableSource {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &tableSource{backend: b, logger: logger.With("source", b.Name())}
}

func (t *tableSource) Name() string {
	return t.backend.Name()
}

func (t *tableSource) ReadAll(noMetadata bool) ([]models.LikedEntry, error) {
	columnCount := len(ColumnKeys)
	if noMetadata {
		columnCount = MinColumns
	}

	raw, err := t.backend.readRows(columnCount)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LikedEntry, 0, len(raw))
	for _, row := range raw {
		entry, empty := decodeRow(row, columnCount)
		if empty {
			// Remote backends report their full grid; a fully empty
			// row marks the end of data.
			break
		}
		entries = append(entries, entry)
	}

	t.logger.Debug("read table", "rows", len(entries), "no_metadata", noMetadata)
	return entries, nil
}

func (t *tableSource) WriteAll(entries []models.LikedEntry) error {
	t.logger.Warn("truncating table for full rewrite", "rows", len(entries))

	if err := t.backend.truncate(); err != nil {
		return fmt.Errorf("truncate failed: %w", err)
	}
	if err := t.WriteHeader(HeaderRow); err != nil {
		return err
	}
	return t.backend.writeRows(FirstDataRow, encodeRows(entries, ColumnKeys), ColumnKeys)
}

func (t *tableSource) WriteHeader(row int) error {
	header := make([]any, len(ColumnKeys))
	for i, key := range ColumnKeys {
		header[i] = key
	}
	if err := t.backend.writeRows(row, [][]any{header}, ColumnKeys); err != nil {
		return fmt.Errorf("header write failed: %w", err)
	}

	if d, ok := t.backend.(headerDecorator); ok {
		return d.decorateHeader(row)
	}
	return nil
}

// Update applies the positional-diff protocol of [Source].
//
// cachedOld[i] must still correspond to physical row FirstDataRow+i; the
// protocol silently corrupts unrelated rows if the table was reordered after
// the read that produced cachedOld.
func (t *tableSource) Update(entries []models.LikedEntry, cachedOld []models.LikedEntry) (*UpdateStats, error) {
	if cachedOld == nil {
		var err error
		if cachedOld, err = t.ReadAll(true); err != nil {
			return nil, err
		}
	}

	stats := &UpdateStats{}

	// Row identity here is the exact id triple, not granularity: rows keep
	// their ids even when toggled off.
	updateColumns := []string{"like_on", "timestamp"}
	for i, old := range cachedOld {
		var state *models.LikedEntry
		for j := range entries {
			if entries[j].SameRow(old.LikeKey) {
				state = &entries[j]
				break
			}
		}
		if state == nil {
			continue
		}

		// TODO: join adjacent row updates into one range write per backend call
		if old.LikeOn != state.LikeOn || old.Time != state.Time {
			row := FirstDataRow + i
			t.logger.Debug("update row", "row", row)
			if err := t.backend.writeRows(row, encodeRows([]models.LikedEntry{*state}, updateColumns), updateColumns); err != nil {
				return stats, fmt.Errorf("row %d update failed: %w", row, err)
			}
			stats.Updated++
		}
	}

	// Entries past the cached table end are candidate new rows. Drop any
	// whose id triple already exists as a safety net against double appends
	// when old and new lists are not perfectly aligned.
	if len(entries) > len(cachedOld) {
		appended := make([]models.LikedEntry, 0, len(entries)-len(cachedOld))
		for _, candidate := range entries[len(cachedOld):] {
			exists := false
			for _, old := range cachedOld {
				if old.SameRow(candidate.LikeKey) {
					exists = true
					break
				}
			}
			if !exists {
				appended = append(appended, candidate)
			}
		}

		if len(appended) > 0 {
			row := FirstDataRow + len(cachedOld)
			if err := t.backend.writeRows(row, encodeRows(appended, ColumnKeys), ColumnKeys); err != nil {
				return stats, fmt.Errorf("append at row %d failed: %w", row, err)
			}
		}
		stats.Added = len(appended)
	}

	t.logger.Debug("table updated", "updated", stats.Updated, "added", stats.Added)
	return stats, nil
}

// decodeRow maps raw cell values to an entry, applying the per-column read
// normalization. The second return is true for a fully empty row.
func decodeRow(row []any, columnCount int) (models.LikedEntry, bool) {
	var entry models.LikedEntry
	empty := true

	cell := func(idx int) any {
		if idx < len(row) {
			return row[idx]
		}
		return nil
	}

	for idx := 0; idx < columnCount && idx < len(ColumnKeys); idx++ {
		switch key := ColumnKeys[idx]; key {
		case "like_on":
			if shared.ValueToBool(cell(idx)) {
				entry.LikeOn = true
				empty = false
			}
		case "artist_id", "album_id", "track_id", "year":
			if v := shared.StripFloatSuffix(cell(idx)); v != "" {
				empty = false
				setColumn(&entry, key, v)
			}
		default:
			if v := shared.ValueToString(cell(idx)); v != "" {
				empty = false
				setColumn(&entry, key, v)
			}
		}
	}

	if entry.Timestamp != "" {
		// Malformed timestamps degrade to 0 rather than failing the read.
		entry.Time, _ = shared.IsoToUnix(entry.Timestamp)
	}
	return entry, empty
}

func setColumn(entry *models.LikedEntry, key, value string) {
	switch key {
	case "artist_id":
		entry.ArtistID = value
	case "album_id":
		entry.AlbumID = value
	case "track_id":
		entry.TrackID = value
	case "timestamp":
		entry.Timestamp = value
	case "artist":
		entry.Artist = value
	case "genres":
		entry.Genres = value
	case "album":
		entry.Album = value
	case "track":
		entry.Track = value
	case "year":
		entry.Year = value
	case "genre":
		entry.Genre = value
	}
}

func columnValue(entry models.LikedEntry, key string) any {
	switch key {
	case "like_on":
		return entry.LikeOn
	case "artist_id":
		return entry.ArtistID
	case "album_id":
		return entry.AlbumID
	case "track_id":
		return entry.TrackID
	case "timestamp":
		return entry.Timestamp
	case "artist":
		return entry.Artist
	case "genres":
		return entry.Genres
	case "album":
		return entry.Album
	case "track":
		return entry.Track
	case "year":
		return entry.Year
	case "genre":
		return entry.Genre
	default:
		return ""
	}
}

func encodeRows(entries []models.LikedEntry, columns []string) [][]any {
	rows := make([][]any, 0, len(entries))
	for _, entry := range entries {
		row := make([]any, len(columns))
		for i, key := range columns {
			value := columnValue(entry, key)
			if proc, ok := WriteProcessors[key]; ok {
				value = proc(value)
			}
			row[i] = value
		}
		rows = append(rows, row)
	}
	return rows
}

// columnIndex returns the 0-based physical column of a key.
func columnIndex(key string) int {
	for i, k := range ColumnKeys {
		if k == key {
			return i
		}
	}
	return -1
}
