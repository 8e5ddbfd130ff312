package sources

import (
	"reflect"
	"testing"

	"github.com/desertthunder/liketab/internal/models"
)

// writeCall records one writeRows invocation for protocol assertions.
type writeCall struct {
	row     int
	rows    [][]any
	columns []string
}

// fakeBackend is an in-memory backend capturing every write.
type fakeBackend struct {
	grid      [][]any
	writes    []writeCall
	truncated int
	readErr   error
	writeErr  error
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) readRows(columnCount int) ([][]any, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.grid, nil
}

func (f *fakeBackend) writeRows(row int, rows [][]any, columns []string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, writeCall{row: row, rows: rows, columns: columns})
	return nil
}

func (f *fakeBackend) truncate() error {
	f.truncated++
	f.grid = nil
	return nil
}

func entryRow(on bool, artistID, albumID, trackID, timestamp string) []any {
	return []any{on, artistID, albumID, trackID, timestamp}
}

func TestReadAll(t *testing.T) {
	t.Run("decodes rows in order", func(t *testing.T) {
		backend := &fakeBackend{grid: [][]any{
			entryRow(true, "ar1", "al1", "t1", "2021-06-15T10:30:00+00:00"),
			entryRow(false, "ar2", "", "", ""),
		}}
		src := newTableSource(backend, nil)

		entries, err := src.ReadAll(true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if !entries[0].LikeOn || entries[0].TrackID != "t1" {
			t.Errorf("first entry decoded wrong: %+v", entries[0])
		}
		if entries[0].Time == 0 {
			t.Error("expected Time derived from timestamp")
		}
		if entries[1].LikeOn || entries[1].ArtistID != "ar2" {
			t.Errorf("second entry decoded wrong: %+v", entries[1])
		}
	})

	t.Run("stops at fully empty row", func(t *testing.T) {
		backend := &fakeBackend{grid: [][]any{
			entryRow(true, "ar1", "", "", ""),
			{nil, "", "", "", ""},
			entryRow(true, "ar2", "", "", ""),
		}}
		src := newTableSource(backend, nil)

		entries, err := src.ReadAll(true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected read to stop at empty row, got %d entries", len(entries))
		}
	})

	t.Run("strips float suffix from id columns", func(t *testing.T) {
		backend := &fakeBackend{grid: [][]any{
			entryRow(true, "123.0", "456.0", "789.0", ""),
		}}
		src := newTableSource(backend, nil)

		entries, err := src.ReadAll(true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := models.LikeKey{ArtistID: "123", AlbumID: "456", TrackID: "789"}
		if entries[0].LikeKey != want {
			t.Errorf("key = %+v, want %+v", entries[0].LikeKey, want)
		}
	})

	t.Run("FALSE string row with metadata is kept", func(t *testing.T) {
		backend := &fakeBackend{grid: [][]any{
			{"FALSE", "ar1", "", "", ""},
		}}
		src := newTableSource(backend, nil)

		entries, err := src.ReadAll(true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 || entries[0].LikeOn {
			t.Errorf("expected one unchecked entry, got %+v", entries)
		}
	})
}

func TestWriteAll(t *testing.T) {
	backend := &fakeBackend{}
	src := newTableSource(backend, nil)

	entries := []models.LikedEntry{
		{LikeOn: true, LikeKey: models.LikeKey{ArtistID: "ar1"}, Timestamp: "2021-06-15T10:30:00Z", Artist: "A"},
	}
	if err := src.WriteAll(entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if backend.truncated != 1 {
		t.Errorf("expected one truncate, got %d", backend.truncated)
	}
	if len(backend.writes) != 2 {
		t.Fatalf("expected header write and data write, got %d writes", len(backend.writes))
	}

	header := backend.writes[0]
	if header.row != HeaderRow {
		t.Errorf("header row = %d, want %d", header.row, HeaderRow)
	}
	if got := header.rows[0][0]; got != "like_on" {
		t.Errorf("first header cell = %v, want like_on", got)
	}

	data := backend.writes[1]
	if data.row != FirstDataRow {
		t.Errorf("data row = %d, want %d", data.row, FirstDataRow)
	}
	if len(data.rows) != 1 || len(data.rows[0]) != len(ColumnKeys) {
		t.Errorf("data shape wrong: %+v", data.rows)
	}
}

func TestUpdate(t *testing.T) {
	oldEntries := []models.LikedEntry{
		{LikeOn: true, LikeKey: models.LikeKey{TrackID: "t1"}, Timestamp: "2021-06-15T10:30:00Z", Time: 1623753000},
		{LikeOn: true, LikeKey: models.LikeKey{AlbumID: "al1"}, Timestamp: "2021-06-15T10:30:00Z", Time: 1623753000},
		{LikeOn: false, LikeKey: models.LikeKey{ArtistID: "ar1"}},
	}

	t.Run("rewrites only changed rows", func(t *testing.T) {
		backend := &fakeBackend{}
		src := newTableSource(backend, nil)

		entries := append([]models.LikedEntry{}, oldEntries...)
		entries[0].LikeOn = false // toggled off
		entries[0].Time = 0
		entries[0].Timestamp = ""

		stats, err := src.Update(entries, oldEntries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Updated != 1 || stats.Added != 0 {
			t.Errorf("stats = %+v, want 1 updated 0 added", stats)
		}
		if len(backend.writes) != 1 {
			t.Fatalf("expected exactly one write, got %d", len(backend.writes))
		}

		write := backend.writes[0]
		if write.row != FirstDataRow {
			t.Errorf("write row = %d, want %d", write.row, FirstDataRow)
		}
		if !reflect.DeepEqual(write.columns, []string{"like_on", "timestamp"}) {
			t.Errorf("write columns = %v, want like_on+timestamp only", write.columns)
		}
	})

	t.Run("no-op when nothing changed", func(t *testing.T) {
		backend := &fakeBackend{}
		src := newTableSource(backend, nil)

		entries := append([]models.LikedEntry{}, oldEntries...)
		stats, err := src.Update(entries, oldEntries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Updated != 0 || stats.Added != 0 {
			t.Errorf("stats = %+v, want no changes", stats)
		}
		if len(backend.writes) != 0 {
			t.Errorf("expected no writes, got %d", len(backend.writes))
		}
	})

	t.Run("appends trailing new entries", func(t *testing.T) {
		backend := &fakeBackend{}
		src := newTableSource(backend, nil)

		entries := append([]models.LikedEntry{}, oldEntries...)
		entries = append(entries, models.LikedEntry{
			LikeOn:  true,
			LikeKey: models.LikeKey{TrackID: "t2"},
		})

		stats, err := src.Update(entries, oldEntries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Added != 1 {
			t.Errorf("stats.Added = %d, want 1", stats.Added)
		}

		write := backend.writes[len(backend.writes)-1]
		if write.row != FirstDataRow+len(oldEntries) {
			t.Errorf("append row = %d, want %d", write.row, FirstDataRow+len(oldEntries))
		}
		if len(write.columns) != len(ColumnKeys) {
			t.Errorf("append should write all columns, got %v", write.columns)
		}
	})

	t.Run("drops trailing duplicates of existing rows", func(t *testing.T) {
		backend := &fakeBackend{}
		src := newTableSource(backend, nil)

		entries := append([]models.LikedEntry{}, oldEntries...)
		entries = append(entries, oldEntries[0]) // same id triple again

		stats, err := src.Update(entries, oldEntries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Added != 0 {
			t.Errorf("stats.Added = %d, want 0", stats.Added)
		}
		if len(backend.writes) != 0 {
			t.Errorf("expected no writes, got %d", len(backend.writes))
		}
	})

	t.Run("reads fresh when cache is nil", func(t *testing.T) {
		backend := &fakeBackend{grid: [][]any{
			entryRow(true, "", "", "t1", "2021-06-15T10:30:00Z"),
		}}
		src := newTableSource(backend, nil)

		entries := []models.LikedEntry{
			{LikeOn: false, LikeKey: models.LikeKey{TrackID: "t1"}},
		}
		stats, err := src.Update(entries, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.Updated != 1 {
			t.Errorf("stats.Updated = %d, want 1", stats.Updated)
		}
	})
}

func TestEncodeRowsWriteProcessors(t *testing.T) {
	WriteProcessors["year"] = func(v any) any { return "y:" + v.(string) }
	defer delete(WriteProcessors, "year")

	rows := encodeRows([]models.LikedEntry{{Year: "1999"}}, ColumnKeys)
	if got := rows[0][columnIndex("year")]; got != "y:1999" {
		t.Errorf("processor not applied, got %v", got)
	}
}

func TestColumnIndex(t *testing.T) {
	if got := columnIndex("like_on"); got != 0 {
		t.Errorf("columnIndex(like_on) = %d, want 0", got)
	}
	if got := columnIndex("genre"); got != len(ColumnKeys)-1 {
		t.Errorf("columnIndex(genre) = %d, want %d", got, len(ColumnKeys)-1)
	}
	if got := columnIndex("bogus"); got != -1 {
		t.Errorf("columnIndex(bogus) = %d, want -1", got)
	}
}
