// SQLite [Source] keeping the same positional row layout in a likes table.
//
// The position column is the 1-based physical row number, so the positional
// update protocol addresses sqlite rows exactly like spreadsheet rows. The
// schema itself plays the header role; header writes are no-ops.
package sources

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS likes (
	position INTEGER PRIMARY KEY,
	like_on INTEGER NOT NULL DEFAULT 0,
	artist_id TEXT NOT NULL DEFAULT '',
	album_id TEXT NOT NULL DEFAULT '',
	track_id TEXT NOT NULL DEFAULT '',
	timestamp TEXT NOT NULL DEFAULT '',
	artist TEXT NOT NULL DEFAULT '',
	genres TEXT NOT NULL DEFAULT '',
	album TEXT NOT NULL DEFAULT '',
	track TEXT NOT NULL DEFAULT '',
	year TEXT NOT NULL DEFAULT '',
	genre TEXT NOT NULL DEFAULT ''
);`

type sqliteBackend struct {
	db *sql.DB
}

// NewSqliteSource creates a table store on an open sqlite database, creating
// the likes table if missing.
func NewSqliteSource(db *sql.DB, logger *log.Logger) (Source, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create likes table: %w", err)
	}
	return newTableSource(&sqliteBackend{db: db}, logger), nil
}

func (s *sqliteBackend) Name() string {
	return "sqlite"
}

func (s *sqliteBackend) readRows(columnCount int) ([][]any, error) {
	keys := ColumnKeys[:columnCount]

	query := fmt.Sprintf("SELECT %s FROM likes ORDER BY position", strings.Join(keys, ", "))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values := make([]any, columnCount)
		targets := make([]any, columnCount)
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

func (s *sqliteBackend) writeRows(row int, rows [][]any, columns []string) error {
	if row <= HeaderRow {
		return nil // column names live in the schema
	}

	assignments := make([]string, 0, len(columns))
	for _, key := range columns {
		assignments = append(assignments, fmt.Sprintf("%s=excluded.%s", key, key))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	// Column names come from the fixed ColumnKeys list, never from input.
	query := fmt.Sprintf(
		"INSERT INTO likes (position, %s) VALUES (?, %s) ON CONFLICT(position) DO UPDATE SET %s",
		strings.Join(columns, ", "), placeholders, strings.Join(assignments, ", "),
	)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i, values := range rows {
		args := make([]any, 0, len(columns)+1)
		args = append(args, row+i)
		args = append(args, values...)
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to upsert row %d: %w", row+i, err)
		}
	}

	return tx.Commit()
}

func (s *sqliteBackend) truncate() error {
	if _, err := s.db.Exec("DELETE FROM likes"); err != nil {
		return fmt.Errorf("failed to truncate likes: %w", err)
	}
	return nil
}
