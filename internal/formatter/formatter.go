// package formatter renders like tables and run reports to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/desertthunder/liketab/internal/models"
	"github.com/desertthunder/liketab/internal/sources"
	"github.com/desertthunder/liketab/internal/tasks"
)

// ExportToCSV converts table entries to CSV with the table's own column order.
func ExportToCSV(entries []models.LikedEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(sources.ColumnKeys); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		if err := writer.Write(entryRecord(entry)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts table entries to a Markdown document with a
// summary header and one table row per entry.
func ExportToMarkdown(entries []models.LikedEntry, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Liked Music"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	liked := 0
	for _, entry := range entries {
		if entry.LikeOn {
			liked++
		}
	}
	buf.WriteString(fmt.Sprintf("**Rows**: %d\n", len(entries)))
	buf.WriteString(fmt.Sprintf("**Liked**: %d\n\n", liked))

	buf.WriteString("| | Artist | Album | Track | Year | Genre |\n")
	buf.WriteString("|---|---|---|---|---|---|\n")
	for _, entry := range entries {
		mark := " "
		if entry.LikeOn {
			mark = "x"
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			mark, entry.Artist, entry.Album, entry.Track, entry.Year, entry.Genre))
	}

	return buf.Bytes(), nil
}

// ExportToText converts table entries to plain text, one line per entry.
func ExportToText(entries []models.LikedEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Rows: %d\n\n", len(entries)))
	for i, entry := range entries {
		mark := "[ ]"
		if entry.LikeOn {
			mark = "[x]"
		}
		buf.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, mark, entryLabel(entry)))
	}

	return buf.Bytes(), nil
}

// ReportToText renders a reconciliation run result as a short plain-text
// report suitable for terminal output.
func ReportToText(result *tasks.RunResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Run: %s\n", result.ID))
	if result.Snapshot != nil {
		buf.WriteString(fmt.Sprintf("Online: %d tracks, %d albums, %d artists (as of %s)\n",
			len(result.Snapshot.Tracks), len(result.Snapshot.Albums), len(result.Snapshot.Artists),
			result.Snapshot.Timestamp))
	}
	if result.Import != nil {
		buf.WriteString(fmt.Sprintf("Import: %d unset, %d re-affirmed, %d new\n",
			result.Import.Unset, result.Import.Set, result.Import.New))
	}
	if result.Export != nil {
		buf.WriteString(fmt.Sprintf("Export: %d likes added, %d removed\n",
			result.Export.Set, result.Export.Unset))
	}
	if result.Created {
		buf.WriteString(fmt.Sprintf("Table: created with %d rows\n", result.TableRows))
	} else if result.Stats != nil {
		buf.WriteString(fmt.Sprintf("Table: %d rows updated, %d appended (%d total)\n",
			result.Stats.Updated, result.Stats.Added, result.TableRows))
	} else {
		buf.WriteString(fmt.Sprintf("Table: %d rows (not written)\n", result.TableRows))
	}

	return buf.Bytes()
}

// WriteCSVExport writes the CSV rendering of entries to filepath.
//
// Defaults to likes.csv in the working directory.
func WriteCSVExport(entries []models.LikedEntry, filepath string) (string, error) {
	if filepath == "" {
		filepath = "likes.csv"
	}

	data, err := ExportToCSV(entries)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}
	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}
	return filepath, nil
}

// WriteMarkdownExport writes the Markdown rendering of entries to filepath.
//
// Defaults to likes.md in the working directory.
func WriteMarkdownExport(entries []models.LikedEntry, filepath string, title string) (string, error) {
	if filepath == "" {
		filepath = "likes.md"
	}

	data, err := ExportToMarkdown(entries, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}
	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return filepath, nil
}

// WriteTextExport writes the plain text rendering of entries to filepath.
//
// Defaults to likes.txt in the working directory.
func WriteTextExport(entries []models.LikedEntry, filepath string) (string, error) {
	if filepath == "" {
		filepath = "likes.txt"
	}

	data, err := ExportToText(entries)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return filepath, nil
}

func entryRecord(entry models.LikedEntry) []string {
	on := "FALSE"
	if entry.LikeOn {
		on = "TRUE"
	}
	return []string{
		on,
		entry.ArtistID,
		entry.AlbumID,
		entry.TrackID,
		entry.Timestamp,
		entry.Artist,
		entry.Genres,
		entry.Album,
		entry.Track,
		entry.Year,
		entry.Genre,
	}
}

func entryLabel(entry models.LikedEntry) string {
	switch entry.Granularity() {
	case models.GranularityTrack:
		return fmt.Sprintf("%s - %s", entry.Artist, entry.Track)
	case models.GranularityAlbum:
		return fmt.Sprintf("%s - %s (album)", entry.Artist, entry.Album)
	case models.GranularityArtist:
		return fmt.Sprintf("%s (artist)", entry.Artist)
	default:
		return "(unidentified row)"
	}
}
