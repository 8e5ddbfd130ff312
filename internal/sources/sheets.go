// Google Sheets [Source] backed by the Sheets v4 API.
package sources

import (
	"context"
	"fmt"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/liketab/internal/shared"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SpreadsheetIDFromURL extracts the document id from a Google Sheets URL.
func SpreadsheetIDFromURL(url string) (string, error) {
	m := spreadsheetIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: %s", shared.ErrMalformedSheet, url)
	}
	return m[1], nil
}

// SheetsOpts contains configuration for creating a Google Sheets source.
type SheetsOpts struct {
	SpreadsheetURL string
	Credentials    *GoogleCredentials
	ClientID       string
	ClientSecret   string

	// OnTokenRefresh persists a rotated refresh token; nil disables it.
	OnTokenRefresh RefreshTokenCallback
}

type sheetsBackend struct {
	svc           *sheets.Service
	spreadsheetID string
	tokens        oauth2.TokenSource
	onRefresh     RefreshTokenCallback
	lastRefresh   string
	logger        *log.Logger

	// First sheet geometry, resolved lazily and kept current by writes.
	sheetID    int64
	sheetTitle string
	rowCount   int64
	resolved   bool
}

// NewSheetsSource creates a table store on the first sheet of a Google
// Sheets document.
func NewSheetsSource(ctx context.Context, opts SheetsOpts, logger *log.Logger) (Source, error) {
	id, err := SpreadsheetIDFromURL(opts.SpreadsheetURL)
	if err != nil {
		return nil, err
	}

	if opts.Credentials == nil {
		return nil, fmt.Errorf("%w: google credentials required", shared.ErrMissingCredentials)
	}

	tokens, err := opts.Credentials.TokenSource(ctx, opts.ClientID, opts.ClientSecret)
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(tokens))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	b := &sheetsBackend{
		svc:           svc,
		spreadsheetID: id,
		tokens:        tokens,
		onRefresh:     opts.OnTokenRefresh,
		lastRefresh:   opts.Credentials.RefreshToken,
		logger:        logger,
	}
	if b.logger == nil {
		b.logger = shared.NewLogger(nil)
	}
	return newTableSource(b, logger), nil
}

func (s *sheetsBackend) Name() string {
	return "sheets"
}

// refreshTokenIfNeeded runs before every API call: it forces the token source
// to produce a valid token and hands a rotated refresh token to the callback.
func (s *sheetsBackend) refreshTokenIfNeeded() error {
	tok, err := s.tokens.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	if tok.RefreshToken != "" && tok.RefreshToken != s.lastRefresh {
		s.logger.Info("refresh token rotated, persisting")
		if s.onRefresh != nil {
			if err := s.onRefresh(tok); err != nil {
				return fmt.Errorf("refresh token callback failed: %w", err)
			}
		}
		s.lastRefresh = tok.RefreshToken
	}
	return nil
}

// resolveSheet loads the first sheet's id, title and grid row count.
func (s *sheetsBackend) resolveSheet() error {
	if s.resolved {
		return nil
	}

	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Do()
	if err != nil {
		return fmt.Errorf("%w: failed to open spreadsheet: %v", shared.ErrTableNotFound, err)
	}
	if len(doc.Sheets) == 0 {
		return fmt.Errorf("%w: document has no sheets", shared.ErrTableNotFound)
	}

	props := doc.Sheets[0].Properties
	s.sheetID = props.SheetId
	s.sheetTitle = props.Title
	if props.GridProperties != nil {
		s.rowCount = props.GridProperties.RowCount
	}
	s.resolved = true
	return nil
}

func (s *sheetsBackend) prepare() error {
	if err := s.refreshTokenIfNeeded(); err != nil {
		return err
	}
	return s.resolveSheet()
}

// columnLetter converts a 0-based column index to its A1 letter. The table is
// 11 columns wide so a single letter always suffices.
func columnLetter(idx int) string {
	return string(rune('A' + idx))
}

func (s *sheetsBackend) rangeRef(a1 string) string {
	return fmt.Sprintf("'%s'!%s", s.sheetTitle, a1)
}

func (s *sheetsBackend) readRows(columnCount int) ([][]any, error) {
	if err := s.prepare(); err != nil {
		return nil, err
	}

	if s.rowCount < FirstDataRow {
		return nil, nil
	}

	readRange := s.rangeRef(fmt.Sprintf("A%d:%s", FirstDataRow, columnLetter(columnCount-1)))
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: values read failed: %v", shared.ErrAPIRequest, err)
	}

	rows := make([][]any, 0, len(resp.Values))
	for _, row := range resp.Values {
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *sheetsBackend) writeRows(row int, rows [][]any, columns []string) error {
	if err := s.prepare(); err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}

	if err := s.resizeFor(row + len(rows) - 1); err != nil {
		return err
	}

	// One vertical range per column keeps partial writes from touching
	// neighboring cells.
	data := make([]*sheets.ValueRange, 0, len(columns))
	for j, key := range columns {
		col := columnIndex(key)
		if col < 0 {
			continue
		}

		values := make([][]any, 0, len(rows))
		for _, r := range rows {
			if j < len(r) {
				values = append(values, []any{r[j]})
			} else {
				values = append(values, []any{""})
			}
		}

		letter := columnLetter(col)
		data = append(data, &sheets.ValueRange{
			Range:          s.rangeRef(fmt.Sprintf("%s%d:%s%d", letter, row, letter, row+len(rows)-1)),
			MajorDimension: "ROWS",
			Values:         values,
		})
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	if _, err := s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Do(); err != nil {
		return fmt.Errorf("%w: values write failed: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// resizeFor grows the sheet grid when a write lands past the current row count.
func (s *sheetsBackend) resizeFor(lastRow int) error {
	if int64(lastRow) <= s.rowCount {
		return nil
	}

	s.logger.Debug("resizing sheet", "rows", lastRow)
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AppendDimension: &sheets.AppendDimensionRequest{
				SheetId:   s.sheetID,
				Dimension: "ROWS",
				Length:    int64(lastRow) - s.rowCount,
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Do(); err != nil {
		return fmt.Errorf("%w: sheet resize failed: %v", shared.ErrAPIRequest, err)
	}
	s.rowCount = int64(lastRow)
	return nil
}

func (s *sheetsBackend) truncate() error {
	if err := s.prepare(); err != nil {
		return err
	}

	s.logger.Warn("clearing full worksheet")
	clearRange := s.rangeRef(fmt.Sprintf("A1:%s", columnLetter(len(ColumnKeys)-1)))
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Do(); err != nil {
		return fmt.Errorf("%w: worksheet clear failed: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// decorateHeader installs the checkbox data-validation rule on the like
// column below the header and freezes the header row.
func (s *sheetsBackend) decorateHeader(row int) error {
	if err := s.prepare(); err != nil {
		return err
	}

	s.logger.Info("creating header row formatting and checkbox column")
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				SetDataValidation: &sheets.SetDataValidationRequest{
					Range: &sheets.GridRange{
						SheetId:          s.sheetID,
						StartRowIndex:    int64(row),
						StartColumnIndex: 0,
						EndColumnIndex:   1,
					},
					Rule: &sheets.DataValidationRule{
						Condition:    &sheets.BooleanCondition{Type: "BOOLEAN"},
						ShowCustomUi: true,
					},
				},
			},
			{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId: s.sheetID,
						GridProperties: &sheets.GridProperties{
							FrozenRowCount: int64(row),
						},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
		},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Do(); err != nil {
		return fmt.Errorf("%w: header formatting failed: %v", shared.ErrAPIRequest, err)
	}
	return nil
}
