// Local xlsx file [Source] backed by excelize.
package sources

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Sheet1"

type xlsxBackend struct {
	path string
}

// NewXlsxSource creates a table store on a local .xlsx file. A missing file
// reads as an empty table and is created on first write.
func NewXlsxSource(path string, logger *log.Logger) Source {
	return newTableSource(&xlsxBackend{path: path}, logger)
}

func (x *xlsxBackend) Name() string {
	return "xlsx"
}

// open loads the workbook, or starts a fresh one when the file is missing.
func (x *xlsxBackend) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(x.path)
	if err == nil {
		return f, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), nil
	}
	return nil, fmt.Errorf("failed to open workbook %s: %w", x.path, err)
}

func (x *xlsxBackend) readRows(columnCount int) ([][]any, error) {
	if _, err := os.Stat(x.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	f, err := x.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	out := make([][]any, 0, len(rows))
	for i, row := range rows {
		if i < FirstDataRow-1 {
			continue // header
		}
		cells := make([]any, 0, columnCount)
		for c := 0; c < columnCount; c++ {
			if c < len(row) {
				cells = append(cells, row[c])
			} else {
				cells = append(cells, nil)
			}
		}
		out = append(out, cells)
	}
	return out, nil
}

func (x *xlsxBackend) writeRows(row int, rows [][]any, columns []string) error {
	f, err := x.open()
	if err != nil {
		return err
	}
	defer f.Close()

	for i, values := range rows {
		for j, key := range columns {
			col := columnIndex(key)
			if col < 0 || j >= len(values) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+i)
			if err != nil {
				return fmt.Errorf("bad cell coordinate: %w", err)
			}
			if err := f.SetCellValue(xlsxSheet, cell, values[j]); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (x *xlsxBackend) truncate() error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("failed to truncate workbook: %w", err)
	}
	return nil
}
