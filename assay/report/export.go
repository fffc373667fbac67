package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/justapithecus/assay/assay"
)

// WriteCSV persists a table as a CSV file with a header row. Null cells
// render as empty fields.
func WriteCSV(t *assay.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer closer(f)()

	w := csv.NewWriter(f)
	if err := w.Write(t.ColumnNames()); err != nil {
		return err
	}
	record := make([]string, t.NumCols())
	for r := 0; r < t.NumRows(); r++ {
		for i, name := range t.ColumnNames() {
			record[i] = formatCell(t.Value(r, name))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// WriteXLSX persists a table as a single-sheet xlsx workbook, header row
// included. Numeric cells keep their numeric type so spreadsheet formulas
// work on them.
func WriteXLSX(t *assay.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	wb := excelize.NewFile()
	defer closer(wb)()

	sheet := wb.GetSheetName(0)
	for i, name := range t.ColumnNames() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := wb.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for r := 0; r < t.NumRows(); r++ {
		for i, name := range t.ColumnNames() {
			v := t.Value(r, name)
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := wb.SetCellValue(sheet, cell, xlsxValue(v)); err != nil {
				return err
			}
		}
	}
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}

// formatCell renders a cell for CSV output.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// xlsxValue maps cells to types excelize stores natively.
func xlsxValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

type closeIgnorer interface{ Close() error }

// closer mirrors the core package's cleanup helper for defer-only closes.
func closer(c closeIgnorer) func() {
	return func() { _ = c.Close() }
}
