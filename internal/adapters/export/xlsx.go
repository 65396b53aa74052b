package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	maxSheetName = 31
)

// XLSX renders records as a single-sheet workbook. The header rule and the
// empty-input signal match CSV. Numbers stay numeric cells.
func XLSX(records []Record, sheet string) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	name := sheetName(sheet)
	if name != defaultSheet {
		if err := f.SetSheetName(defaultSheet, name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteXLSX, err)
		}
	}

	header := records[0].Keys()
	head := make([]any, len(header))
	for i, k := range header {
		head[i] = k
	}
	if err := f.SetSheetRow(name, "A1", &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteXLSX, err)
	}

	for r, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteXLSX, err)
		}
		row := make([]any, len(header))
		for i, key := range header {
			row[i] = cellValue(rec.valueAt(i, key))
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteXLSX, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteXLSX, err)
	}
	return buf.Bytes(), nil
}

func cellValue(v any) any {
	switch x := v.(type) {
	case int, float64:
		return x
	case *float64:
		if x == nil {
			return ""
		}
		return *x
	default:
		return Format(v)
	}
}

func sheetName(s string) string {
	if s == "" {
		return defaultSheet
	}
	if len(s) > maxSheetName {
		return s[:maxSheetName]
	}
	return s
}
