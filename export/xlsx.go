package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/warp/employee-directory/directory"
)

// SheetName is the only sheet in an XLSX export.
const SheetName = "Employees"

// XLSX renders the same table as CSV into a single-sheet workbook. ID,
// Salary and Performance are written as numbers.
func XLSX(records []directory.Employee) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := writeRow(sw, 1, header); err != nil {
		return nil, err
	}
	for i, e := range records {
		if err := writeRow(sw, i+2, xlsxRow(e)); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(sw *excelize.StreamWriter, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	return nil
}

func xlsxRow(e directory.Employee) []interface{} {
	cells := Row(e)
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	out[0] = e.ID
	out[7] = e.Salary.InexactFloat64()
	out[13] = e.Performance
	return out
}
