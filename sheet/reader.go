/*
Package sheet reads biometric exports and renders reports as workbooks.

PURPOSE:
  The I/O edge of the engine. Readers decode the first worksheet of an upload
  into an attendance.Table of typed cells; writers lay a report out as a
  styled .xlsx workbook. No attendance rules live here.

FORMATS:
  .xlsx  excelize (native dates arrive as serial numbers)
  .xls   extrame/xls (cells arrive as formatted text)

SEE ALSO:
  - attendance/ingest.go: Table -> []Punch
  - writer.go: Report -> workbook
*/
package sheet

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/warp/punch-engine/attendance"
)

// maxXLSRows bounds legacy sheet reads.
const maxXLSRows = 100000

// Read decodes the upload according to its file extension.
func Read(r io.Reader, filename string) (attendance.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return attendance.Table{}, fmt.Errorf("%w: %v", attendance.ErrUnreadableWorkbook, err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		return ReadXLS(bytes.NewReader(data))
	case ".xlsx", ".xlsm", "":
		return ReadXLSX(bytes.NewReader(data))
	default:
		return attendance.Table{}, fmt.Errorf("%w: unsupported file type %q", attendance.ErrUnreadableWorkbook, filepath.Ext(filename))
	}
}

// =============================================================================
// XLSX
// =============================================================================

// ReadXLSX decodes the first worksheet of an .xlsx workbook.
func ReadXLSX(r io.Reader) (attendance.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return attendance.Table{}, fmt.Errorf("%w: %v", attendance.ErrUnreadableWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return attendance.Table{}, fmt.Errorf("%w: no worksheet found", attendance.ErrUnreadableWorkbook)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return attendance.Table{}, fmt.Errorf("%w: %v", attendance.ErrUnreadableWorkbook, err)
	}
	if len(rows) == 0 {
		return attendance.Table{}, nil
	}

	table := attendance.Table{Header: rows[0]}
	for i, row := range rows[1:] {
		values := make([]attendance.Value, len(row))
		for j, raw := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return attendance.Table{}, err
			}
			cellType, err := f.GetCellType(sheetName, axis)
			if err != nil {
				cellType = excelize.CellTypeUnset
			}
			values[j] = xlsxValue(raw, cellType)
		}
		table.Rows = append(table.Rows, values)
	}
	return table, nil
}

func xlsxValue(raw string, cellType excelize.CellType) attendance.Value {
	if strings.TrimSpace(raw) == "" {
		return attendance.Value{Kind: attendance.KindBlank}
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeBool, excelize.CellTypeError:
		return attendance.TextValue(raw)
	case excelize.CellTypeDate:
		if t, ok := parseISO(raw); ok {
			return attendance.TimeValue(t)
		}
		return attendance.TextValue(raw)
	default:
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return attendance.NumberValue(f)
		}
		return attendance.TextValue(raw)
	}
}

// =============================================================================
// XLS
// =============================================================================

// ReadXLS decodes the first worksheet of a legacy .xls workbook. The library
// hands back formatted text, so ISO-looking timestamps are promoted to times
// and plain numbers to numbers.
func ReadXLS(r io.ReadSeeker) (attendance.Table, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return attendance.Table{}, fmt.Errorf("%w: %v", attendance.ErrUnreadableWorkbook, err)
	}
	if wb.NumSheets() == 0 {
		return attendance.Table{}, fmt.Errorf("%w: no worksheet found", attendance.ErrUnreadableWorkbook)
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return attendance.Table{}, nil
	}

	var table attendance.Table
	for i := 0; i <= int(ws.MaxRow) && i < maxXLSRows; i++ {
		row := ws.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = row.Col(j)
		}
		if table.Header == nil {
			table.Header = cells
			continue
		}
		values := make([]attendance.Value, len(cells))
		for j, c := range cells {
			values[j] = xlsValue(c)
		}
		table.Rows = append(table.Rows, values)
	}
	return table, nil
}

func xlsValue(s string) attendance.Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return attendance.Value{Kind: attendance.KindBlank}
	}
	if t, ok := parseISO(s); ok {
		return attendance.TimeValue(t)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return attendance.NumberValue(f)
	}
	return attendance.TextValue(s)
}

var isoLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04"}

func parseISO(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
