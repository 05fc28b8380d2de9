/*
ingest.go - Tabular export rows to validated punches

PURPOSE:
  Converts the first sheet of a biometric export (already decoded by the sheet
  package into a Table of typed cell values) into Punch records.

COLUMNS:
  Required: DeviceName, IDNo, Name, PunchTime
  Optional: Department

ROW RULES:
  - Blank DeviceName: row skipped
  - Numeric IDNo: rendered as integer text ("88023", not "88023.0")
  - PunchTime: native time, Excel serial number, or text matching one of the
    variant's layouts (tried in order). Unparseable: punch dropped.
  - SkipIncompleteRows: rows without Name or IDNo are skipped instead of being
    read as empty text.

Only a missing required column is fatal.
*/
package attendance

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Column names in the export header.
const (
	ColumnSite       = "DeviceName"
	ColumnEmployeeID = "IDNo"
	ColumnName       = "Name"
	ColumnPunchTime  = "PunchTime"
	ColumnDepartment = "Department"
)

// RequiredColumns must all appear in the header.
var RequiredColumns = []string{ColumnSite, ColumnEmployeeID, ColumnName, ColumnPunchTime}

// Text layouts accepted for PunchTime.
var (
	// MonthFirstLayouts matches exports like "3/4/24 9:00".
	MonthFirstLayouts = []string{"1/2/06 15:04", "1/2/06 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05"}

	// DayFirstLayouts reads "04/03/24 09:00" and "4/3/24 9:00" as 4 March and
	// only falls back to month-first when the day-first reading is impossible.
	DayFirstLayouts = append([]string{"02/01/06 15:04", "02/01/06 15:04:05", "2/1/06 15:04", "2/1/06 15:04:05"}, MonthFirstLayouts...)
)

// =============================================================================
// TABLE - Decoded sheet
// =============================================================================

type ValueKind int

const (
	KindBlank ValueKind = iota
	KindText
	KindNumber
	KindTime
)

// Value is one decoded cell.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Time   time.Time
}

func TextValue(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{Kind: KindBlank}
	}
	return Value{Kind: KindText, Text: s}
}

func NumberValue(f float64) Value { return Value{Kind: KindNumber, Number: f} }
func TimeValue(t time.Time) Value { return Value{Kind: KindTime, Time: t} }
func (v Value) IsBlank() bool     { return v.Kind == KindBlank }

// String renders the value as trimmed text; integral numbers lose their fraction.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return strings.TrimSpace(v.Text)
	case KindNumber:
		if v.Number == math.Trunc(v.Number) && math.Abs(v.Number) < 1e15 {
			return strconv.FormatInt(int64(v.Number), 10)
		}
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindTime:
		return v.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Table is a header row plus data rows. Rows may be shorter than the header.
type Table struct {
	Header []string
	Rows   [][]Value
}

// =============================================================================
// INGEST
// =============================================================================

// IngestOptions carries the per-variant reading rules.
type IngestOptions struct {
	Layouts            []string
	SkipIncompleteRows bool
}

// Ingest converts a Table into punches.
func Ingest(table Table, opts IngestOptions) ([]Punch, error) {
	// An empty sheet has nothing to check columns against.
	if len(table.Header) == 0 && len(table.Rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int, len(table.Header))
	for i, h := range table.Header {
		name := strings.TrimSpace(h)
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Missing: missing}
	}

	deptCol, hasDept := columns[ColumnDepartment]
	if !hasDept {
		deptCol = -1
	}

	layouts := opts.Layouts
	if len(layouts) == 0 {
		layouts = MonthFirstLayouts
	}

	var punches []Punch
	for _, row := range table.Rows {
		site := cell(row, columns[ColumnSite])
		if site.IsBlank() {
			continue
		}

		id := cell(row, columns[ColumnEmployeeID])
		name := cell(row, columns[ColumnName])
		if opts.SkipIncompleteRows && (id.IsBlank() || name.IsBlank()) {
			continue
		}

		at, ok := parsePunchTime(cell(row, columns[ColumnPunchTime]), layouts)
		if !ok {
			continue
		}

		punches = append(punches, Punch{
			Site:       site.String(),
			Employee:   EmployeeKey{ID: id.String(), Name: name.String()},
			Department: cell(row, deptCol).String(),
			At:         at,
		})
	}
	return punches, nil
}

func cell(row []Value, idx int) Value {
	if idx < 0 || idx >= len(row) {
		return Value{Kind: KindBlank}
	}
	return row[idx]
}

func parsePunchTime(v Value, layouts []string) (time.Time, bool) {
	switch v.Kind {
	case KindTime:
		return v.Time, true
	case KindNumber:
		t, err := excelize.ExcelDateToTime(v.Number, false)
		if err != nil {
			return time.Time{}, false
		}
		// Serial fractions land a few nanoseconds off the minute.
		return t.Round(time.Second), true
	case KindText:
		s := strings.TrimSpace(v.Text)
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
