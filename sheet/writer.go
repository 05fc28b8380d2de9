package sheet

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/warp/punch-engine/report"
)

// ContentType is the media type of every workbook this package writes.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Branding is printed above the muster roll grid.
type Branding struct {
	Company string
	Contact string
	Client  string
}

// DefaultBranding is used when the server is not configured otherwise.
func DefaultBranding() Branding {
	return Branding{
		Company: "Shree Ji Facility Services",
		Contact: "Contact: +91 9990291130 | Email: shreejifacility@gmail.com",
	}
}

// Writer renders reports as .xlsx workbooks.
type Writer struct {
	Branding Branding
}

func NewWriter(b Branding) *Writer {
	return &Writer{Branding: b}
}

// Write renders rep into w.
func (wr *Writer) Write(w io.Writer, rep report.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	b := &book{f: f, styles: map[string]int{}}
	switch r := rep.(type) {
	case *report.MusterRoll:
		wr.writeMusterRoll(b, r)
	case *report.Summary:
		writeSummary(b, r)
	case *report.DailyWork:
		writeDailyWork(b, r)
	default:
		return fmt.Errorf("sheet: unsupported report type %T", rep)
	}
	if b.err != nil {
		return fmt.Errorf("sheet: render %s: %w", rep.Variant(), b.err)
	}
	b.finish()
	if b.err != nil {
		return fmt.Errorf("sheet: render %s: %w", rep.Variant(), b.err)
	}
	return f.Write(w)
}

// Filename is the download name of rep, e.g. "Muster_Roll_Report_3_2024.xlsx".
func Filename(rep report.Report) string {
	var prefix string
	switch rep.Variant() {
	case report.VariantMusterRoll:
		prefix = "Muster_Roll_Report"
	case report.VariantAttendanceSummary:
		prefix = "Attendance_Summary_Report"
	default:
		prefix = "Daily_Work_Report"
	}
	m := rep.Month()
	return fmt.Sprintf("%s_%d_%d.xlsx", prefix, int(m.Month), m.Year)
}

// =============================================================================
// BOOK - excelize wrapper that keeps the first error
// =============================================================================

type book struct {
	f      *excelize.File
	styles map[string]int
	sheets []string
	used   map[string]bool
	err    error
}

var invalidSheetChars = regexp.MustCompile(`[\[\]:*?/\\]`)

const (
	defaultSheet = "Sheet1"
	maxSheetName = 31
)

// addSheet creates a uniquely named sheet. Names are truncated to the
// 31-character limit and stripped of characters Excel rejects. The first
// sheet takes over the workbook's default sheet.
func (b *book) addSheet(name string) string {
	if b.used == nil {
		b.used = map[string]bool{}
	}
	base := []rune(strings.TrimSpace(invalidSheetChars.ReplaceAllString(name, " ")))
	if len(base) == 0 {
		base = []rune("Sheet")
	}
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}
	name = string(base)
	for n := 2; b.used[strings.ToLower(name)]; n++ {
		suffix := []rune(fmt.Sprintf(" (%d)", n))
		trimmed := base
		if len(trimmed)+len(suffix) > maxSheetName {
			trimmed = trimmed[:maxSheetName-len(suffix)]
		}
		name = string(trimmed) + string(suffix)
	}
	b.used[strings.ToLower(name)] = true
	b.sheets = append(b.sheets, name)

	if b.err == nil {
		if len(b.sheets) == 1 {
			b.err = b.f.SetSheetName(defaultSheet, name)
		} else {
			_, b.err = b.f.NewSheet(name)
		}
	}
	return name
}

// finish names the default sheet when the report produced none and makes the
// first sheet active.
func (b *book) finish() {
	if b.err != nil {
		return
	}
	if len(b.sheets) == 0 {
		b.err = b.f.SetSheetName(defaultSheet, "Report")
		return
	}
	if idx, err := b.f.GetSheetIndex(b.sheets[0]); err == nil {
		b.f.SetActiveSheet(idx)
	}
}

func (b *book) style(name string, s *excelize.Style) {
	if b.err != nil {
		return
	}
	id, err := b.f.NewStyle(s)
	if err != nil {
		b.err = err
		return
	}
	b.styles[name] = id
}

// set writes v at (col, row), both 1-based, applying the named style if any.
func (b *book) set(sheet string, col, row int, v any, style string) {
	if b.err != nil {
		return
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		b.err = err
		return
	}
	if err := b.f.SetCellValue(sheet, axis, v); err != nil {
		b.err = err
		return
	}
	if style != "" {
		b.err = b.f.SetCellStyle(sheet, axis, axis, b.styles[style])
	}
}

// merge joins columns c1..c2 of one row.
func (b *book) merge(sheet string, row, c1, c2 int) {
	if b.err != nil || c2 <= c1 {
		return
	}
	from, _ := excelize.CoordinatesToCellName(c1, row)
	to, _ := excelize.CoordinatesToCellName(c2, row)
	b.err = b.f.MergeCell(sheet, from, to)
}

func (b *book) width(sheet string, c1, c2 int, w float64) {
	if b.err != nil {
		return
	}
	from, _ := excelize.ColumnNumberToName(c1)
	to, _ := excelize.ColumnNumberToName(c2)
	b.err = b.f.SetColWidth(sheet, from, to, w)
}

func (b *book) height(sheet string, row int, h float64) {
	if b.err != nil {
		return
	}
	b.err = b.f.SetRowHeight(sheet, row, h)
}

// =============================================================================
// SHARED STYLES
// =============================================================================

func thinBorder(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
	}
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

var centered = &excelize.Alignment{Horizontal: "center", Vertical: "center"}
