package sheet

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/punch-engine/attendance"
	"github.com/warp/punch-engine/report"
)

var march2024 = attendance.ReportMonth{Year: 2024, Month: time.March}

func punchTable(rows ...[]any) attendance.Table {
	t := attendance.Table{Header: []string{"DeviceName", "IDNo", "Name", "Department", "PunchTime"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []attendance.Value{
			attendance.TextValue(r[0].(string)), attendance.TextValue(r[1].(string)),
			attendance.TextValue(r[2].(string)), attendance.TextValue("Security"),
			attendance.TimeValue(r[3].(time.Time)),
		})
	}
	return t
}

func march(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, time.UTC)
}

func sampleTable() attendance.Table {
	return punchTable(
		[]any{"Connaught Place", "101", "Ravi Kumar", march(4, 9, 0)},
		[]any{"Connaught Place", "101", "Ravi Kumar", march(4, 18, 30)},
		[]any{"Connaught Place", "102", "Sunita Devi", march(4, 9, 0)},
		[]any{"Connaught Place", "102", "Sunita Devi", march(4, 15, 0)},
		[]any{"Saket", "201", "Mohan Lal", march(5, 9, 0)},
	)
}

func render(t *testing.T, variant report.Variant) (*excelize.File, report.Report) {
	t.Helper()
	rep, err := report.Build(sampleTable(), march2024, report.Presets()[variant], nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewWriter(DefaultBranding()).Write(&buf, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f, rep
}

func cellValue(t *testing.T, f *excelize.File, sheet, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, axis)
	require.NoError(t, err)
	return v
}

func TestWrite_MusterRoll(t *testing.T) {
	// GIVEN/WHEN: A two-site muster roll rendered and reopened
	f, _ := render(t, report.VariantMusterRoll)

	// THEN: One sheet per site, no default sheet
	assert.Equal(t, []string{"Connaught Place", "Saket"}, f.GetSheetList())

	assert.Equal(t, "Shree Ji Facility Services", cellValue(t, f, "Connaught Place", "A1"))
	assert.Equal(t, "Monthly Attendance Report - March 2024", cellValue(t, f, "Connaught Place", "A3"))
	assert.Equal(t, "MUSTER ROLL SHEET - CONNAUGHT PLACE", cellValue(t, f, "Connaught Place", "A5"))
	assert.Equal(t, "Sr. No.", cellValue(t, f, "Connaught Place", "A7"))
	assert.Equal(t, "1", cellValue(t, f, "Connaught Place", "C7"))
	assert.Equal(t, "Total Attd.", cellValue(t, f, "Connaught Place", "AH7"))

	// Ravi: Sunday 3rd is WO, Monday 4th is P
	assert.Equal(t, "Ravi Kumar", cellValue(t, f, "Connaught Place", "B8"))
	assert.Equal(t, "WO", cellValue(t, f, "Connaught Place", "E8"))
	assert.Equal(t, "P", cellValue(t, f, "Connaught Place", "F8"))
	assert.Equal(t, "A", cellValue(t, f, "Connaught Place", "G8"))
	assert.Equal(t, "1", cellValue(t, f, "Connaught Place", "AH8"))

	// Sunita worked 6 hours: half day
	assert.Equal(t, "H", cellValue(t, f, "Connaught Place", "F9"))
	assert.Equal(t, "0.5", cellValue(t, f, "Connaught Place", "AH9"))

	assert.Equal(t, "Total Site Attendance: 1.50", cellValue(t, f, "Connaught Place", "AC11"))
}

func TestWrite_MusterRoll_ClientInTitle(t *testing.T) {
	rep, err := report.Build(sampleTable(), march2024, report.MusterRollProfile(), nil)
	require.NoError(t, err)
	b := DefaultBranding()
	b.Client = "Metro Mall"

	var buf bytes.Buffer
	require.NoError(t, NewWriter(b).Write(&buf, rep))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Monthly Attendance Report for Metro Mall - March 2024", cellValue(t, f, "Saket", "A3"))
}

func TestWrite_Summary(t *testing.T) {
	f, _ := render(t, report.VariantAttendanceSummary)

	assert.Equal(t, []string{"Summary (8-Hour Shift)", "Summary (9-Hour Shift)"}, f.GetSheetList())

	sh := "Summary (8-Hour Shift)"
	assert.Equal(t, "Final Attendance Summary for March 2024 (8-Hour Shift)", cellValue(t, f, sh, "A1"))
	assert.Equal(t, "Site: Connaught Place", cellValue(t, f, sh, "A3"))
	assert.Equal(t, "Emp ID", cellValue(t, f, sh, "A4"))
	assert.Equal(t, "101", cellValue(t, f, sh, "A5"))
	assert.Equal(t, "9.50", cellValue(t, f, sh, "E5"))
	assert.Equal(t, "0.50", cellValue(t, f, sh, "H5"))
	assert.Equal(t, "-", cellValue(t, f, sh, "J5"))

	rows, err := f.GetRows(sh)
	require.NoError(t, err)
	last := rows[len(rows)-1]
	assert.Equal(t, "GRAND TOTAL", last[0])
	assert.Equal(t, "5", last[1])
}

func TestWrite_DailyWork(t *testing.T) {
	f, _ := render(t, report.VariantDailyWork)

	assert.Equal(t, []string{"Connaught Place", "Saket"}, f.GetSheetList())

	sh := "Connaught Place"
	assert.Equal(t, "Daily Work Report - Connaught Place - March 2024", cellValue(t, f, sh, "A1"))
	assert.Equal(t, "DeviceName", cellValue(t, f, sh, "A3"))
	assert.Equal(t, "2024-03-04", cellValue(t, f, sh, "E4"))
	assert.Equal(t, "04/03/24 09:00", cellValue(t, f, sh, "F4"))
	assert.Equal(t, "04/03/24 18:30", cellValue(t, f, sh, "G4"))
	assert.Equal(t, "9.50", cellValue(t, f, sh, "H4"))
	assert.Equal(t, "1", cellValue(t, f, sh, "I4"))
	assert.Equal(t, "0.50", cellValue(t, f, sh, "J4"))
	assert.Equal(t, "Half Duty", cellValue(t, f, sh, "I5"))

	assert.Equal(t, "Missing Punch", cellValue(t, f, "Saket", "I4"))
	assert.Equal(t, "", cellValue(t, f, "Saket", "G4"))
}

func TestWrite_EmptySummaryStillHasShiftSheets(t *testing.T) {
	rep, err := report.Build(attendance.Table{}, march2024, report.AttendanceSummaryProfile(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewWriter(DefaultBranding()).Write(&buf, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	// Both shift sheets exist even without sites.
	assert.Equal(t, []string{"Summary (8-Hour Shift)", "Summary (9-Hour Shift)"}, f.GetSheetList())
}

func TestFilename(t *testing.T) {
	for variant, want := range map[report.Variant]string{
		report.VariantMusterRoll:        "Muster_Roll_Report_3_2024.xlsx",
		report.VariantAttendanceSummary: "Attendance_Summary_Report_3_2024.xlsx",
		report.VariantDailyWork:         "Daily_Work_Report_3_2024.xlsx",
	} {
		rep, err := report.Build(sampleTable(), march2024, report.Presets()[variant], nil)
		require.NoError(t, err)
		assert.Equal(t, want, Filename(rep))
	}
}

func TestBook_AddSheet_SanitizesAndDeduplicates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	b := &book{f: f, styles: map[string]int{}}

	assert.Equal(t, "Site A B", b.addSheet("Site A/B"))
	assert.Equal(t, "Site A B (2)", b.addSheet("Site A:B"))
	long := b.addSheet("An Extremely Long Site Name For A Worksheet")
	assert.Len(t, long, 31)
	assert.Equal(t, "Sheet", b.addSheet("[]"))
	require.NoError(t, b.err)
}

func TestBook_AddSheet_TruncatesByCharacter(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	b := &book{f: f, styles: map[string]int{}}

	site := "करोल बाग़ सुरक्षा विभाग मुख्य द्वार"
	name := b.addSheet(site)
	again := b.addSheet(site)

	require.NoError(t, b.err)
	assert.True(t, utf8.ValidString(name))
	assert.Equal(t, 31, utf8.RuneCountInString(name))
	assert.Equal(t, string([]rune(site)[:31]), name)
	assert.True(t, utf8.ValidString(again))
	assert.Equal(t, 31, utf8.RuneCountInString(again))
	assert.True(t, strings.HasSuffix(again, " (2)"))
}

func TestWrite_SiteNamedLikeDefaultSheet(t *testing.T) {
	table := punchTable(
		[]any{"Alpha", "101", "Ravi Kumar", march(4, 9, 0)},
		[]any{"Alpha", "101", "Ravi Kumar", march(4, 18, 0)},
		[]any{"Sheet1", "201", "Mohan Lal", march(5, 9, 0)},
		[]any{"Sheet1", "201", "Mohan Lal", march(5, 18, 0)},
	)

	for _, variant := range []report.Variant{report.VariantMusterRoll, report.VariantDailyWork} {
		t.Run(string(variant), func(t *testing.T) {
			// GIVEN: A site whose name matches the workbook's default sheet
			rep, err := report.Build(table, march2024, report.Presets()[variant], nil)
			require.NoError(t, err)

			// WHEN: Rendering the workbook
			var buf bytes.Buffer
			require.NoError(t, NewWriter(DefaultBranding()).Write(&buf, rep))
			f, err := excelize.OpenReader(&buf)
			require.NoError(t, err)
			defer f.Close()

			// THEN: Both sites keep their sheet
			assert.Equal(t, []string{"Alpha", "Sheet1"}, f.GetSheetList())
			rows, err := f.GetRows("Sheet1")
			require.NoError(t, err)
			var names []string
			for _, r := range rows {
				names = append(names, r...)
			}
			assert.Contains(t, names, "Mohan Lal")
		})
	}
}
