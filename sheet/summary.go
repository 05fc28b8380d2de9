package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/warp/punch-engine/attendance"
	"github.com/warp/punch-engine/report"
)

var summaryHeaders = []string{
	"Emp ID", "Name", "Punches", "Days", "Hours", "Full Days", "Half Days", "OT Hours", "Duty Units", "Missing Punch Days",
}

var siteSummaryHeaders = []string{
	"Site", "Punches", "Days", "Hours", "Full Days", "Half Days", "OT Hours", "Duty Units", "Missing Days",
}

func summaryStyles(b *book) {
	b.style("sumTitle", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 18, Color: "1F3864"}, Alignment: centered})
	b.style("sumSite", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "006666"}})
	b.style("sumHeader", &excelize.Style{Font: &excelize.Font{Bold: true, Color: "FFFFFF"}, Fill: solid("006666"), Border: thinBorder("808080"), Alignment: centered})
	b.style("sumRow", &excelize.Style{Border: thinBorder("D9D9D9")})
	b.style("sumAlt", &excelize.Style{Border: thinBorder("D9D9D9"), Fill: solid("F2F2F2")})
	b.style("sumTotal", &excelize.Style{Font: &excelize.Font{Bold: true}, Border: thinBorder("D9D9D9"), Fill: solid("FFFFCC")})
}

// writeSummary renders one sheet per shift.
func writeSummary(b *book, s *report.Summary) {
	summaryStyles(b)
	for _, shift := range s.Shifts {
		sh := b.addSheet("Summary (" + shift.Label + ")")
		b.set(sh, 1, 1, fmt.Sprintf("Final Attendance Summary for %s (%s)", s.Month().Label(), shift.Label), "sumTitle")
		b.merge(sh, 1, 1, len(summaryHeaders))
		b.height(sh, 1, 28)

		row := 3
		for _, site := range shift.Result.Sites {
			b.set(sh, 1, row, "Site: "+site.Site, "sumSite")
			row++
			for i, h := range summaryHeaders {
				b.set(sh, i+1, row, h, "sumHeader")
			}
			row++
			for i, emp := range site.Employees {
				style := "sumRow"
				if i%2 == 1 {
					style = "sumAlt"
				}
				employeeRow(b, sh, row, emp.Totals, style)
				row++
			}
			row++
		}

		b.set(sh, 1, row, "Site-wise Summary", "sumSite")
		row++
		for i, h := range siteSummaryHeaders {
			b.set(sh, i+1, row, h, "sumHeader")
		}
		row++
		for i, site := range shift.Result.Sites {
			style := "sumRow"
			if i%2 == 1 {
				style = "sumAlt"
			}
			totalsRow(b, sh, row, site.Site, site.Totals, style)
			row++
		}
		totalsRow(b, sh, row, "GRAND TOTAL", shift.Result.Grand, "sumTotal")

		b.width(sh, 1, 1, 14)
		b.width(sh, 2, 2, 26)
		b.width(sh, 3, 9, 12)
		b.width(sh, 10, 10, 30)
	}
}

func employeeRow(b *book, sh string, row int, t attendance.EmployeeTotals, style string) {
	missing := "-"
	if len(t.MissingPunchDays) > 0 {
		days := make([]string, len(t.MissingPunchDays))
		for i, d := range t.MissingPunchDays {
			days[i] = fmt.Sprint(d)
		}
		missing = strings.Join(days, ", ")
	}
	values := []any{
		t.Employee.ID, t.Employee.Name, t.PunchCount, t.DayCount,
		t.TotalHours.StringFixed(2), t.FullDays, t.HalfDays,
		t.TotalOvertime.StringFixed(2), t.DutyUnits().StringFixed(2), missing,
	}
	for i, v := range values {
		b.set(sh, i+1, row, v, style)
	}
}

func totalsRow(b *book, sh string, row int, label string, t attendance.Totals, style string) {
	values := []any{
		label, t.Punches, t.Days, t.Hours.StringFixed(2), t.FullDays, t.HalfDays,
		t.Overtime.StringFixed(2), t.DutyUnits.StringFixed(2), t.MissingDays,
	}
	for i, v := range values {
		b.set(sh, i+1, row, v, style)
	}
}
