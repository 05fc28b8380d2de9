package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/warp/punch-engine/attendance"
	"github.com/warp/punch-engine/report"
)

// One sheet per site:
//
//	row 1   company
//	row 2   contact
//	row 3   report title and month
//	row 5   MUSTER ROLL SHEET - <SITE>
//	row 7   Sr. No. | NAME | 1 .. n | Total Attd.
//	row 8+  one row per employee
//	footer  site totals and the legend
const musterHeaderRow = 7

func musterStyles(b *book) {
	b.style("company", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 20, Color: "1F3864"}, Alignment: centered})
	b.style("contact", &excelize.Style{Font: &excelize.Font{Size: 10, Color: "595959"}, Alignment: centered})
	b.style("title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}, Alignment: centered})
	b.style("siteBanner", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"}, Fill: solid("1F4E78"), Alignment: centered})
	b.style("header", &excelize.Style{Font: &excelize.Font{Bold: true, Color: "FFFFFF"}, Fill: solid("305496"), Border: thinBorder("808080"), Alignment: centered})
	b.style("headerOff", &excelize.Style{Font: &excelize.Font{Bold: true}, Fill: solid("D9D9D9"), Border: thinBorder("808080"), Alignment: centered})
	b.style("cell", &excelize.Style{Border: thinBorder("BFBFBF"), Alignment: centered})
	b.style("name", &excelize.Style{Border: thinBorder("BFBFBF"), Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"}})
	b.style("total", &excelize.Style{Font: &excelize.Font{Bold: true}, Border: thinBorder("BFBFBF"), Alignment: centered, NumFmt: 2})
	b.style("footer", &excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: &excelize.Alignment{Horizontal: "right"}})
	b.style("note", &excelize.Style{Font: &excelize.Font{Italic: true, Size: 9, Color: "595959"}})

	b.style("code_P", &excelize.Style{Font: &excelize.Font{Bold: true, Color: "006100"}, Fill: solid("C6EFCE"), Border: thinBorder("BFBFBF"), Alignment: centered})
	b.style("code_H", &excelize.Style{Font: &excelize.Font{Bold: true, Color: "9C5700"}, Fill: solid("FFD8A8"), Border: thinBorder("BFBFBF"), Alignment: centered})
	b.style("code_A", &excelize.Style{Font: &excelize.Font{Bold: true, Color: "9C0006"}, Fill: solid("FFC7CE"), Border: thinBorder("BFBFBF"), Alignment: centered})
	b.style("code_M", &excelize.Style{Font: &excelize.Font{Bold: true, Color: "1F4E78"}, Fill: solid("BDD7EE"), Border: thinBorder("BFBFBF"), Alignment: centered})
	b.style("code_WO", &excelize.Style{Font: &excelize.Font{Color: "404040"}, Fill: solid("D9D9D9"), Border: thinBorder("BFBFBF"), Alignment: centered})
}

func (wr *Writer) writeMusterRoll(b *book, m *report.MusterRoll) {
	musterStyles(b)
	month := m.Month()
	days := month.Len()
	lastCol := days + 3

	for _, site := range m.Sites {
		sh := b.addSheet(site.Site)

		b.set(sh, 1, 1, wr.Branding.Company, "company")
		b.merge(sh, 1, 1, lastCol)
		b.height(sh, 1, 30)
		b.set(sh, 1, 2, wr.Branding.Contact, "contact")
		b.merge(sh, 2, 1, lastCol)

		title := "Monthly Attendance Report - " + month.Label()
		if wr.Branding.Client != "" {
			title = fmt.Sprintf("Monthly Attendance Report for %s - %s", wr.Branding.Client, month.Label())
		}
		b.set(sh, 1, 3, title, "title")
		b.merge(sh, 3, 1, lastCol)

		b.set(sh, 1, 5, "MUSTER ROLL SHEET - "+strings.ToUpper(site.Site), "siteBanner")
		b.merge(sh, 5, 1, lastCol)

		b.set(sh, 1, musterHeaderRow, "Sr. No.", "header")
		b.set(sh, 2, musterHeaderRow, "NAME", "header")
		for d := 1; d <= days; d++ {
			style := "header"
			if m.WeeklyOff[d] {
				style = "headerOff"
			}
			b.set(sh, d+2, musterHeaderRow, d, style)
		}
		b.set(sh, lastCol, musterHeaderRow, "Total Attd.", "header")

		row := musterHeaderRow + 1
		for i, r := range site.Rows {
			b.set(sh, 1, row, i+1, "cell")
			b.set(sh, 2, row, r.Employee.Name, "name")
			for d, code := range r.Codes() {
				b.set(sh, d+3, row, code, "code_"+code)
			}
			b.set(sh, lastCol, row, r.TotalAttendance.InexactFloat64(), "total")
			row++
		}

		row++
		b.set(sh, lastCol-5, row, "Total Site Attendance: "+site.TotalAttendance.StringFixed(2), "footer")
		b.merge(sh, row, lastCol-5, lastCol)
		row++
		b.set(sh, lastCol-5, row, fmt.Sprintf("Total Half Days: %d | Total Missing: %d", site.TotalHalfDays, site.TotalMissing), "footer")
		b.merge(sh, row, lastCol-5, lastCol)
		row += 2
		b.set(sh, 1, row, legend(), "note")
		b.merge(sh, row, 1, lastCol)

		b.width(sh, 1, 1, 7)
		b.width(sh, 2, 2, 28)
		b.width(sh, 3, days+2, 4.5)
		b.width(sh, lastCol, lastCol, 11)
	}
}

func legend() string {
	parts := make([]string, 0, 5)
	for _, s := range []attendance.Status{attendance.StatusFull, attendance.StatusHalf, attendance.StatusMissing, attendance.StatusAbsent, attendance.StatusWeeklyOff} {
		parts = append(parts, s.Code()+" = "+legendText[s])
	}
	return "Note: " + strings.Join(parts, ", ")
}

var legendText = map[attendance.Status]string{
	attendance.StatusFull:      "Present",
	attendance.StatusHalf:      "Half Day",
	attendance.StatusMissing:   "Missing Punch",
	attendance.StatusAbsent:    "Absent",
	attendance.StatusWeeklyOff: "Weekly Off",
}
