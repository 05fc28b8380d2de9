package sheet

import (
	"github.com/xuri/excelize/v2"

	"github.com/warp/punch-engine/report"
)

var ledgerHeaders = []string{
	"DeviceName", "IDNo", "Name", "Department", "Date", "Punch In", "Punch Out", "Duration (Hrs)", "Duty Status", "OT (Hrs)",
}

func dailyWorkStyles(b *book) {
	b.style("dwTitle", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16, Color: "1F3864"}, Alignment: centered})
	b.style("dwHeader", &excelize.Style{Font: &excelize.Font{Bold: true, Color: "FFFFFF"}, Fill: solid("4472C4"), Border: thinBorder("808080"), Alignment: centered})
	b.style("dwCell", &excelize.Style{Border: thinBorder("D9D9D9")})
	b.style("dwSection", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12, Color: "1F3864"}})
	b.style("dwTotal", &excelize.Style{Font: &excelize.Font{Bold: true}, Border: thinBorder("D9D9D9"), Fill: solid("FFF2CC")})
}

// writeDailyWork renders one sheet per site: the ledger, then the duty
// summary, then the overtime summary.
func writeDailyWork(b *book, d *report.DailyWork) {
	dailyWorkStyles(b)
	for _, site := range d.Sites {
		sh := b.addSheet(site.Site)
		b.set(sh, 1, 1, "Daily Work Report - "+site.Site+" - "+d.Month().Label(), "dwTitle")
		b.merge(sh, 1, 1, len(ledgerHeaders))

		row := 3
		for i, h := range ledgerHeaders {
			b.set(sh, i+1, row, h, "dwHeader")
		}
		row++
		for _, e := range site.Entries {
			values := []any{
				e.Site, e.Employee.ID, e.Employee.Name, e.Department,
				e.Date.String(),
				report.PunchIn(e), report.PunchOut(e),
				e.Hours().StringFixed(2), report.DutyLabel(e.Status), e.OvertimeHours().StringFixed(2),
			}
			for i, v := range values {
				b.set(sh, i+1, row, v, "dwCell")
			}
			row++
		}

		row += 2
		b.set(sh, 1, row, "Duty Summary", "dwSection")
		row++
		for i, h := range []string{"IDNo", "Name", "Total Duty"} {
			b.set(sh, i+1, row, h, "dwHeader")
		}
		row++
		for _, line := range site.Duty {
			b.set(sh, 1, row, line.Employee.ID, "dwCell")
			b.set(sh, 2, row, line.Employee.Name, "dwCell")
			b.set(sh, 3, row, line.TotalDuty.StringFixed(2), "dwCell")
			row++
		}
		b.set(sh, 1, row, "Grand Total", "dwTotal")
		b.set(sh, 2, row, "", "dwTotal")
		b.set(sh, 3, row, site.GrandDuty.StringFixed(2), "dwTotal")

		row += 3
		b.set(sh, 1, row, "Overtime Summary", "dwSection")
		row++
		for i, h := range []string{"IDNo", "Name", "OT (Hrs)"} {
			b.set(sh, i+1, row, h, "dwHeader")
		}
		row++
		for _, line := range site.Overtime {
			b.set(sh, 1, row, line.Employee.ID, "dwCell")
			b.set(sh, 2, row, line.Employee.Name, "dwCell")
			b.set(sh, 3, row, line.Hours.StringFixed(2), "dwCell")
			row++
		}
		b.set(sh, 1, row, "Grand Total OT", "dwTotal")
		b.set(sh, 2, row, "", "dwTotal")
		b.set(sh, 3, row, site.GrandOvertime.StringFixed(2), "dwTotal")

		b.width(sh, 1, 1, 18)
		b.width(sh, 2, 2, 10)
		b.width(sh, 3, 3, 26)
		b.width(sh, 4, 4, 16)
		b.width(sh, 5, 7, 15)
		b.width(sh, 8, 10, 13)
	}
}
