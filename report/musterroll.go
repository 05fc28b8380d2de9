package report

import (
	"github.com/shopspring/decimal"
	"github.com/warp/punch-engine/attendance"
)

// =============================================================================
// MUSTER ROLL - One grid per site, one column per calendar day
// =============================================================================

type MusterRoll struct {
	month attendance.ReportMonth
	// WeeklyOff marks the day-of-month columns shaded as weekly off.
	WeeklyOff map[int]bool
	Sites     []MusterSite
}

type MusterSite struct {
	Site            string
	Rows            []attendance.MusterRow
	TotalAttendance decimal.Decimal
	TotalHalfDays   int
	TotalMissing    int
}

func (m *MusterRoll) Variant() Variant              { return VariantMusterRoll }
func (m *MusterRoll) Month() attendance.ReportMonth { return m.month }

// BuildMusterRoll computes the grid with the profile's first shift.
func BuildMusterRoll(table attendance.Table, month attendance.ReportMonth, profile Profile, overrides []Override) (*MusterRoll, error) {
	idx, err := index(table, month, profile, overrides)
	if err != nil {
		return nil, err
	}
	engine := attendance.Engine{Policy: profile.Policy(overrides), Thresholds: profile.Shifts[0].Thresholds}
	return musterRollFrom(engine.ComputeIndex(idx), attendance.SundayCalendar{}), nil
}

func musterRollFrom(res attendance.Result, cal attendance.WeeklyOffCalendar) *MusterRoll {
	out := &MusterRoll{month: res.Month, WeeklyOff: attendance.WeeklyOffDays(res.Month, cal)}
	for _, sr := range res.Sites {
		site := MusterSite{Site: sr.Site, TotalAttendance: decimal.Zero}
		for _, er := range sr.Employees {
			row := attendance.Overlay(res.Month, er.Employee, er.Days, cal)
			site.Rows = append(site.Rows, row)
			site.TotalAttendance = site.TotalAttendance.Add(row.TotalAttendance)
			site.TotalHalfDays += row.Count(attendance.StatusHalf)
			site.TotalMissing += row.Count(attendance.StatusMissing)
		}
		out.Sites = append(out.Sites, site)
	}
	return out
}
