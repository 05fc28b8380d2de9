package report

import (
	"github.com/shopspring/decimal"
	"github.com/warp/punch-engine/attendance"
)

// =============================================================================
// DAILY WORK - Per-site ledger of every worked day
// =============================================================================

// LedgerTimeLayout formats punch-in/punch-out cells ("04/03/24 09:00").
const LedgerTimeLayout = "02/01/06 15:04"

type DailyWork struct {
	month attendance.ReportMonth
	Sites []DailyWorkSite
}

type DailyWorkSite struct {
	Site string
	// Entries are ordered by employee key, then date.
	Entries       []attendance.DayRecord
	Duty          []DutyLine
	Overtime      []OvertimeLine
	GrandDuty     decimal.Decimal
	GrandOvertime decimal.Decimal
}

type DutyLine struct {
	Employee  attendance.EmployeeKey
	TotalDuty decimal.Decimal
}

// OvertimeLine only exists for employees with overtime above zero.
type OvertimeLine struct {
	Employee attendance.EmployeeKey
	Hours    decimal.Decimal
}

func (d *DailyWork) Variant() Variant              { return VariantDailyWork }
func (d *DailyWork) Month() attendance.ReportMonth { return d.month }

// DutyLabel is the ledger's duty status column.
func DutyLabel(s attendance.Status) string {
	switch s {
	case attendance.StatusFull:
		return "1"
	case attendance.StatusHalf:
		return "Half Duty"
	case attendance.StatusNoDuty:
		return "No Duty"
	default:
		return "Missing Punch"
	}
}

// PunchOut is blank for a day with a single punch.
func PunchOut(r attendance.DayRecord) string {
	if len(r.Punches) < 2 {
		return ""
	}
	return r.LastPunch().Format(LedgerTimeLayout)
}

func PunchIn(r attendance.DayRecord) string {
	if len(r.Punches) == 0 {
		return ""
	}
	return r.FirstPunch().Format(LedgerTimeLayout)
}

// BuildDailyWork computes the ledger with the profile's first shift.
func BuildDailyWork(table attendance.Table, month attendance.ReportMonth, profile Profile, overrides []Override) (*DailyWork, error) {
	idx, err := index(table, month, profile, overrides)
	if err != nil {
		return nil, err
	}
	engine := attendance.Engine{Policy: profile.Policy(overrides), Thresholds: profile.Shifts[0].Thresholds}
	return dailyWorkFrom(engine.ComputeIndex(idx)), nil
}

func dailyWorkFrom(res attendance.Result) *DailyWork {
	out := &DailyWork{month: res.Month}
	for _, sr := range res.Sites {
		site := DailyWorkSite{Site: sr.Site, GrandDuty: decimal.Zero, GrandOvertime: decimal.Zero}
		for _, er := range sr.Employees {
			site.Entries = append(site.Entries, er.Days...)

			duty := er.Totals.DutyUnits()
			site.Duty = append(site.Duty, DutyLine{Employee: er.Employee, TotalDuty: duty})
			site.GrandDuty = site.GrandDuty.Add(duty)

			if er.Totals.TotalOvertime.IsPositive() {
				site.Overtime = append(site.Overtime, OvertimeLine{Employee: er.Employee, Hours: er.Totals.TotalOvertime})
				site.GrandOvertime = site.GrandOvertime.Add(er.Totals.TotalOvertime)
			}
		}
		out.Sites = append(out.Sites, site)
	}
	return out
}
