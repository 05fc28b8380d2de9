/*
aggregate.go - Day records to employee, site and grand totals

PURPOSE:
  Folds classified days into totals. Every fold is a pure function returning a
  new value; nothing is mutated in place, so totals do not depend on the order
  employees or sites are visited.

COUNTING RULES:
  - PunchCount sums cleaned punches, not raw ones
  - DayCount counts every day with at least one punch (Missing days included)
  - MissingPunchDays lists the day-of-month of Missing days for operator review
  - DutyUnits = FullDays + 0.5 * HalfDays

SEE ALSO:
  - classify.go: DayRecord
  - calendar.go: Muster-roll overlay over the same records
*/
package attendance

import (
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// DutyUnits returns full + 0.5*half.
func DutyUnits(fullDays, halfDays int) decimal.Decimal {
	return decimal.NewFromInt(int64(fullDays)).Add(decimal.NewFromInt(int64(halfDays)).Mul(half))
}

// =============================================================================
// EMPLOYEE TOTALS
// =============================================================================

type EmployeeTotals struct {
	Employee         EmployeeKey
	PunchCount       int
	DayCount         int
	FullDays         int
	HalfDays         int
	MissingDays      int
	TotalHours       decimal.Decimal
	TotalOvertime    decimal.Decimal
	MissingPunchDays []int
}

func (t EmployeeTotals) DutyUnits() decimal.Decimal { return DutyUnits(t.FullDays, t.HalfDays) }

// SummarizeEmployee folds the days of one employee. days should be sorted
// chronologically so MissingPunchDays comes out in order.
func SummarizeEmployee(emp EmployeeKey, days []DayRecord) EmployeeTotals {
	t := EmployeeTotals{Employee: emp, TotalHours: decimal.Zero, TotalOvertime: decimal.Zero, MissingPunchDays: []int{}}
	for _, d := range days {
		t = t.addDay(d)
	}
	return t
}

func (t EmployeeTotals) addDay(d DayRecord) EmployeeTotals {
	out := t
	out.MissingPunchDays = append([]int{}, t.MissingPunchDays...)
	out.PunchCount += len(d.Punches)
	out.DayCount++
	out.TotalHours = t.TotalHours.Add(d.Hours())
	switch d.Status {
	case StatusFull:
		out.FullDays++
		out.TotalOvertime = t.TotalOvertime.Add(d.OvertimeHours())
	case StatusHalf:
		out.HalfDays++
	case StatusMissing:
		out.MissingDays++
		out.MissingPunchDays = append(out.MissingPunchDays, d.Date.Day)
	}
	return out
}

// Totals projects the employee onto the site-level shape.
func (t EmployeeTotals) Totals() Totals {
	return Totals{
		Punches:     t.PunchCount,
		Days:        t.DayCount,
		FullDays:    t.FullDays,
		HalfDays:    t.HalfDays,
		MissingDays: t.MissingDays,
		Hours:       t.TotalHours,
		Overtime:    t.TotalOvertime,
		DutyUnits:   t.DutyUnits(),
	}
}

// =============================================================================
// SITE / GRAND TOTALS
// =============================================================================

type Totals struct {
	Punches     int
	Days        int
	FullDays    int
	HalfDays    int
	MissingDays int
	Hours       decimal.Decimal
	Overtime    decimal.Decimal
	DutyUnits   decimal.Decimal
}

// ZeroTotals is the identity of Add.
func ZeroTotals() Totals {
	return Totals{Hours: decimal.Zero, Overtime: decimal.Zero, DutyUnits: decimal.Zero}
}

// Add returns the sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Punches:     t.Punches + o.Punches,
		Days:        t.Days + o.Days,
		FullDays:    t.FullDays + o.FullDays,
		HalfDays:    t.HalfDays + o.HalfDays,
		MissingDays: t.MissingDays + o.MissingDays,
		Hours:       t.Hours.Add(o.Hours),
		Overtime:    t.Overtime.Add(o.Overtime),
		DutyUnits:   t.DutyUnits.Add(o.DutyUnits),
	}
}

// SumTotals folds any number of totals.
func SumTotals(all ...Totals) Totals {
	sum := ZeroTotals()
	for _, t := range all {
		sum = sum.Add(t)
	}
	return sum
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs the shared pipeline for one set of thresholds.
type Engine struct {
	Policy     ShiftPolicy
	Thresholds DutyThresholds
}

// EmployeeResult holds one employee's days and totals at one site.
type EmployeeResult struct {
	Employee EmployeeKey
	Days     []DayRecord
	Totals   EmployeeTotals
}

// SiteResult is ordered by employee key.
type SiteResult struct {
	Site      string
	Employees []EmployeeResult
	Totals    Totals
}

// Result is ordered by site name.
type Result struct {
	Month ReportMonth
	Sites []SiteResult
	Grand Totals
}

// Compute groups, classifies and aggregates punches for month.
func (e Engine) Compute(punches []Punch, month ReportMonth) Result {
	return e.ComputeIndex(Group(punches, e.Policy, month))
}

// ComputeIndex runs the pipeline over an already grouped index. Variants that
// share a shift policy but differ in thresholds reuse one index.
func (e Engine) ComputeIndex(idx *DayIndex) Result {
	res := Result{Month: idx.Month, Grand: ZeroTotals()}
	for _, site := range idx.Sites() {
		sr := SiteResult{Site: site, Totals: ZeroTotals()}
		for _, emp := range idx.Employees(site) {
			groups := idx.Days(site, emp)
			days := make([]DayRecord, 0, len(groups))
			for _, g := range groups {
				days = append(days, Record(g, e.Thresholds))
			}
			totals := SummarizeEmployee(emp, days)
			sr.Employees = append(sr.Employees, EmployeeResult{Employee: emp, Days: days, Totals: totals})
			sr.Totals = sr.Totals.Add(totals.Totals())
		}
		res.Sites = append(res.Sites, sr)
		res.Grand = res.Grand.Add(sr.Totals)
	}
	return res
}

// Empty reports whether no punch fell inside the window.
func (r Result) Empty() bool { return len(r.Sites) == 0 }
