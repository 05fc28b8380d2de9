/*
Package attendance provides the punch-to-duty computation engine.

PURPOSE:
  Turns raw time-clock punches into per-employee, per-day duty classifications
  and aggregated totals for a single report month. Every report variant (muster
  roll, attendance summary, daily work) runs the same pipeline with different
  thresholds; the variants themselves live in the report package.

PIPELINE:
  Ingest -> ShiftPolicy.Resolve -> Group (DayIndex) -> Dedupe -> Classify
         -> SummarizeEmployee / SumTotals -> Overlay (muster roll only)

KEY CONCEPTS IN THIS FILE (types.go):
  - Punch: One immutable clock event
  - EmployeeKey: Composite (ID, Name) identity; exports have no stable foreign key
  - WorkDay: The logical date a punch is attributed to after shift rollover
  - ReportMonth: The (year, month) window a report is computed for
  - Status: Duty classification of a day

DESIGN PRINCIPLES:
  1. Request-scoped: nothing here holds state between reports
  2. Precision: hour totals use decimal.Decimal so sums are order-independent
  3. Explicit ordering: sites, employees and days are sorted, never map-ordered

SEE ALSO:
  - ingest.go: Table -> []Punch
  - shift.go: Shift-day resolution and grouping
  - classify.go: Dedupe + Classify
  - aggregate.go: Engine and totals
  - calendar.go: Weekly-off overlay
*/
package attendance

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// EMPLOYEE KEY
// =============================================================================

// EmployeeKey identifies an employee within an export. Two rows with the same
// ID and different names are different employees.
type EmployeeKey struct {
	ID   string
	Name string
}

func (k EmployeeKey) String() string { return k.ID + "::" + k.Name }

// Less orders keys by their canonical "ID::Name" form.
func (k EmployeeKey) Less(other EmployeeKey) bool { return k.String() < other.String() }

// =============================================================================
// PUNCH
// =============================================================================

// Punch is a single timestamped clock event.
type Punch struct {
	Site       string
	Employee   EmployeeKey
	Department string
	At         time.Time
}

// =============================================================================
// WORK DAY - Logical date after shift rollover
// =============================================================================

type WorkDay struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) WorkDay {
	y, m, d := t.Date()
	return WorkDay{Year: y, Month: m, Day: d}
}

func (d WorkDay) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d WorkDay) AddDays(n int) WorkDay     { return DayOf(d.Time().AddDate(0, 0, n)) }
func (d WorkDay) Weekday() time.Weekday     { return d.Time().Weekday() }
func (d WorkDay) Before(other WorkDay) bool { return d.Time().Before(other.Time()) }
func (d WorkDay) String() string            { return d.Time().Format("2006-01-02") }

// =============================================================================
// REPORT MONTH
// =============================================================================

// ReportMonth is the window a report covers.
type ReportMonth struct {
	Year  int
	Month time.Month
}

// NewReportMonth validates a 1-12 month number.
func NewReportMonth(year, month int) (ReportMonth, error) {
	if month < 1 || month > 12 {
		return ReportMonth{}, fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidRequest, month)
	}
	if year < 1 {
		return ReportMonth{}, fmt.Errorf("%w: year %d", ErrInvalidRequest, year)
	}
	return ReportMonth{Year: year, Month: time.Month(month)}, nil
}

func (m ReportMonth) Contains(d WorkDay) bool { return d.Year == m.Year && d.Month == m.Month }

// Len returns the number of days in the month.
func (m ReportMonth) Len() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m ReportMonth) Day(n int) WorkDay { return WorkDay{Year: m.Year, Month: m.Month, Day: n} }

// Days returns every day of the month in order.
func (m ReportMonth) Days() []WorkDay {
	days := make([]WorkDay, 0, m.Len())
	for d := 1; d <= m.Len(); d++ {
		days = append(days, m.Day(d))
	}
	return days
}

// Label renders "March 2024".
func (m ReportMonth) Label() string { return fmt.Sprintf("%s %d", m.Month, m.Year) }

// UpperLabel renders "MARCH 2024".
func (m ReportMonth) UpperLabel() string { return strings.ToUpper(m.Label()) }

// =============================================================================
// STATUS
// =============================================================================

type Status int

const (
	StatusFull Status = iota
	StatusHalf
	StatusMissing
	StatusNoDuty
	StatusAbsent
	StatusWeeklyOff
)

// Code is the muster-roll cell code.
func (s Status) Code() string {
	switch s {
	case StatusFull:
		return "P"
	case StatusHalf:
		return "H"
	case StatusMissing, StatusNoDuty:
		return "M"
	case StatusAbsent:
		return "A"
	case StatusWeeklyOff:
		return "WO"
	default:
		return "?"
	}
}

func (s Status) String() string {
	switch s {
	case StatusFull:
		return "full"
	case StatusHalf:
		return "half"
	case StatusMissing:
		return "missing"
	case StatusNoDuty:
		return "no_duty"
	case StatusAbsent:
		return "absent"
	case StatusWeeklyOff:
		return "weekly_off"
	default:
		return "unknown"
	}
}

// ParseStatus is the inverse of String.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusFull, StatusHalf, StatusMissing, StatusNoDuty, StatusAbsent, StatusWeeklyOff} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Credited reports whether the status earns duty units.
func (s Status) Credited() bool { return s == StatusFull || s == StatusHalf }
