package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WEEKLY-OFF CALENDAR
// =============================================================================

// WeeklyOffCalendar decides which unpunched days are weekly offs rather than
// absences.
type WeeklyOffCalendar interface {
	IsWeeklyOff(day WorkDay) bool
}

// SundayCalendar treats every Sunday as the weekly off.
type SundayCalendar struct{}

func (SundayCalendar) IsWeeklyOff(day WorkDay) bool { return day.Weekday() == time.Sunday }

// WeeklyOffDays returns the day-of-month numbers the calendar marks off.
func WeeklyOffDays(month ReportMonth, cal WeeklyOffCalendar) map[int]bool {
	off := make(map[int]bool)
	for _, d := range month.Days() {
		if cal.IsWeeklyOff(d) {
			off[d.Day] = true
		}
	}
	return off
}

// =============================================================================
// OVERLAY - Muster-roll grid row
// =============================================================================

// MusterRow is one employee's fixed-length status sequence for the month.
type MusterRow struct {
	Employee        EmployeeKey
	Statuses        []Status
	TotalAttendance decimal.Decimal
}

// Codes renders the statuses as grid cell codes.
func (r MusterRow) Codes() []string {
	codes := make([]string, len(r.Statuses))
	for i, s := range r.Statuses {
		codes[i] = s.Code()
	}
	return codes
}

// Count returns how many days carry status s.
func (r MusterRow) Count(s Status) int {
	n := 0
	for _, st := range r.Statuses {
		if st == s {
			n++
		}
	}
	return n
}

// Overlay fills the month: a recorded day keeps its status, an unpunched
// weekly-off day becomes WeeklyOff, anything else is Absent.
func Overlay(month ReportMonth, emp EmployeeKey, days []DayRecord, cal WeeklyOffCalendar) MusterRow {
	byDay := make(map[int]Status, len(days))
	for _, d := range days {
		if month.Contains(d.Date) {
			byDay[d.Date.Day] = d.Status
		}
	}

	row := MusterRow{Employee: emp, Statuses: make([]Status, 0, month.Len())}
	for _, day := range month.Days() {
		st, ok := byDay[day.Day]
		switch {
		case ok && st == StatusNoDuty:
			st = StatusMissing
		case ok:
		case cal.IsWeeklyOff(day):
			st = StatusWeeklyOff
		default:
			st = StatusAbsent
		}
		row.Statuses = append(row.Statuses, st)
	}
	row.TotalAttendance = DutyUnits(row.Count(StatusFull), row.Count(StatusHalf))
	return row
}
