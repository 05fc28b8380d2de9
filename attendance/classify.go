/*
classify.go - Duplicate-punch filtering and duty classification

PURPOSE:
  Given the punches of one employee on one work-day, remove clock noise
  (double taps on the reader) and decide what the day is worth.

DEDUPE:
  Greedy single pass over the sorted punches: a punch survives only if it is
  strictly more than the window after the last punch that survived. Equal
  timestamps never both survive.

CLASSIFY:
  fewer than 2 punches           -> Missing, no hours
  duration >= FullShift          -> Full, overtime above OvertimeThreshold
  duration >=/> HalfShiftMin     -> Half (bound is per variant)
  otherwise                      -> BelowHalf (Missing or No Duty), hours kept

All comparisons are done on time.Duration so 8h00m is exactly 8 hours.
*/
package attendance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DEDUPE
// =============================================================================

// Dedupe returns the sorted punches with near-duplicates removed. With a window
// of zero or less only identical timestamps are dropped, so the result is
// always strictly increasing. The input slice is not modified.
func Dedupe(punches []time.Time, window time.Duration) []time.Time {
	if len(punches) == 0 {
		return nil
	}
	sorted := make([]time.Time, len(punches))
	copy(sorted, punches)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	if window < 0 {
		window = 0
	}

	cleaned := []time.Time{sorted[0]}
	for _, t := range sorted[1:] {
		if t.Sub(cleaned[len(cleaned)-1]) > window {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}

// =============================================================================
// THRESHOLDS
// =============================================================================

// Bound selects the comparison used for the half-day lower bound.
type Bound int

const (
	// Inclusive: duration >= HalfShiftMin
	Inclusive Bound = iota
	// Exclusive: duration > HalfShiftMin
	Exclusive
)

func (b Bound) admits(d, min time.Duration) bool {
	if b == Exclusive {
		return d > min
	}
	return d >= min
}

// DutyThresholds parameterizes Classify for one report variant.
type DutyThresholds struct {
	FullShift         time.Duration
	HalfShiftMin      time.Duration
	OvertimeThreshold time.Duration
	DuplicateWindow   time.Duration
	HalfBound         Bound
	// BelowHalf is StatusMissing or StatusNoDuty.
	BelowHalf Status
}

// Hours converts fractional hours into a Duration, rounded to the millisecond.
func Hours(h float64) time.Duration {
	return time.Duration(h*float64(time.Hour/time.Millisecond)+0.5) * time.Millisecond
}

// =============================================================================
// CLASSIFY
// =============================================================================

// Classification is the verdict for one day.
type Classification struct {
	Status   Status
	Duration time.Duration
	Overtime time.Duration
}

// Classify decides the duty status of a day from its cleaned punches.
func Classify(cleaned []time.Time, th DutyThresholds) Classification {
	if len(cleaned) < 2 {
		return Classification{Status: StatusMissing}
	}

	d := cleaned[len(cleaned)-1].Sub(cleaned[0])
	switch {
	case d >= th.FullShift:
		var ot time.Duration
		if d > th.OvertimeThreshold {
			ot = d - th.OvertimeThreshold
		}
		return Classification{Status: StatusFull, Duration: d, Overtime: ot}
	case th.HalfBound.admits(d, th.HalfShiftMin):
		return Classification{Status: StatusHalf, Duration: d}
	default:
		below := th.BelowHalf
		if below != StatusNoDuty {
			below = StatusMissing
		}
		return Classification{Status: below, Duration: d}
	}
}

// =============================================================================
// DAY RECORD
// =============================================================================

// DayRecord is the classified result of one DayGroup.
type DayRecord struct {
	Site          string
	Employee      EmployeeKey
	Department    string
	Date          WorkDay
	RawPunchCount int
	Punches       []time.Time
	Duration      time.Duration
	Overtime      time.Duration
	Status        Status
}

// Record dedupes and classifies one group.
func Record(g DayGroup, th DutyThresholds) DayRecord {
	cleaned := Dedupe(g.Punches, th.DuplicateWindow)
	c := Classify(cleaned, th)
	return DayRecord{
		Site:          g.Key.Site,
		Employee:      g.Key.Employee,
		Department:    g.Department,
		Date:          g.Key.Date,
		RawPunchCount: len(g.Punches),
		Punches:       cleaned,
		Duration:      c.Duration,
		Overtime:      c.Overtime,
		Status:        c.Status,
	}
}

var millisPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

// DurationHours converts a duration to decimal hours at millisecond precision.
func DurationHours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(d.Milliseconds()).Div(millisPerHour)
}

func (r DayRecord) Hours() decimal.Decimal         { return DurationHours(r.Duration) }
func (r DayRecord) OvertimeHours() decimal.Decimal { return DurationHours(r.Overtime) }

// FirstPunch and LastPunch return the zero time when the day has no punches.
func (r DayRecord) FirstPunch() time.Time {
	if len(r.Punches) == 0 {
		return time.Time{}
	}
	return r.Punches[0]
}

func (r DayRecord) LastPunch() time.Time {
	if len(r.Punches) == 0 {
		return time.Time{}
	}
	return r.Punches[len(r.Punches)-1]
}
