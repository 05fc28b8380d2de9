/*
Package factory provides JSON to Go report profile conversion.

PURPOSE:
  Converts JSON profile definitions into report.Profile values and back. This
  lets operators change thresholds, the shift cutoff or date layouts through
  the admin API (the JSON is stored in the profile table) without a rebuild.

JSON SCHEMA:
  {
    "variant": "attendance-summary",
    "name": "Attendance Summary",
    "cutoff_hour": 4,
    "apply_overrides": false,
    "date_layouts": ["1/2/06 15:04"],
    "skip_incomplete_rows": false,
    "fail_on_no_data": false,
    "shifts": [
      {
        "label": "8-Hour Shift",
        "full_shift_hours": 8,
        "half_shift_min_hours": 5,
        "half_bound": "inclusive",
        "overtime_threshold_hours": 9,
        "duplicate_window_minutes": 30,
        "below_half_status": "missing"
      }
    ]
  }

DEFAULTS:
  - half_bound: inclusive
  - below_half_status: missing
  - date_layouts: month-first ("1/2/06 15:04" and friends)

USAGE:
  f := factory.NewProfileFactory()
  profile, err := f.ParseProfile(jsonString)
  jsonString, err := f.MarshalProfile(report.MusterRollProfile())

SEE ALSO:
  - report/types.go: Profile definition
  - report/presets.go: Bundled profiles
*/
package factory

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/warp/punch-engine/attendance"
	"github.com/warp/punch-engine/report"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ProfileJSON is the JSON representation of a report profile.
type ProfileJSON struct {
	Variant            string      `json:"variant"`
	Name               string      `json:"name"`
	CutoffHour         int         `json:"cutoff_hour"`
	ApplyOverrides     bool        `json:"apply_overrides"`
	DateLayouts        []string    `json:"date_layouts,omitempty"`
	SkipIncompleteRows bool        `json:"skip_incomplete_rows,omitempty"`
	FailOnNoData       bool        `json:"fail_on_no_data,omitempty"`
	Shifts             []ShiftJSON `json:"shifts"`
}

// ShiftJSON represents one set of duty thresholds.
type ShiftJSON struct {
	Label                  string  `json:"label"`
	FullShiftHours         float64 `json:"full_shift_hours"`
	HalfShiftMinHours      float64 `json:"half_shift_min_hours"`
	HalfBound              string  `json:"half_bound,omitempty"` // inclusive, exclusive
	OvertimeThresholdHours float64 `json:"overtime_threshold_hours"`
	DuplicateWindowMinutes int     `json:"duplicate_window_minutes"`
	BelowHalfStatus        string  `json:"below_half_status,omitempty"` // missing, no_duty
}

// =============================================================================
// PROFILE FACTORY
// =============================================================================

// ProfileFactory creates profiles from JSON.
type ProfileFactory struct{}

func NewProfileFactory() *ProfileFactory {
	return &ProfileFactory{}
}

// ParseProfile parses a JSON string into a validated profile.
func (f *ProfileFactory) ParseProfile(jsonStr string) (report.Profile, error) {
	var pj ProfileJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return report.Profile{}, fmt.Errorf("%w: invalid profile JSON: %v", attendance.ErrInvalidRequest, err)
	}
	return f.CreateProfile(pj)
}

// CreateProfile converts the JSON shape into a report.Profile.
func (f *ProfileFactory) CreateProfile(pj ProfileJSON) (report.Profile, error) {
	variant, err := report.ParseVariant(pj.Variant)
	if err != nil {
		return report.Profile{}, err
	}

	p := report.Profile{
		Variant:            variant,
		Name:               pj.Name,
		CutoffHour:         pj.CutoffHour,
		ApplyOverrides:     pj.ApplyOverrides,
		Layouts:            pj.DateLayouts,
		SkipIncompleteRows: pj.SkipIncompleteRows,
		FailOnNoData:       pj.FailOnNoData,
	}
	if len(p.Layouts) == 0 {
		p.Layouts = attendance.MonthFirstLayouts
	}
	if p.Name == "" {
		p.Name = string(variant)
	}

	for _, sj := range pj.Shifts {
		shift, err := f.createShift(sj)
		if err != nil {
			return report.Profile{}, err
		}
		p.Shifts = append(p.Shifts, shift)
	}

	if err := p.Validate(); err != nil {
		return report.Profile{}, err
	}
	return p, nil
}

func (f *ProfileFactory) createShift(sj ShiftJSON) (report.Shift, error) {
	th := attendance.DutyThresholds{
		FullShift:         attendance.Hours(sj.FullShiftHours),
		HalfShiftMin:      attendance.Hours(sj.HalfShiftMinHours),
		OvertimeThreshold: attendance.Hours(sj.OvertimeThresholdHours),
		DuplicateWindow:   time.Duration(sj.DuplicateWindowMinutes) * time.Minute,
	}

	switch sj.HalfBound {
	case "", "inclusive":
		th.HalfBound = attendance.Inclusive
	case "exclusive":
		th.HalfBound = attendance.Exclusive
	default:
		return report.Shift{}, fmt.Errorf("%w: unknown half_bound %q", attendance.ErrInvalidRequest, sj.HalfBound)
	}

	switch sj.BelowHalfStatus {
	case "", "missing":
		th.BelowHalf = attendance.StatusMissing
	case "no_duty":
		th.BelowHalf = attendance.StatusNoDuty
	default:
		return report.Shift{}, fmt.Errorf("%w: unknown below_half_status %q", attendance.ErrInvalidRequest, sj.BelowHalfStatus)
	}

	return report.Shift{Label: sj.Label, Thresholds: th}, nil
}

// =============================================================================
// REVERSE CONVERSION
// =============================================================================

// ToJSON converts a profile to its JSON shape.
func (f *ProfileFactory) ToJSON(p report.Profile) ProfileJSON {
	pj := ProfileJSON{
		Variant:            string(p.Variant),
		Name:               p.Name,
		CutoffHour:         p.CutoffHour,
		ApplyOverrides:     p.ApplyOverrides,
		DateLayouts:        p.Layouts,
		SkipIncompleteRows: p.SkipIncompleteRows,
		FailOnNoData:       p.FailOnNoData,
	}
	for _, s := range p.Shifts {
		th := s.Thresholds
		sj := ShiftJSON{
			Label:                  s.Label,
			FullShiftHours:         hours(th.FullShift),
			HalfShiftMinHours:      hours(th.HalfShiftMin),
			OvertimeThresholdHours: hours(th.OvertimeThreshold),
			DuplicateWindowMinutes: int(th.DuplicateWindow / time.Minute),
			HalfBound:              "inclusive",
			BelowHalfStatus:        "missing",
		}
		if th.HalfBound == attendance.Exclusive {
			sj.HalfBound = "exclusive"
		}
		if th.BelowHalf == attendance.StatusNoDuty {
			sj.BelowHalfStatus = "no_duty"
		}
		pj.Shifts = append(pj.Shifts, sj)
	}
	return pj
}

// MarshalProfile renders a profile as a JSON string for storage.
func (f *ProfileFactory) MarshalProfile(p report.Profile) (string, error) {
	data, err := json.Marshal(f.ToJSON(p))
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	return string(data), nil
}

func hours(d time.Duration) float64 {
	return math.Round(d.Hours()*1000) / 1000
}
