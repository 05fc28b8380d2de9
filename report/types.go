/*
Package report defines the three report variants built on the attendance engine.

PURPOSE:
  The muster roll, attendance summary and daily work ledger share one
  computation and differ only in thresholds, shift policy and output shape.
  This package holds those differences as data (Profile) and turns an
  engine Result into the variant's report structure.

KEY CONCEPTS IN THIS FILE (types.go):
  - Variant: Which report is being produced
  - Profile: Thresholds, cutoff and ingestion rules of a variant
  - Override: A (site, employee) exception to the default shift cutoff

SEE ALSO:
  - presets.go: Bundled profiles
  - musterroll.go, summary.go, dailywork.go: Builders
  - factory/profile.go: JSON form of a Profile
*/
package report

import (
	"fmt"

	"github.com/warp/punch-engine/attendance"
)

// =============================================================================
// VARIANT
// =============================================================================

type Variant string

const (
	VariantMusterRoll        Variant = "muster-roll"
	VariantAttendanceSummary Variant = "attendance-summary"
	VariantDailyWork         Variant = "daily-work"
)

// Variants lists every supported variant in display order.
var Variants = []Variant{VariantMusterRoll, VariantAttendanceSummary, VariantDailyWork}

func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown report variant %q", attendance.ErrInvalidRequest, s)
}

// =============================================================================
// PROFILE
// =============================================================================

// Shift is one set of thresholds a report is computed with. The summary report
// runs two shifts (8 and 9 hours) over the same punches.
type Shift struct {
	Label      string
	Thresholds attendance.DutyThresholds
}

// Override moves the shift cutoff for one employee at one site.
type Override struct {
	ID         string
	Site       string
	EmployeeID string
	CutoffHour int
}

// Profile carries everything that differs between variants.
type Profile struct {
	Variant    Variant
	Name       string
	CutoffHour int
	// ApplyOverrides controls whether site/employee overrides are consulted.
	// The summary deliberately keeps the default cutoff for everyone.
	ApplyOverrides     bool
	Shifts             []Shift
	Layouts            []string
	SkipIncompleteRows bool
	// FailOnNoData turns an empty window into ErrNoData instead of an empty report.
	FailOnNoData bool
}

// Policy builds the shift policy, applying overrides only when the profile asks.
func (p Profile) Policy(overrides []Override) attendance.ShiftPolicy {
	policy := attendance.ShiftPolicy{DefaultCutoffHour: p.CutoffHour, Overrides: map[attendance.OverrideKey]int{}}
	if !p.ApplyOverrides {
		return policy
	}
	for _, o := range overrides {
		policy.Overrides[attendance.NewOverrideKey(o.Site, o.EmployeeID)] = o.CutoffHour
	}
	return policy
}

func (p Profile) IngestOptions() attendance.IngestOptions {
	return attendance.IngestOptions{Layouts: p.Layouts, SkipIncompleteRows: p.SkipIncompleteRows}
}

// Validate rejects profiles the engine cannot run.
func (p Profile) Validate() error {
	if _, err := ParseVariant(string(p.Variant)); err != nil {
		return err
	}
	if p.CutoffHour < 0 || p.CutoffHour > 23 {
		return fmt.Errorf("%w: cutoff hour %d out of range 0-23", attendance.ErrInvalidRequest, p.CutoffHour)
	}
	if len(p.Shifts) == 0 {
		return fmt.Errorf("%w: profile %s has no shifts", attendance.ErrInvalidRequest, p.Variant)
	}
	for _, s := range p.Shifts {
		th := s.Thresholds
		if th.FullShift <= 0 || th.HalfShiftMin < 0 || th.OvertimeThreshold < 0 || th.DuplicateWindow < 0 {
			return fmt.Errorf("%w: shift %q has a negative or zero threshold", attendance.ErrInvalidRequest, s.Label)
		}
		if th.HalfShiftMin > th.FullShift {
			return fmt.Errorf("%w: shift %q half-day minimum exceeds full shift", attendance.ErrInvalidRequest, s.Label)
		}
	}
	return nil
}

// ValidateOverride checks a single override row.
func ValidateOverride(o Override) error {
	if o.Site == "" || o.EmployeeID == "" {
		return fmt.Errorf("%w: override needs site and employee_id", attendance.ErrInvalidRequest)
	}
	if o.CutoffHour < 0 || o.CutoffHour > 23 {
		return fmt.Errorf("%w: cutoff hour %d out of range 0-23", attendance.ErrInvalidRequest, o.CutoffHour)
	}
	return nil
}

// =============================================================================
// REPORT
// =============================================================================

// Report is implemented by *MusterRoll, *Summary and *DailyWork.
type Report interface {
	Variant() Variant
	Month() attendance.ReportMonth
}

// Build ingests table and produces the report of the profile's variant.
func Build(table attendance.Table, month attendance.ReportMonth, profile Profile, overrides []Override) (Report, error) {
	switch profile.Variant {
	case VariantMusterRoll:
		return BuildMusterRoll(table, month, profile, overrides)
	case VariantAttendanceSummary:
		return BuildSummary(table, month, profile, overrides)
	case VariantDailyWork:
		return BuildDailyWork(table, month, profile, overrides)
	default:
		return nil, fmt.Errorf("%w: unknown report variant %q", attendance.ErrInvalidRequest, profile.Variant)
	}
}

// index runs ingestion and grouping shared by every builder.
func index(table attendance.Table, month attendance.ReportMonth, profile Profile, overrides []Override) (*attendance.DayIndex, error) {
	punches, err := attendance.Ingest(table, profile.IngestOptions())
	if err != nil {
		return nil, err
	}
	idx := attendance.Group(punches, profile.Policy(overrides), month)
	if idx.Len() == 0 && profile.FailOnNoData {
		return nil, fmt.Errorf("%w: %s", attendance.ErrNoData, month.Label())
	}
	return idx, nil
}
