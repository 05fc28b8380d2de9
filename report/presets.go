/*
presets.go - Bundled report profiles

PURPOSE:
  The profiles every installation starts with. They are written to the
  profile store on first start and can then be edited through the admin API
  without a rebuild.

AVAILABLE PROFILES:
  MusterRollProfile:        8h full, >= 5h half, 30m duplicate window,
                            cutoff 4 with site/employee overrides
  AttendanceSummaryProfile: 8h and 9h shifts, >= 5h half, overtime past 9h,
                            cutoff 4 for everyone
  DailyWorkProfile:         8h full, > 4h half, overtime past 9h, no duplicate
                            window, below-half days labelled No Duty

SEE ALSO:
  - types.go: Profile
  - store/sqlite: Persisted copies
*/
package report

import (
	"time"

	"github.com/warp/punch-engine/attendance"
)

// KarolBaghNightShiftCutoff is the cutoff of the two Karol Bagh night-shift
// employees shipped as default overrides.
const KarolBaghNightShiftCutoff = 16

// DefaultOverrides returns the overrides seeded into an empty store.
func DefaultOverrides() []Override {
	return []Override{
		{Site: "Karol Bagh", EmployeeID: "88023", CutoffHour: KarolBaghNightShiftCutoff},
		{Site: "Karol Bagh", EmployeeID: "87140", CutoffHour: KarolBaghNightShiftCutoff},
	}
}

func summaryThresholds(full time.Duration) attendance.DutyThresholds {
	return attendance.DutyThresholds{
		FullShift:         full,
		HalfShiftMin:      5 * time.Hour,
		OvertimeThreshold: 9 * time.Hour,
		DuplicateWindow:   30 * time.Minute,
		HalfBound:         attendance.Inclusive,
		BelowHalf:         attendance.StatusMissing,
	}
}

// MusterRollProfile returns the muster-roll grid profile.
func MusterRollProfile() Profile {
	return Profile{
		Variant:        VariantMusterRoll,
		Name:           "Muster Roll",
		CutoffHour:     attendance.DefaultCutoffHour,
		ApplyOverrides: true,
		Shifts:         []Shift{{Label: "Muster Roll", Thresholds: summaryThresholds(8 * time.Hour)}},
		Layouts:        attendance.MonthFirstLayouts,
		FailOnNoData:   true,
	}
}

// AttendanceSummaryProfile returns the two-shift summary profile.
func AttendanceSummaryProfile() Profile {
	return Profile{
		Variant:    VariantAttendanceSummary,
		Name:       "Attendance Summary",
		CutoffHour: attendance.DefaultCutoffHour,
		Shifts: []Shift{
			{Label: "8-Hour Shift", Thresholds: summaryThresholds(8 * time.Hour)},
			{Label: "9-Hour Shift", Thresholds: summaryThresholds(9 * time.Hour)},
		},
		Layouts: attendance.MonthFirstLayouts,
	}
}

// DailyWorkProfile returns the daily work ledger profile.
func DailyWorkProfile() Profile {
	return Profile{
		Variant:    VariantDailyWork,
		Name:       "Daily Work",
		CutoffHour: attendance.DefaultCutoffHour,
		Shifts: []Shift{{Label: "Daily Work", Thresholds: attendance.DutyThresholds{
			FullShift:         8 * time.Hour,
			HalfShiftMin:      4 * time.Hour,
			OvertimeThreshold: 9 * time.Hour,
			HalfBound:         attendance.Exclusive,
			BelowHalf:         attendance.StatusNoDuty,
		}}},
		Layouts:            attendance.DayFirstLayouts,
		SkipIncompleteRows: true,
		FailOnNoData:       true,
	}
}

// Presets returns the bundled profile of every variant.
func Presets() map[Variant]Profile {
	return map[Variant]Profile{
		VariantMusterRoll:        MusterRollProfile(),
		VariantAttendanceSummary: AttendanceSummaryProfile(),
		VariantDailyWork:         DailyWorkProfile(),
	}
}
