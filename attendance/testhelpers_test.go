package attendance_test

import (
	"time"

	"github.com/warp/punch-engine/attendance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var march2024 = attendance.ReportMonth{Year: 2024, Month: time.March}

func ts(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, time.UTC)
}

func punch(site, id, name string, at time.Time) attendance.Punch {
	return attendance.Punch{Site: site, Employee: attendance.EmployeeKey{ID: id, Name: name}, At: at}
}

func defaultPolicy() attendance.ShiftPolicy {
	return attendance.ShiftPolicy{DefaultCutoffHour: attendance.DefaultCutoffHour}
}

// musterThresholds: full 8h, half >= 5h, overtime past 9h, 30 minute window.
func musterThresholds() attendance.DutyThresholds {
	return attendance.DutyThresholds{
		FullShift:         8 * time.Hour,
		HalfShiftMin:      5 * time.Hour,
		OvertimeThreshold: 9 * time.Hour,
		DuplicateWindow:   30 * time.Minute,
		HalfBound:         attendance.Inclusive,
		BelowHalf:         attendance.StatusMissing,
	}
}

// dailyWorkThresholds: full 8h, half > 4h, overtime past 9h, no window.
func dailyWorkThresholds() attendance.DutyThresholds {
	return attendance.DutyThresholds{
		FullShift:         8 * time.Hour,
		HalfShiftMin:      4 * time.Hour,
		OvertimeThreshold: 9 * time.Hour,
		HalfBound:         attendance.Exclusive,
		BelowHalf:         attendance.StatusNoDuty,
	}
}

func engine() attendance.Engine {
	return attendance.Engine{Policy: defaultPolicy(), Thresholds: musterThresholds()}
}
