package report

import (
	"github.com/warp/punch-engine/attendance"
)

// =============================================================================
// ATTENDANCE SUMMARY - Per-site employee totals, one block per shift length
// =============================================================================

type Summary struct {
	month  attendance.ReportMonth
	Shifts []SummaryShift
}

// SummaryShift is the full engine result under one shift's thresholds.
type SummaryShift struct {
	Label      string
	Thresholds attendance.DutyThresholds
	Result     attendance.Result
}

func (s *Summary) Variant() Variant              { return VariantAttendanceSummary }
func (s *Summary) Month() attendance.ReportMonth { return s.month }

// BuildSummary groups once and computes every shift over the same index. An
// empty window yields an empty but valid report unless the profile says otherwise.
func BuildSummary(table attendance.Table, month attendance.ReportMonth, profile Profile, overrides []Override) (*Summary, error) {
	idx, err := index(table, month, profile, overrides)
	if err != nil {
		return nil, err
	}
	policy := profile.Policy(overrides)
	out := &Summary{month: month}
	for _, shift := range profile.Shifts {
		engine := attendance.Engine{Policy: policy, Thresholds: shift.Thresholds}
		out.Shifts = append(out.Shifts, SummaryShift{
			Label:      shift.Label,
			Thresholds: shift.Thresholds,
			Result:     engine.ComputeIndex(idx),
		})
	}
	return out, nil
}
