/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Report bodies keep the
  field names operators' spreadsheets and dashboards already consume
  (camelCase, hours as strings with exactly two decimals); admin bodies use
  the snake_case of the profile JSON.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Reports:
    MusterRollDTO, SummaryDTO, DailyWorkDTO

  Configuration:
    ProfileDTO (wraps factory.ProfileJSON), OverrideDTO, CreateOverrideRequest

  Samples:
    SampleDTO

SEE ALSO:
  - handlers.go: Uses these types
  - factory/profile.go: ProfileJSON type
*/
package api

import (
	"fmt"

	"github.com/warp/punch-engine/attendance"
	"github.com/warp/punch-engine/factory"
	"github.com/warp/punch-engine/report"
)

// =============================================================================
// MUSTER ROLL
// =============================================================================

type MusterRollDTO struct {
	ReportMonth string                   `json:"reportMonth"`
	Sites       map[string]MusterSiteDTO `json:"sites"`
}

type MusterSiteDTO struct {
	Employees []MusterEmployeeDTO `json:"employees"`
	Summary   MusterSummaryDTO    `json:"summary"`
}

type MusterEmployeeDTO struct {
	EmpID           string   `json:"empId"`
	Name            string   `json:"name"`
	TotalAttendance float64  `json:"totalAttendance"`
	DailyStatus     []string `json:"dailyStatus"`
}

type MusterSummaryDTO struct {
	TotalSiteAttendance float64 `json:"totalSiteAttendance"`
	TotalHalfDays       int     `json:"totalHalfDays"`
	TotalMissingPunches int     `json:"totalMissingPunches"`
}

func toMusterRollDTO(m *report.MusterRoll) MusterRollDTO {
	dto := MusterRollDTO{ReportMonth: m.Month().UpperLabel(), Sites: map[string]MusterSiteDTO{}}
	for _, site := range m.Sites {
		s := MusterSiteDTO{
			Employees: make([]MusterEmployeeDTO, 0, len(site.Rows)),
			Summary: MusterSummaryDTO{
				TotalSiteAttendance: site.TotalAttendance.InexactFloat64(),
				TotalHalfDays:       site.TotalHalfDays,
				TotalMissingPunches: site.TotalMissing,
			},
		}
		for _, row := range site.Rows {
			s.Employees = append(s.Employees, MusterEmployeeDTO{
				EmpID:           row.Employee.ID,
				Name:            row.Employee.Name,
				TotalAttendance: row.TotalAttendance.InexactFloat64(),
				DailyStatus:     row.Codes(),
			})
		}
		dto.Sites[site.Site] = s
	}
	return dto
}

// =============================================================================
// ATTENDANCE SUMMARY
// =============================================================================

type SummaryDTO struct {
	ReportMonth       string                     `json:"reportMonth"`
	ShiftCalculations map[string]ShiftSummaryDTO `json:"shiftCalculations"`
}

type ShiftSummaryDTO struct {
	Sites       map[string][]SummaryEmployeeDTO `json:"sites"`
	Summaries   map[string]TotalsDTO            `json:"summaries"`
	GrandTotals TotalsDTO                       `json:"grandTotals"`
}

type SummaryEmployeeDTO struct {
	EmpID            string `json:"empId"`
	Name             string `json:"name"`
	Punches          int    `json:"punches"`
	Days             int    `json:"days"`
	Hours            string `json:"hours"`
	FullDays         int    `json:"fullDays"`
	HalfDays         int    `json:"halfDays"`
	OvertimeHours    string `json:"overtimeHours"`
	DutyUnits        string `json:"dutyUnits"`
	MissingPunchDays []string `json:"missingPunchDays"`
}

type TotalsDTO struct {
	TotalPunches       int    `json:"totalPunches"`
	TotalDays          int    `json:"totalDays"`
	TotalHours         string `json:"totalHours"`
	TotalFullDays      int    `json:"totalFullDays"`
	TotalHalfDays      int    `json:"totalHalfDays"`
	TotalOvertimeHours string `json:"totalOvertimeHours"`
	TotalDutyUnits     string `json:"totalDutyUnits"`
	TotalMissingDays   int    `json:"totalMissingDays"`
}

func toTotalsDTO(t attendance.Totals) TotalsDTO {
	return TotalsDTO{
		TotalPunches:       t.Punches,
		TotalDays:          t.Days,
		TotalHours:         t.Hours.StringFixed(2),
		TotalFullDays:      t.FullDays,
		TotalHalfDays:      t.HalfDays,
		TotalOvertimeHours: t.Overtime.StringFixed(2),
		TotalDutyUnits:     t.DutyUnits.StringFixed(2),
		TotalMissingDays:   t.MissingDays,
	}
}

// dayLabels renders days of the month as two-digit labels ("04").
func dayLabels(days []int) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = fmt.Sprintf("%02d", d)
	}
	return out
}

func toSummaryDTO(s *report.Summary) SummaryDTO {
	dto := SummaryDTO{ReportMonth: s.Month().Label(), ShiftCalculations: map[string]ShiftSummaryDTO{}}
	for _, shift := range s.Shifts {
		sd := ShiftSummaryDTO{
			Sites:       map[string][]SummaryEmployeeDTO{},
			Summaries:   map[string]TotalsDTO{},
			GrandTotals: toTotalsDTO(shift.Result.Grand),
		}
		for _, site := range shift.Result.Sites {
			rows := make([]SummaryEmployeeDTO, 0, len(site.Employees))
			for _, emp := range site.Employees {
				t := emp.Totals
				rows = append(rows, SummaryEmployeeDTO{
					EmpID:            t.Employee.ID,
					Name:             t.Employee.Name,
					Punches:          t.PunchCount,
					Days:             t.DayCount,
					Hours:            t.TotalHours.StringFixed(2),
					FullDays:         t.FullDays,
					HalfDays:         t.HalfDays,
					OvertimeHours:    t.TotalOvertime.StringFixed(2),
					DutyUnits:        t.DutyUnits().StringFixed(2),
					MissingPunchDays: dayLabels(t.MissingPunchDays),
				})
			}
			sd.Sites[site.Site] = rows
			sd.Summaries[site.Site] = toTotalsDTO(site.Totals)
		}
		dto.ShiftCalculations[shift.Label] = sd
	}
	return dto
}

// =============================================================================
// DAILY WORK
// =============================================================================

type DailyWorkDTO struct {
	ReportMonth string                      `json:"reportMonth"`
	Sites       map[string]DailyWorkSiteDTO `json:"sites"`
}

type DailyWorkSiteDTO struct {
	DailyEntries    []DailyEntryDTO   `json:"dailyEntries"`
	DutySummary     []DutyLineDTO     `json:"dutySummary"`
	OvertimeSummary []OvertimeLineDTO `json:"overtimeSummary"`
	GrandTotals     GrandTotalsDTO    `json:"grandTotals"`
}

type DailyEntryDTO struct {
	Site       string `json:"site"`
	IDNo       string `json:"idNo"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Date       string `json:"date"`
	PunchIn    string `json:"punchIn"`
	PunchOut   string `json:"punchOut"`
	Duration   string `json:"duration"`
	DutyStatus string `json:"dutyStatus"`
	OTHours    string `json:"otHours"`
}

type DutyLineDTO struct {
	IDNo      string  `json:"idNo"`
	Name      string  `json:"name"`
	TotalDuty float64 `json:"totalDuty"`
}

type OvertimeLineDTO struct {
	Name          string `json:"name"`
	TotalOvertime string `json:"totalOvertime"`
}

type GrandTotalsDTO struct {
	Duty     float64 `json:"duty"`
	Overtime string  `json:"overtime"`
}

func toDailyWorkDTO(d *report.DailyWork) DailyWorkDTO {
	dto := DailyWorkDTO{ReportMonth: d.Month().UpperLabel(), Sites: map[string]DailyWorkSiteDTO{}}
	for _, site := range d.Sites {
		s := DailyWorkSiteDTO{
			DailyEntries:    make([]DailyEntryDTO, 0, len(site.Entries)),
			DutySummary:     make([]DutyLineDTO, 0, len(site.Duty)),
			OvertimeSummary: make([]OvertimeLineDTO, 0, len(site.Overtime)),
			GrandTotals: GrandTotalsDTO{
				Duty:     site.GrandDuty.InexactFloat64(),
				Overtime: site.GrandOvertime.StringFixed(2),
			},
		}
		for _, e := range site.Entries {
			s.DailyEntries = append(s.DailyEntries, DailyEntryDTO{
				Site:       e.Site,
				IDNo:       e.Employee.ID,
				Name:       e.Employee.Name,
				Department: e.Department,
				Date:       e.Date.String(),
				PunchIn:    report.PunchIn(e),
				PunchOut:   report.PunchOut(e),
				Duration:   e.Hours().StringFixed(2),
				DutyStatus: report.DutyLabel(e.Status),
				OTHours:    e.OvertimeHours().StringFixed(2),
			})
		}
		for _, line := range site.Duty {
			s.DutySummary = append(s.DutySummary, DutyLineDTO{
				IDNo:      line.Employee.ID,
				Name:      line.Employee.Name,
				TotalDuty: line.TotalDuty.InexactFloat64(),
			})
		}
		for _, line := range site.Overtime {
			s.OvertimeSummary = append(s.OvertimeSummary, OvertimeLineDTO{
				Name:          line.Employee.Name,
				TotalOvertime: line.Hours.StringFixed(2),
			})
		}
		dto.Sites[site.Site] = s
	}
	return dto
}

// toReportDTO picks the JSON shape of the report's variant.
func toReportDTO(rep report.Report) (any, error) {
	switch r := rep.(type) {
	case *report.MusterRoll:
		return toMusterRollDTO(r), nil
	case *report.Summary:
		return toSummaryDTO(r), nil
	case *report.DailyWork:
		return toDailyWorkDTO(r), nil
	default:
		return nil, fmt.Errorf("unsupported report type %T", rep)
	}
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// ProfileDTO represents a stored profile in API responses.
type ProfileDTO struct {
	Variant   string              `json:"variant"`
	Name      string              `json:"name"`
	Config    factory.ProfileJSON `json:"config"`
	Version   int                 `json:"version"`
	UpdatedAt string              `json:"updated_at,omitempty"`
}

// OverrideDTO represents a shift cutoff override.
type OverrideDTO struct {
	ID         string `json:"id"`
	Site       string `json:"site"`
	EmployeeID string `json:"employee_id"`
	CutoffHour int    `json:"cutoff_hour"`
}

// CreateOverrideRequest is the request to add or update an override.
type CreateOverrideRequest struct {
	Site       string `json:"site"`
	EmployeeID string `json:"employee_id"`
	CutoffHour int    `json:"cutoff_hour"`
}

func toOverrideDTO(o report.Override) OverrideDTO {
	return OverrideDTO{ID: o.ID, Site: o.Site, EmployeeID: o.EmployeeID, CutoffHour: o.CutoffHour}
}

// =============================================================================
// MISC
// =============================================================================

// SampleDTO describes a downloadable sample export.
type SampleDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
}

// ErrorResponse is returned for API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
