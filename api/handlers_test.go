/*
handlers_test.go - HTTP tests for report generation and configuration

Tests for:
- Report generation as JSON and as a workbook, for every variant
- Error mapping (missing column, no data, bad parameters)
- Profile and override administration, and its effect on reports
- Samples and health
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/punch-engine/attendance"
	"github.com/warp/punch-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var march2024 = attendance.ReportMonth{Year: 2024, Month: 3}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store)
	require.NoError(t, h.LoadProfiles(context.Background()))
	return h
}

func newTestRouter(t *testing.T, opts Options) (*Handler, *chi.Mux) {
	t.Helper()
	h := newTestHandler(t)
	return h, NewRouter(h, opts)
}

func sampleBytes(t *testing.T, id string, month attendance.ReportMonth) []byte {
	t.Helper()
	data, err := SampleWorkbook(id, month)
	require.NoError(t, err)
	return data
}

func uploadRequest(t *testing.T, path, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if data != nil {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func march2024Fields() map[string]string {
	return map[string]string{"year": "2024", "month": "3"}
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// =============================================================================
// REPORTS - JSON
// =============================================================================

func TestGenerateReportJSON_MusterRoll_NightShiftOverrides(t *testing.T) {
	// GIVEN: The night-shift sample for March 2024 and the default overrides
	_, router := newTestRouter(t, Options{})
	req := uploadRequest(t, "/api/reports/muster-roll/json", "night.xlsx", sampleBytes(t, "night-shift", march2024), march2024Fields())

	// WHEN: Generating the muster roll
	rr := serve(router, req)

	// THEN: Night shifts are credited to the night they started
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	dto := decode[MusterRollDTO](t, rr)
	assert.Equal(t, "MARCH 2024", dto.ReportMonth)

	site, ok := dto.Sites["Karol Bagh"]
	require.True(t, ok)
	require.Len(t, site.Employees, 3)

	rajesh := site.Employees[1]
	assert.Equal(t, "88023", rajesh.EmpID)
	require.Len(t, rajesh.DailyStatus, 31)
	assert.Equal(t, "P", rajesh.DailyStatus[0], "Friday night")
	assert.Equal(t, "WO", rajesh.DailyStatus[2], "Sunday night off")
	assert.Equal(t, "P", rajesh.DailyStatus[3], "Monday night")

	anil := site.Employees[0]
	assert.Equal(t, "87140", anil.EmpID)
	assert.Equal(t, "P", anil.DailyStatus[30], "last night ends in April but counts for the 31st")
}

func TestGenerateReportJSON_MusterRoll_WithoutOverridesNightsSplit(t *testing.T) {
	h, router := newTestRouter(t, Options{})
	ctx := context.Background()
	overrides, err := h.Store.ListOverrides(ctx)
	require.NoError(t, err)
	for _, o := range overrides {
		rr := serve(router, httptest.NewRequest(http.MethodDelete, "/api/overrides/"+o.ID, nil))
		require.Equal(t, http.StatusNoContent, rr.Code)
	}

	req := uploadRequest(t, "/api/reports/muster-roll/json", "night.xlsx", sampleBytes(t, "night-shift", march2024), march2024Fields())
	rr := serve(router, req)

	require.Equal(t, http.StatusOK, rr.Code)
	rajesh := decode[MusterRollDTO](t, rr).Sites["Karol Bagh"].Employees[1]
	assert.Equal(t, "M", rajesh.DailyStatus[3], "Monday evening punch alone")
	assert.Equal(t, "WO", rajesh.DailyStatus[2])
}

func TestGenerateReportJSON_Summary_DayShift(t *testing.T) {
	_, router := newTestRouter(t, Options{})
	req := uploadRequest(t, "/api/reports/attendance-summary/json", "day.xlsx", sampleBytes(t, "day-shift", march2024), march2024Fields())

	rr := serve(router, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	dto := decode[SummaryDTO](t, rr)
	assert.Equal(t, "March 2024", dto.ReportMonth)
	require.Contains(t, dto.ShiftCalculations, "8-Hour Shift")
	require.Contains(t, dto.ShiftCalculations, "9-Hour Shift")

	eight := dto.ShiftCalculations["8-Hour Shift"]
	rows := eight.Sites["Connaught Place"]
	require.Len(t, rows, 3)

	mohan := rows[2]
	assert.Equal(t, "103", mohan.EmpID)
	assert.Equal(t, []string{"05"}, mohan.MissingPunchDays)
	assert.Regexp(t, `^\d+\.\d{2}$`, mohan.Hours)
	assert.Regexp(t, `^\d+\.\d{2}$`, eight.GrandTotals.TotalHours)
	for _, key := range []string{"totalPunches", "totalDays", "totalHours", "totalFullDays", "totalHalfDays", "totalOvertimeHours", "totalDutyUnits", "totalMissingDays"} {
		assert.Contains(t, rr.Body.String(), `"`+key+`"`)
	}

	// Ravi's Monday double tap is removed before counting
	ravi := rows[0]
	assert.Equal(t, 2*ravi.Days, ravi.Punches)
}

func TestGenerateReportJSON_DailyWork_MessyExport(t *testing.T) {
	_, router := newTestRouter(t, Options{})
	req := uploadRequest(t, "/api/reports/daily-work/json", "messy.xlsx", sampleBytes(t, "messy-export", march2024), march2024Fields())

	rr := serve(router, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	dto := decode[DailyWorkDTO](t, rr)
	assert.Equal(t, "MARCH 2024", dto.ReportMonth)

	site := dto.Sites["Lajpat Nagar"]
	// 26 working days for two employees; junk rows are dropped
	require.Len(t, site.DailyEntries, 52)

	first := site.DailyEntries[0]
	assert.Equal(t, "2201", first.IDNo)
	assert.Equal(t, "2024-03-01", first.Date)
	assert.Equal(t, "01/03/24 08:45", first.PunchIn)
	assert.Equal(t, "8.50", first.Duration)
	assert.Equal(t, "1", first.DutyStatus)

	// Day-first text past the 12th stays in March
	assert.Equal(t, "2024-03-30", site.DailyEntries[25].Date)

	deepak := site.DailyEntries[26]
	assert.Equal(t, "2202", deepak.IDNo)
	assert.Equal(t, "Half Duty", deepak.DutyStatus)

	require.Len(t, site.DutySummary, 2)
	assert.Equal(t, 26.0, site.DutySummary[0].TotalDuty)
	assert.Equal(t, 13.0, site.DutySummary[1].TotalDuty)
	assert.Empty(t, site.OvertimeSummary)
	assert.Equal(t, 39.0, site.GrandTotals.Duty)
	assert.Equal(t, "0.00", site.GrandTotals.Overtime)
}

// =============================================================================
// REPORTS - EXCEL
// =============================================================================

func TestGenerateReportExcel_Headers(t *testing.T) {
	_, router := newTestRouter(t, Options{})
	req := uploadRequest(t, "/api/reports/muster-roll/excel", "day.xlsx", sampleBytes(t, "day-shift", march2024), march2024Fields())

	rr := serve(router, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Muster_Roll_Report_3_2024.xlsx"`, rr.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rr.Header().Get("Content-Length"))

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Connaught Place"}, f.GetSheetList())
}

func TestGenerateReportExcel_AllVariants(t *testing.T) {
	_, router := newTestRouter(t, Options{})

	for variant, name := range map[string]string{
		"attendance-summary": "Attendance_Summary_Report_3_2024.xlsx",
		"daily-work":         "Daily_Work_Report_3_2024.xlsx",
	} {
		req := uploadRequest(t, "/api/reports/"+variant+"/excel", "day.xlsx", sampleBytes(t, "day-shift", march2024), march2024Fields())
		rr := serve(router, req)
		require.Equal(t, http.StatusOK, rr.Code, variant)
		assert.Contains(t, rr.Header().Get("Content-Disposition"), name)
	}
}

// =============================================================================
// REPORTS - ERRORS
// =============================================================================

func TestGenerateReport_MissingColumn(t *testing.T) {
	// GIVEN: A workbook without a PunchTime column
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"DeviceName", "IDNo", "Name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"HQ", "1", "A"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	f.Close()

	_, router := newTestRouter(t, Options{})

	for _, variant := range []string{"muster-roll", "attendance-summary", "daily-work"} {
		rr := serve(router, uploadRequest(t, "/api/reports/"+variant+"/json", "bad.xlsx", buf.Bytes(), march2024Fields()))

		assert.Equal(t, http.StatusBadRequest, rr.Code, variant)
		resp := decode[ErrorResponse](t, rr)
		assert.Equal(t, "Missing required columns", resp.Error)
		assert.Contains(t, resp.Details, "PunchTime")
	}
}

func TestGenerateReport_NoDataForMonth(t *testing.T) {
	// GIVEN: An April export requested for March
	_, router := newTestRouter(t, Options{})
	april := attendance.ReportMonth{Year: 2024, Month: 4}
	data := sampleBytes(t, "day-shift", april)

	// WHEN/THEN: Muster roll and daily work refuse with 422
	for _, variant := range []string{"muster-roll", "daily-work"} {
		rr := serve(router, uploadRequest(t, "/api/reports/"+variant+"/json", "april.xlsx", data, march2024Fields()))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, variant)
		assert.Equal(t, "No attendance data found for the selected month and year", decode[ErrorResponse](t, rr).Error)
	}

	// AND: The summary is a valid empty report
	rr := serve(router, uploadRequest(t, "/api/reports/attendance-summary/json", "april.xlsx", data, march2024Fields()))
	require.Equal(t, http.StatusOK, rr.Code)
	dto := decode[SummaryDTO](t, rr)
	assert.Empty(t, dto.ShiftCalculations["8-Hour Shift"].Sites)
	assert.Equal(t, "0.00", dto.ShiftCalculations["8-Hour Shift"].GrandTotals.TotalHours)
}

func TestGenerateReport_BadRequests(t *testing.T) {
	_, router := newTestRouter(t, Options{})
	data := sampleBytes(t, "day-shift", march2024)

	tests := []struct {
		name   string
		path   string
		file   []byte
		fname  string
		fields map[string]string
	}{
		{"month out of range", "/api/reports/muster-roll/json", data, "a.xlsx", map[string]string{"year": "2024", "month": "13"}},
		{"year not a number", "/api/reports/muster-roll/json", data, "a.xlsx", map[string]string{"year": "twenty", "month": "3"}},
		{"no file", "/api/reports/muster-roll/json", nil, "", march2024Fields()},
		{"unknown variant", "/api/reports/weekly/json", data, "a.xlsx", march2024Fields()},
		{"unsupported file type", "/api/reports/daily-work/json", data, "a.csv", march2024Fields()},
		{"corrupt workbook", "/api/reports/daily-work/excel", []byte("not a workbook"), "a.xlsx", march2024Fields()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(router, uploadRequest(t, tt.path, tt.fname, tt.file, tt.fields))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "Invalid report request", decode[ErrorResponse](t, rr).Error)
		})
	}
}

func TestGenerateReport_UploadTooLarge(t *testing.T) {
	h, router := newTestRouter(t, Options{})
	h.MaxUploadBytes = 1024

	rr := serve(router, uploadRequest(t, "/api/reports/muster-roll/json", "day.xlsx", sampleBytes(t, "day-shift", march2024), march2024Fields()))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWriteReportError_InternalErrorsHideDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	writeReportError(rr, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decode[ErrorResponse](t, rr)
	assert.Equal(t, "Failed to generate report", resp.Error)
	assert.Empty(t, resp.Details)
}

// =============================================================================
// PROFILES
// =============================================================================

func TestProfiles_ListAndGet(t *testing.T) {
	_, router := newTestRouter(t, Options{})

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/profiles", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	profiles := decode[[]ProfileDTO](t, rr)
	require.Len(t, profiles, 3)

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/api/profiles/daily-work", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	dw := decode[ProfileDTO](t, rr)
	assert.Equal(t, 1, dw.Version)
	require.Len(t, dw.Config.Shifts, 1)
	assert.Equal(t, "exclusive", dw.Config.Shifts[0].HalfBound)

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/api/profiles/weekly", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProfiles_UpdateChangesReports(t *testing.T) {
	// GIVEN: The muster roll requiring 10 hours for a full day
	_, router := newTestRouter(t, Options{})
	body := `{
		"name": "Muster Roll (10h)",
		"cutoff_hour": 4,
		"apply_overrides": true,
		"fail_on_no_data": true,
		"shifts": [{"label": "Muster Roll", "full_shift_hours": 10, "half_shift_min_hours": 5,
		            "overtime_threshold_hours": 11, "duplicate_window_minutes": 30}]
	}`

	// WHEN: Updating the profile
	rr := serve(router, jsonRequest(http.MethodPut, "/api/profiles/muster-roll", body))

	// THEN: The version is bumped and Ravi's 8.5 hour days become half days
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	dto := decode[ProfileDTO](t, rr)
	assert.Equal(t, 2, dto.Version)
	assert.Equal(t, "Muster Roll (10h)", dto.Name)

	rr = serve(router, uploadRequest(t, "/api/reports/muster-roll/json", "day.xlsx", sampleBytes(t, "day-shift", march2024), march2024Fields()))
	require.Equal(t, http.StatusOK, rr.Code)
	ravi := decode[MusterRollDTO](t, rr).Sites["Connaught Place"].Employees[0]
	assert.Equal(t, "H", ravi.DailyStatus[0])
}

func TestProfiles_UpdateRejects(t *testing.T) {
	_, router := newTestRouter(t, Options{})

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"variant mismatch", "/api/profiles/muster-roll", `{"variant": "daily-work", "shifts": [{"full_shift_hours": 8}]}`, http.StatusBadRequest},
		{"invalid thresholds", "/api/profiles/muster-roll", `{"shifts": [{"full_shift_hours": 4, "half_shift_min_hours": 5}]}`, http.StatusBadRequest},
		{"malformed body", "/api/profiles/muster-roll", `{`, http.StatusBadRequest},
		{"unknown variant", "/api/profiles/weekly", `{}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(router, jsonRequest(http.MethodPut, tt.path, tt.body))
			assert.Equal(t, tt.code, rr.Code)
		})
	}
}

// =============================================================================
// OVERRIDES
// =============================================================================

func TestOverrides_SeededOnFreshStore(t *testing.T) {
	_, router := newTestRouter(t, Options{})

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/overrides", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	overrides := decode[[]OverrideDTO](t, rr)
	require.Len(t, overrides, 2)
	for _, o := range overrides {
		assert.Equal(t, "Karol Bagh", o.Site)
		assert.Equal(t, 16, o.CutoffHour)
	}
}

func TestOverrides_DeletedStayDeletedAfterReload(t *testing.T) {
	h, router := newTestRouter(t, Options{})
	for _, o := range decode[[]OverrideDTO](t, serve(router, httptest.NewRequest(http.MethodGet, "/api/overrides", nil))) {
		require.Equal(t, http.StatusNoContent, serve(router, httptest.NewRequest(http.MethodDelete, "/api/overrides/"+o.ID, nil)).Code)
	}

	require.NoError(t, h.LoadProfiles(context.Background()))

	n, err := h.Store.CountOverrides(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOverrides_CreateAndDelete(t *testing.T) {
	h, router := newTestRouter(t, Options{})

	rr := serve(router, jsonRequest(http.MethodPost, "/api/overrides", `{"site": "Saket", "employee_id": "501", "cutoff_hour": 12}`))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[OverrideDTO](t, rr)
	assert.NotEmpty(t, created.ID)

	_, overrides := h.snapshot("muster-roll")
	assert.Len(t, overrides, 3, "cache refreshed after write")

	rr = serve(router, httptest.NewRequest(http.MethodDelete, "/api/overrides/"+created.ID, nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(router, httptest.NewRequest(http.MethodDelete, "/api/overrides/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOverrides_CreateRejects(t *testing.T) {
	_, router := newTestRouter(t, Options{})

	for _, body := range []string{
		`{"site": "", "employee_id": "1", "cutoff_hour": 5}`,
		`{"site": "Saket", "employee_id": "1", "cutoff_hour": 24}`,
		`not json`,
	} {
		rr := serve(router, jsonRequest(http.MethodPost, "/api/overrides", body))
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

// =============================================================================
// SAMPLES AND HEALTH
// =============================================================================

func TestSamples_ListAndDownload(t *testing.T) {
	_, router := newTestRouter(t, Options{})

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/samples", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]SampleDTO](t, rr)
	require.Len(t, list, 3)
	assert.Equal(t, "day-shift.xlsx", list[0].Filename)

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/api/samples/night-shift?year=2024&month=2", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "night-shift.xlsx")
	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"DeviceName", "IDNo", "Name", "Department", "PunchTime"}, rows[0])

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/api/samples/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/api/samples/day-shift?year=2024&month=0", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSampleMonth_DefaultsToPreviousMonth(t *testing.T) {
	now := attendance.ReportMonth{Year: 2024, Month: 1}.Day(15).Time()

	m, err := sampleMonth(httptest.NewRequest(http.MethodGet, "/api/samples/day-shift", nil), now)

	require.NoError(t, err)
	assert.Equal(t, attendance.ReportMonth{Year: 2023, Month: 12}, m)
}

func TestHealth(t *testing.T) {
	_, router := newTestRouter(t, Options{})
	rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
