/*
samples.go - Generated punch exports for trying the reports

PURPOSE:
  Produces biometric exports in the device's layout (DeviceName, IDNo, Name,
  Department, PunchTime) so a new installation can exercise all three
  reports without real attendance data. Workbooks are generated on request
  for any month; nothing is stored.

AVAILABLE SAMPLES:
  day-shift:    One site, three employees on day shifts. Full days, a weekly
                half day, duplicate punches and one forgotten punch-out.
  night-shift:  Karol Bagh night-shift employees crossing midnight, next to a
                day-shift colleague. Shows the per-employee cutoff overrides.
  messy-export: Text timestamps, numeric IDs, blank device rows, unparseable
                times and punches outside the month. Everything bad is dropped.

USAGE VIA API:
  GET /api/samples
  GET /api/samples/day-shift?year=2024&month=3

ADDING NEW SAMPLES:
 1. Add to 'samples' slice with ID, name, description and generator
 2. The generator returns rows after the header, one punch per row

SEE ALSO:
  - handlers.go: Report handlers the samples are uploaded to
  - sheet/reader.go: How the rows are read back
*/
package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/warp/punch-engine/attendance"
	"github.com/warp/punch-engine/sheet"
)

// =============================================================================
// SAMPLE DEFINITIONS
// =============================================================================

type sample struct {
	SampleDTO
	rows func(month attendance.ReportMonth) [][]any
}

var samples = []sample{
	{
		SampleDTO: SampleDTO{
			ID:          "day-shift",
			Name:        "Day Shift",
			Description: "One site, three day-shift employees with half days, duplicates and a missing punch",
		},
		rows: dayShiftRows,
	},
	{
		SampleDTO: SampleDTO{
			ID:          "night-shift",
			Name:        "Night Shift",
			Description: "Karol Bagh night shifts crossing midnight, resolved by the cutoff overrides",
		},
		rows: nightShiftRows,
	},
	{
		SampleDTO: SampleDTO{
			ID:          "messy-export",
			Name:        "Messy Export",
			Description: "Day-first text timestamps, numeric IDs, blank and unparseable rows that are skipped",
		},
		rows: messyExportRows,
	},
}

var sampleHeader = []any{
	attendance.ColumnSite, attendance.ColumnEmployeeID, attendance.ColumnName,
	attendance.ColumnDepartment, attendance.ColumnPunchTime,
}

func findSample(id string) (sample, bool) {
	for _, s := range samples {
		if s.ID == id {
			return s, true
		}
	}
	return sample{}, false
}

// ListSamples returns available samples.
func (h *Handler) ListSamples(w http.ResponseWriter, r *http.Request) {
	dtos := make([]SampleDTO, len(samples))
	for i, s := range samples {
		dtos[i] = s.SampleDTO
		dtos[i].Filename = s.ID + ".xlsx"
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DownloadSample generates a sample export. year and month default to the
// previous calendar month.
func (h *Handler) DownloadSample(w http.ResponseWriter, r *http.Request) {
	s, ok := findSample(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Sample not found", nil)
		return
	}

	month, err := sampleMonth(r, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year or month", err)
		return
	}

	data, err := SampleWorkbook(s.ID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate sample", err)
		return
	}

	w.Header().Set("Content-Type", sheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.ID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func sampleMonth(r *http.Request, now time.Time) (attendance.ReportMonth, error) {
	q := r.URL.Query()
	if q.Get("year") == "" && q.Get("month") == "" {
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return attendance.NewReportMonth(prev.Year(), int(prev.Month()))
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return attendance.ReportMonth{}, fmt.Errorf("%w: year must be a number", attendance.ErrInvalidRequest)
	}
	m, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		return attendance.ReportMonth{}, fmt.Errorf("%w: month must be a number", attendance.ErrInvalidRequest)
	}
	return attendance.NewReportMonth(year, m)
}

// SampleWorkbook renders sample id for month as .xlsx bytes.
func SampleWorkbook(id string, month attendance.ReportMonth) ([]byte, error) {
	s, ok := findSample(id)
	if !ok {
		return nil, fmt.Errorf("unknown sample %q", id)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Sheet1"
	if err := f.SetSheetRow(sheetName, "A1", &sampleHeader); err != nil {
		return nil, err
	}
	for i, row := range s.rows(month) {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, axis, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// GENERATORS
// =============================================================================

func at(day attendance.WorkDay, hour, minute int) time.Time {
	return day.Time().Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func punchRow(site, id, name, dept string, t any) []any {
	return []any{site, id, name, dept, t}
}

// dayShiftRows:
//
//	101 Ravi Kumar   09:00-17:30 every working day, a duplicate 09:10 on Mondays
//	102 Sunita Devi  09:30-18:00, Wednesdays 09:30-15:00 (half day)
//	103 Mohan Lal    08:00-18:30 (overtime), punch-out forgotten on the 5th
func dayShiftRows(month attendance.ReportMonth) [][]any {
	const site = "Connaught Place"
	var rows [][]any
	for _, day := range month.Days() {
		if day.Weekday() == time.Sunday {
			continue
		}

		rows = append(rows, punchRow(site, "101", "Ravi Kumar", "Housekeeping", at(day, 9, 0)))
		if day.Weekday() == time.Monday {
			rows = append(rows, punchRow(site, "101", "Ravi Kumar", "Housekeeping", at(day, 9, 10)))
		}
		rows = append(rows, punchRow(site, "101", "Ravi Kumar", "Housekeeping", at(day, 17, 30)))

		out := at(day, 18, 0)
		if day.Weekday() == time.Wednesday {
			out = at(day, 15, 0)
		}
		rows = append(rows,
			punchRow(site, "102", "Sunita Devi", "Reception", at(day, 9, 30)),
			punchRow(site, "102", "Sunita Devi", "Reception", out),
		)

		rows = append(rows, punchRow(site, "103", "Mohan Lal", "Security", at(day, 8, 0)))
		if day.Day != 5 {
			rows = append(rows, punchRow(site, "103", "Mohan Lal", "Security", at(day, 18, 30)))
		}
	}
	return rows
}

// nightShiftRows:
//
//	88023 Rajesh Singh  20:00-06:00 next morning, Sunday nights off
//	87140 Anil Sharma   22:00-07:30 next morning, Saturday nights off
//	90011 Priya Verma   09:00-17:00 day shift at the same site
//
// The last night of the month ends in the following month and is still
// credited to the night it started.
func nightShiftRows(month attendance.ReportMonth) [][]any {
	const site = "Karol Bagh"
	var rows [][]any
	for _, day := range month.Days() {
		next := day.AddDays(1)
		if day.Weekday() != time.Sunday {
			rows = append(rows,
				punchRow(site, "88023", "Rajesh Singh", "Security", at(day, 20, 0)),
				punchRow(site, "88023", "Rajesh Singh", "Security", at(next, 6, 0)),
			)
		}
		if day.Weekday() != time.Saturday {
			rows = append(rows,
				punchRow(site, "87140", "Anil Sharma", "Security", at(day, 22, 0)),
				punchRow(site, "87140", "Anil Sharma", "Security", at(next, 7, 30)),
			)
		}
		if day.Weekday() != time.Sunday {
			rows = append(rows,
				punchRow(site, "90011", "Priya Verma", "Front Office", at(day, 9, 0)),
				punchRow(site, "90011", "Priya Verma", "Front Office", at(day, 17, 0)),
			)
		}
	}
	return rows
}

// messyExportRows mixes unpadded day-first text timestamps ("4/3/24 8:45"),
// numeric IDs and rows the reader must drop. It reads like the devices that
// feed the daily work ledger.
func messyExportRows(month attendance.ReportMonth) [][]any {
	const site = "Lajpat Nagar"
	text := func(t time.Time) string { return t.Format("2/1/06 15:04") }

	var rows [][]any
	for _, day := range month.Days() {
		if day.Weekday() == time.Sunday {
			continue
		}
		rows = append(rows,
			[]any{site, 2201, "Kavita Rani", "Pantry", text(at(day, 8, 45))},
			[]any{site, 2201, "Kavita Rani", "Pantry", text(at(day, 17, 15))},
			[]any{site, "2202", "Deepak", "", at(day, 10, 0)},
			[]any{site, "2202", "Deepak", "", at(day, 16, 0)},
		)
	}

	first := month.Day(1)
	rows = append(rows,
		[]any{"", "2201", "Kavita Rani", "Pantry", text(at(first, 12, 0))},
		[]any{site, "2201", "Kavita Rani", "Pantry", "not a time"},
		[]any{site, "2202", "Deepak", "", ""},
		[]any{site, "2202", "Deepak", "", at(first.AddDays(-3), 10, 0)},
	)
	return rows
}
