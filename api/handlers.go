/*
handlers.go - HTTP API handlers for the punch report engine

PURPOSE:
  Exposes report generation and report configuration via REST API. Handles
  HTTP request/response, multipart uploads and JSON serialization, and
  delegates the attendance rules to the report package.

ENDPOINTS:
  Reports:
    POST   /api/reports/{variant}/json     Upload export, get the report as JSON
    POST   /api/reports/{variant}/excel    Upload export, download the workbook

  Profiles:
    GET    /api/profiles                   List report profiles
    GET    /api/profiles/{variant}         Get one profile
    PUT    /api/profiles/{variant}         Replace a profile from JSON

  Overrides:
    GET    /api/overrides                  List shift cutoff overrides
    POST   /api/overrides                  Add or update an override
    DELETE /api/overrides/{id}             Remove an override

  Samples:
    GET    /api/samples                    List sample exports
    GET    /api/samples/{id}               Download a sample export

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Profile and override persistence
  - ProfileFactory: JSON to Profile conversion
  - Writer: Report to workbook rendering
  - Cached profiles/overrides, refreshed after every admin write

REQUEST FLOW (reports):
  1. Limit and parse the multipart upload
  2. Validate variant, year and month
  3. Decode the workbook (sheet package)
  4. Build the report (report package)
  5. Serialize as JSON or stream the workbook

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Missing column, invalid parameters, unreadable upload
  - 404: Unknown profile, override or sample
  - 422: No punches inside the requested month
  - 500: Internal errors (details are logged, never returned)

SECURITY NOTE:
  No authentication. Report routes are rate limited per client IP.

SEE ALSO:
  - dto.go: Request/response data structures
  - samples.go: Sample export generators
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/punch-engine/attendance"
	"github.com/warp/punch-engine/factory"
	"github.com/warp/punch-engine/report"
	"github.com/warp/punch-engine/sheet"
	"github.com/warp/punch-engine/store/sqlite"
)

// DefaultMaxUploadBytes bounds a report upload when no limit is configured.
const DefaultMaxUploadBytes = 20 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store          *sqlite.Store
	ProfileFactory *factory.ProfileFactory
	Writer         *sheet.Writer
	MaxUploadBytes int64

	mu        sync.RWMutex
	profiles  map[report.Variant]report.Profile
	overrides []report.Override
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:          store,
		ProfileFactory: factory.NewProfileFactory(),
		Writer:         sheet.NewWriter(sheet.DefaultBranding()),
		MaxUploadBytes: DefaultMaxUploadBytes,
		profiles:       make(map[report.Variant]report.Profile),
	}
}

// LoadProfiles seeds an empty store with the bundled profiles and default
// overrides, then loads everything into the cache.
func (h *Handler) LoadProfiles(ctx context.Context) error {
	records, err := h.Store.ListProfiles(ctx)
	if err != nil {
		return err
	}
	stored := make(map[string]bool, len(records))
	for _, r := range records {
		stored[r.Variant] = true
	}

	for _, v := range report.Variants {
		if stored[string(v)] {
			continue
		}
		if err := h.saveProfile(ctx, report.Presets()[v]); err != nil {
			return err
		}
	}

	// Overrides are seeded once, with a fresh database, so deleting them all
	// through the API sticks across restarts.
	if len(records) == 0 {
		n, err := h.Store.CountOverrides(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			for _, o := range report.DefaultOverrides() {
				if _, err := h.Store.SaveOverride(ctx, o); err != nil {
					return err
				}
			}
		}
	}

	return h.refresh(ctx)
}

// refresh reloads the cache from the store.
func (h *Handler) refresh(ctx context.Context) error {
	records, err := h.Store.ListProfiles(ctx)
	if err != nil {
		return err
	}
	overrides, err := h.Store.ListOverrides(ctx)
	if err != nil {
		return err
	}

	profiles := make(map[report.Variant]report.Profile, len(records))
	for _, r := range records {
		p, err := h.ProfileFactory.ParseProfile(r.ConfigJSON)
		if err != nil {
			log.Printf("Skipping invalid profile %s: %v", r.Variant, err)
			continue
		}
		profiles[p.Variant] = p
	}

	h.mu.Lock()
	h.profiles = profiles
	h.overrides = overrides
	h.mu.Unlock()
	return nil
}

// snapshot returns the profile of v and the overrides at the time of the call.
func (h *Handler) snapshot(v report.Variant) (report.Profile, []report.Override) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	p, ok := h.profiles[v]
	if !ok {
		p = report.Presets()[v]
	}
	return p, append([]report.Override(nil), h.overrides...)
}

func (h *Handler) saveProfile(ctx context.Context, p report.Profile) error {
	config, err := h.ProfileFactory.MarshalProfile(p)
	if err != nil {
		return err
	}
	return h.Store.SaveProfile(ctx, sqlite.ProfileRecord{
		Variant:    string(p.Variant),
		Name:       p.Name,
		ConfigJSON: config,
	})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GenerateReportJSON builds the report of {variant} and returns it as JSON.
func (h *Handler) GenerateReportJSON(w http.ResponseWriter, r *http.Request) {
	rep, err := h.buildReport(w, r)
	if err != nil {
		writeReportError(w, err)
		return
	}

	body, err := toReportDTO(rep)
	if err != nil {
		writeReportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// GenerateReportExcel builds the report of {variant} and streams the workbook.
func (h *Handler) GenerateReportExcel(w http.ResponseWriter, r *http.Request) {
	rep, err := h.buildReport(w, r)
	if err != nil {
		writeReportError(w, err)
		return
	}

	// Render fully before writing headers so a failure can still be a JSON 500.
	var buf bytes.Buffer
	if err := h.Writer.Write(&buf, rep); err != nil {
		writeReportError(w, err)
		return
	}

	w.Header().Set("Content-Type", sheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.Filename(rep)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to stream workbook: %v", err)
	}
}

func (h *Handler) buildReport(w http.ResponseWriter, r *http.Request) (report.Report, error) {
	variant, err := report.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		return nil, err
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", attendance.ErrInvalidRequest, err)
	}

	month, err := parseReportMonth(r.FormValue("year"), r.FormValue("month"))
	if err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: a file upload named \"file\" is required", attendance.ErrInvalidRequest)
	}
	defer file.Close()

	table, err := sheet.Read(file, header.Filename)
	if err != nil {
		return nil, err
	}

	profile, overrides := h.snapshot(variant)
	return report.Build(table, month, profile, overrides)
}

func parseReportMonth(yearStr, monthStr string) (attendance.ReportMonth, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return attendance.ReportMonth{}, fmt.Errorf("%w: year must be a number", attendance.ErrInvalidRequest)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return attendance.ReportMonth{}, fmt.Errorf("%w: month must be a number", attendance.ErrInvalidRequest)
	}
	return attendance.NewReportMonth(year, month)
}

func writeReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attendance.ErrMissingColumn):
		writeError(w, http.StatusBadRequest, "Missing required columns", err)
	case attendance.IsNoData(err):
		writeError(w, http.StatusUnprocessableEntity, "No attendance data found for the selected month and year", err)
	case attendance.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid report request", err)
	default:
		log.Printf("Report generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate report", nil)
	}
}

// =============================================================================
// PROFILE HANDLERS
// =============================================================================

// ListProfiles returns all stored profiles.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListProfiles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles", err)
		return
	}

	dtos := make([]ProfileDTO, 0, len(records))
	for _, rec := range records {
		dto, err := h.toProfileDTO(rec)
		if err != nil {
			continue // Skip invalid profiles
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProfile returns the profile of one variant.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	variant := chi.URLParam(r, "variant")

	rec, err := h.Store.GetProfile(r.Context(), variant)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get profile", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Profile not found", nil)
		return
	}

	dto, err := h.toProfileDTO(*rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored profile is invalid", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// UpdateProfile replaces the profile of one variant.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	variant, err := report.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Profile not found", err)
		return
	}

	var pj factory.ProfileJSON
	if err := json.NewDecoder(r.Body).Decode(&pj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if pj.Variant == "" {
		pj.Variant = string(variant)
	}
	if pj.Variant != string(variant) {
		writeError(w, http.StatusBadRequest, "Profile variant does not match the URL", nil)
		return
	}

	profile, err := h.ProfileFactory.CreateProfile(pj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid profile configuration", err)
		return
	}

	ctx := r.Context()
	if err := h.saveProfile(ctx, profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save profile", err)
		return
	}
	if err := h.refresh(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload profiles", err)
		return
	}

	rec, err := h.Store.GetProfile(ctx, string(variant))
	if err != nil || rec == nil {
		writeError(w, http.StatusInternalServerError, "Failed to get profile", err)
		return
	}
	dto, err := h.toProfileDTO(*rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored profile is invalid", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) toProfileDTO(rec sqlite.ProfileRecord) (ProfileDTO, error) {
	p, err := h.ProfileFactory.ParseProfile(rec.ConfigJSON)
	if err != nil {
		return ProfileDTO{}, err
	}
	dto := ProfileDTO{
		Variant: rec.Variant,
		Name:    rec.Name,
		Config:  h.ProfileFactory.ToJSON(p),
		Version: rec.Version,
	}
	if !rec.UpdatedAt.IsZero() {
		dto.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
	}
	return dto, nil
}

// =============================================================================
// OVERRIDE HANDLERS
// =============================================================================

// ListOverrides returns every shift cutoff override.
func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.Store.ListOverrides(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list overrides", err)
		return
	}

	dtos := make([]OverrideDTO, len(overrides))
	for i, o := range overrides {
		dtos[i] = toOverrideDTO(o)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateOverride adds an override, or moves the cutoff of an existing one.
func (h *Handler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	var req CreateOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	o := report.Override{Site: req.Site, EmployeeID: req.EmployeeID, CutoffHour: req.CutoffHour}
	if err := report.ValidateOverride(o); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid override", err)
		return
	}

	ctx := r.Context()
	saved, err := h.Store.SaveOverride(ctx, o)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save override", err)
		return
	}
	if err := h.refresh(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload overrides", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOverrideDTO(saved))
}

// DeleteOverride removes an override by id.
func (h *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if err := h.Store.DeleteOverride(ctx, id); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Override not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete override", err)
		return
	}
	if err := h.refresh(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload overrides", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
