package web

import (
	"embed"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jpwops/sopcheck/internal/core"
	"github.com/jpwops/sopcheck/internal/logging"
	"github.com/jpwops/sopcheck/internal/report"
)

//go:embed static
var staticFiles embed.FS

// handleIndex serves the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleHealth is a liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":      "ok",
		"validations": s.service.LimiterStatus(),
	})
}

// handleValidate accepts a multipart workbook upload, runs all checks, and
// returns the issue report. With ?format=csv the report is returned as a CSV
// attachment instead of JSON.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondError(w, r, fmt.Errorf("file too large or invalid form: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errors.New("no file provided"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := s.service.ValidateUpload(r.Context(), header.Filename, file)
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
		if err := report.WriteCSV(w, result.Issues); err != nil {
			logging.FromContext(r.Context()).Error("csv write error", "error", err)
		}
		return
	}

	writeJSON(w, result)
}

// handleListRuns returns recorded validation runs, newest first.
// Supports limit (default 50, max 200) and offset query parameters.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	runs, err := s.service.Runs(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"runs":   runs,
		"limit":  limit,
		"offset": offset,
	})
}

// handleRunDetail returns one run and its issues.
func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, err := s.service.Run(r.Context(), runID)
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}

	issues, err := s.service.RunIssues(r.Context(), runID)
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}

	writeJSON(w, map[string]interface{}{
		"run":    run,
		"issues": issues,
	})
}

// handleRunReport returns a recorded run's issues as a CSV attachment.
func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	issues, err := s.service.RunIssues(r.Context(), runID)
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="error_summary_`+runID+`.csv"`)
	if err := report.WriteCSV(w, issues); err != nil {
		logging.FromContext(r.Context()).Error("csv write error", "error", err)
	}
}

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrTooManyRuns):
		return http.StatusTooManyRequests
	case strings.Contains(err.Error(), "run not found"):
		return http.StatusNotFound
	case core.IsUserFacing(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
