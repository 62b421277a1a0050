// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/survey"
)

type ResultsHandler struct {
	store *survey.Store
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{store: survey.NewStore(db, cfg.Location())}
}

// load reads a test's results and the filter from the query string
func (h *ResultsHandler) load(w http.ResponseWriter, r *http.Request) (*survey.Results, survey.Filter, bool) {
	q := r.URL.Query()
	filter, err := survey.ParseFilter(q.Get("from"), q.Get("to"), q.Get("participant"), h.store.Location())
	if err != nil {
		storeError(w, r, err, "Failed to load results")
		return nil, survey.Filter{}, false
	}

	results, err := h.store.LoadResults(r.Context(), r.PathValue("slug"))
	if err != nil {
		storeError(w, r, err, "Failed to load results")
		return nil, survey.Filter{}, false
	}
	return results, filter, true
}

// GetStats handles GET /admin/tests/{slug}/stats
func (h *ResultsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	results, filter, ok := h.load(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results.Stats(filter, h.store.Now()))
}

// ListSubmissions handles GET /admin/tests/{slug}/submissions
func (h *ResultsHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	results, filter, ok := h.load(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, survey.FilterSubmissions(results.Submissions, filter))
}

// GetSubmission handles GET /admin/tests/{slug}/submissions/{id}
func (h *ResultsHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	detail, err := h.store.GetSubmission(r.Context(), r.PathValue("slug"), r.PathValue("id"))
	if err != nil {
		storeError(w, r, err, "Failed to load submission")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// ExportCSV handles GET /admin/tests/{slug}/stats/export.csv
func (h *ResultsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	results, filter, ok := h.load(w, r)
	if !ok {
		return
	}

	subs := survey.FilterSubmissions(results.Submissions, filter)
	if len(subs) == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "no submissions to export")
		return
	}

	var buf bytes.Buffer
	if err := survey.WriteCSV(&buf, subs, h.store.Location()); err != nil {
		slog.Error("failed to write CSV", "error", err, "slug", results.Test.Slug)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export submissions")
		return
	}

	filename := survey.ExportFilename(results.Test.Slug, h.store.Now().In(h.store.Location()))

	slog.Info("submissions exported", "slug", results.Test.Slug, "rows", len(subs), "admin", actor(r))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("failed to write CSV response", "error", err)
	}
}
