// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/survey"
)

type TestHandler struct {
	store *survey.Store
}

func NewTestHandler(db *sql.DB, cfg cliparse.Config) *TestHandler {
	return &TestHandler{store: survey.NewStore(db, cfg.Location())}
}

// CreateTest handles POST /admin/tests
func (h *TestHandler) CreateTest(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.store.CreateTest(r.Context(), req)
	if err != nil {
		storeError(w, r, err, "Failed to create test")
		return
	}

	slog.Info("test created", "test_id", res.TestID, "slug", res.Slug, "questions", len(req.Questions), "admin", actor(r))

	middleware.JSONResponse(w, http.StatusCreated, res)
}

// ListTests handles GET /admin/tests
func (h *TestHandler) ListTests(w http.ResponseWriter, r *http.Request) {
	tests, err := h.store.ListTests(r.Context())
	if err != nil {
		storeError(w, r, err, "Failed to list tests")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tests)
}

// GetTest handles GET /admin/tests/{slug}
func (h *TestHandler) GetTest(w http.ResponseWriter, r *http.Request) {
	detail, err := h.store.GetTest(r.Context(), r.PathValue("slug"))
	if err != nil {
		storeError(w, r, err, "Failed to load test")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// UpdateTest handles PATCH /admin/tests/{slug}
func (h *TestHandler) UpdateTest(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	test, err := h.store.UpdateTest(r.Context(), r.PathValue("slug"), req)
	if err != nil {
		storeError(w, r, err, "Failed to update test")
		return
	}

	slog.Info("test updated", "test_id", test.ID, "admin", actor(r))

	middleware.JSONResponse(w, http.StatusOK, test)
}

// CreateVersion handles POST /admin/tests/{slug}/versions
func (h *TestHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVersionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	version, err := h.store.CreateVersion(r.Context(), r.PathValue("slug"), req.Questions)
	if err != nil {
		storeError(w, r, err, "Failed to create version")
		return
	}

	slog.Info("version created", "test_id", version.TestID, "version", version.Version, "admin", actor(r))

	middleware.JSONResponse(w, http.StatusCreated, version)
}

// PublishTest handles POST /admin/tests/{slug}/publish
func (h *TestHandler) PublishTest(w http.ResponseWriter, r *http.Request) {
	version, err := h.store.PublishLatest(r.Context(), r.PathValue("slug"))
	if err != nil {
		storeError(w, r, err, "Failed to publish test")
		return
	}

	slog.Info("version published", "test_id", version.TestID, "version", version.Version, "admin", actor(r))

	middleware.JSONResponse(w, http.StatusOK, version)
}

// DeleteTest handles DELETE /admin/tests/{slug}?confirm={slug}
func (h *TestHandler) DeleteTest(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if r.URL.Query().Get("confirm") != slug {
		middleware.ErrorResponse(w, http.StatusBadRequest, "confirm deletion by repeating the slug")
		return
	}

	report, err := h.store.DeleteTest(r.Context(), slug)
	if err != nil {
		storeError(w, r, err, "Failed to delete test")
		return
	}

	slog.Info("test deleted",
		"slug", slug,
		"versions", report.Versions,
		"submissions", report.Submissions,
		"admin", actor(r),
	)

	middleware.JSONResponse(w, http.StatusOK, report)
}
