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

// ThanksPath is where participants land after submitting.
const ThanksPath = "/thanks"

type PublicHandler struct {
	store *survey.Store
}

func NewPublicHandler(db *sql.DB, cfg cliparse.Config) *PublicHandler {
	return &PublicHandler{store: survey.NewStore(db, cfg.Location())}
}

// GetPublicTest handles GET /t/{public_id}
func (h *PublicHandler) GetPublicTest(w http.ResponseWriter, r *http.Request) {
	pt, err := h.store.ResolvePublic(r.Context(), r.PathValue("public_id"))
	if err != nil {
		storeError(w, r, err, "Failed to load test")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, pt)
}

// Submit handles POST /t/{public_id}/submissions
func (h *PublicHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sub, err := h.store.Submit(r.Context(), r.PathValue("public_id"), req)
	if err != nil {
		storeError(w, r, err, "Failed to record submission")
		return
	}

	slog.Info("submission recorded", "submission_id", sub.ID, "test_version_id", sub.TestVersionID)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponse{
		SubmissionID: sub.ID,
		Redirect:     ThanksPath,
	})
}
