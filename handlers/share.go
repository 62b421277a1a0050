// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/skip2/go-qrcode"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/survey"
)

// qrSize is the edge length of share QR codes in pixels
const qrSize = 256

type ShareHandler struct {
	cfg   cliparse.Config
	store *survey.Store
}

func NewShareHandler(db *sql.DB, cfg cliparse.Config) *ShareHandler {
	return &ShareHandler{cfg: cfg, store: survey.NewStore(db, cfg.Location())}
}

// PublicURL is the address participants open for a link
func (h *ShareHandler) PublicURL(publicID string) string {
	return h.cfg.BaseURL + "/t/" + publicID
}

func (h *ShareHandler) shareResponse(slug string, link *models.TestLink, version *models.TestVersion) models.ShareResponse {
	return models.ShareResponse{
		PublicID: link.PublicID,
		URL:      h.PublicURL(link.PublicID),
		QRURL:    "/admin/tests/" + slug + "/share/qr.png",
		IsActive: link.IsActive,
		Version:  version.Version,
	}
}

// GetShare handles GET /admin/tests/{slug}/share
func (h *ShareHandler) GetShare(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	link, version, created, err := h.store.IssueLink(r.Context(), slug)
	if err != nil {
		storeError(w, r, err, "Failed to issue link")
		return
	}

	if created {
		slog.Info("link issued", "slug", slug, "version", version.Version, "public_id", link.PublicID, "admin", actor(r))
	}

	middleware.JSONResponse(w, http.StatusOK, h.shareResponse(slug, link, version))
}

// GetShareQR handles GET /admin/tests/{slug}/share/qr.png
func (h *ShareHandler) GetShareQR(w http.ResponseWriter, r *http.Request) {
	link, _, _, err := h.store.IssueLink(r.Context(), r.PathValue("slug"))
	if err != nil {
		storeError(w, r, err, "Failed to issue link")
		return
	}

	png, err := qrcode.Encode(h.PublicURL(link.PublicID), qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("failed to render QR code", "error", err, "public_id", link.PublicID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		slog.Warn("failed to write QR code", "error", err)
	}
}

// SetShareActive handles PATCH /admin/tests/{slug}/share
func (h *ShareHandler) SetShareActive(w http.ResponseWriter, r *http.Request) {
	var req models.SetLinkActiveRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.IsActive == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "is_active is required")
		return
	}

	slug := r.PathValue("slug")
	link, version, err := h.store.SetLinkActive(r.Context(), slug, *req.IsActive)
	if err != nil {
		storeError(w, r, err, "Failed to update link")
		return
	}

	slog.Info("link toggled", "slug", slug, "public_id", link.PublicID, "is_active", link.IsActive, "admin", actor(r))

	middleware.JSONResponse(w, http.StatusOK, h.shareResponse(slug, link, version))
}
