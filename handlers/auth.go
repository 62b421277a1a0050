// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
)

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn handles POST /auth/sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var profileID, hash string
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, password_hash FROM profile WHERE email = $1
	`, normalizeEmail(req.Email)).Scan(&profileID, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		slog.Error("failed to query profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, claims, err := auth.IssueSession(profileID, h.cfg.SessionSecret, h.now())
	if err != nil {
		slog.Error("failed to issue session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("admin signed in", "profile_id", profileID)

	middleware.JSONResponse(w, http.StatusOK, models.SignInResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// SignOut handles POST /auth/sign-out
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ParseSession(middleware.BearerToken(r), h.cfg.SessionSecret)
	if err != nil {
		middleware.RedirectResponse(w, http.StatusUnauthorized, "sign in required", middleware.LoginPath)
		return
	}

	now := h.now().UTC()
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO session_revocation (jti, profile_id, revoked_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (jti) DO NOTHING
	`, claims.ID, claims.Subject, now, claims.ExpiresAt.Time.UTC())
	if err != nil {
		slog.Error("failed to revoke session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}

	// Expired tokens fail parsing on their own.
	if _, err := h.db.ExecContext(r.Context(), `
		DELETE FROM session_revocation WHERE expires_at < $1
	`, now); err != nil {
		slog.Warn("failed to prune revoked sessions", "error", err)
	}

	slog.Info("admin signed out", "profile_id", claims.Subject)

	middleware.JSONResponse(w, http.StatusOK, models.SessionStateResponse{Authorized: false})
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	_, err := h.Authorize(r.Context(), middleware.BearerToken(r))
	if err != nil && !errors.Is(err, auth.ErrInvalidSession) && !errors.Is(err, auth.ErrNotAdmin) {
		slog.Error("failed to check session", "error", err)
	}
	middleware.JSONResponse(w, http.StatusOK, models.SessionStateResponse{Authorized: err == nil})
}

// Authorize resolves a session token to an admin principal. Revocation and
// the admin flag are read from the database on every call.
func (h *AuthHandler) Authorize(ctx context.Context, token string) (*models.Principal, error) {
	if token == "" {
		return nil, auth.ErrInvalidSession
	}

	claims, err := auth.ParseSession(token, h.cfg.SessionSecret)
	if err != nil {
		return nil, err
	}

	var revoked int
	err = h.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM session_revocation WHERE jti = $1
	`, claims.ID).Scan(&revoked)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked > 0 {
		return nil, auth.ErrInvalidSession
	}

	var email string
	var isAdmin bool
	err = h.db.QueryRowContext(ctx, `
		SELECT email, is_admin FROM profile WHERE id = $1
	`, claims.Subject).Scan(&email, &isAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotAdmin
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	if !isAdmin {
		return nil, auth.ErrNotAdmin
	}

	return &models.Principal{ProfileID: claims.Subject, Email: email, SessionID: claims.ID}, nil
}

// BootstrapAdmin creates or refreshes the configured admin profile. It does
// nothing when no admin email is configured.
func BootstrapAdmin(ctx context.Context, db *sql.DB, cfg cliparse.Config) error {
	email := normalizeEmail(cfg.AdminEmail)
	if email == "" {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO profile (id, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = excluded.password_hash, is_admin = excluded.is_admin
	`, auth.NewID(), email, hash, true, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	slog.Info("admin profile ready", "email", email)
	return nil
}
