// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/models"
)

// LoginPath is where the guard sends clients without an admin session.
const LoginPath = "/login"

// Authorizer resolves a bearer token to an admin principal. It returns
// auth.ErrInvalidSession for missing, expired or revoked sessions and
// auth.ErrNotAdmin when the profile is gone or is not an admin.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*models.Principal, error)
}

type contextKey string

const principalKey contextKey = "principal"

// RequireAdmin guards a handler. The check runs on every request; nothing
// is cached between requests.
func RequireAdmin(a Authorizer) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				RedirectResponse(w, http.StatusUnauthorized, "sign in required", LoginPath)
				return
			}

			principal, err := a.Authorize(r.Context(), token)
			switch {
			case errors.Is(err, auth.ErrInvalidSession):
				RedirectResponse(w, http.StatusUnauthorized, "sign in required", LoginPath)
				return
			case errors.Is(err, auth.ErrNotAdmin):
				RedirectResponse(w, http.StatusForbidden, "admin access required", LoginPath)
				return
			case err != nil:
				slog.Error("failed to authorize request", "error", err, "path", r.URL.Path)
				ErrorResponse(w, http.StatusInternalServerError, "Failed to check session")
				return
			}

			next(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		}
	}
}

// WithPrincipal attaches p to ctx
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal returns the admin attached by RequireAdmin
func GetPrincipal(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*models.Principal)
	return p, ok && p != nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
