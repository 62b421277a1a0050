// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/survey"
)

// unavailableMessage is the only thing the public surface says about a
// missing or disabled link.
const unavailableMessage = "This test is unavailable"

// storeError maps a survey error to a response. Unrecognized errors are
// logged and reported as failure (e.g. "Failed to create test").
func storeError(w http.ResponseWriter, r *http.Request, err error, failure string) {
	var verr *survey.ValidationError
	switch {
	case errors.As(err, &verr):
		middleware.ErrorResponse(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, survey.ErrTestNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Test not found")
	case errors.Is(err, survey.ErrNoVersion):
		middleware.ErrorResponse(w, http.StatusNotFound, "test has no versions")
	case errors.Is(err, survey.ErrLinkUnavailable):
		middleware.ErrorResponse(w, http.StatusNotFound, unavailableMessage)
	case errors.Is(err, survey.ErrSubmissionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Submission not found")
	case errors.Is(err, survey.ErrNothingToPublish):
		middleware.ErrorResponse(w, http.StatusConflict, "no draft version to publish")
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		middleware.ErrorResponse(w, http.StatusInternalServerError, failure)
	}
}

// actor names the admin behind a request for log lines.
func actor(r *http.Request) string {
	if p, ok := middleware.GetPrincipal(r.Context()); ok {
		return p.Email
	}
	return ""
}
