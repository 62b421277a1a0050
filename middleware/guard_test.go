// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/models"
)

type stubAuthorizer struct {
	principal *models.Principal
	err       error
	calls     int
}

func (s *stubAuthorizer) Authorize(ctx context.Context, token string) (*models.Principal, error) {
	s.calls++
	return s.principal, s.err
}

func TestRequireAdmin(t *testing.T) {
	admin := &models.Principal{ProfileID: "p1", Email: "admin@example.com", SessionID: "jti1"}

	testCases := []struct {
		name           string
		header         string
		authorizer     *stubAuthorizer
		expectedStatus int
		expectRedirect bool
		expectCalled   bool
	}{
		{
			name:           "no header",
			authorizer:     &stubAuthorizer{principal: admin},
			expectedStatus: http.StatusUnauthorized,
			expectRedirect: true,
		},
		{
			name:           "wrong scheme",
			header:         "Basic abc",
			authorizer:     &stubAuthorizer{principal: admin},
			expectedStatus: http.StatusUnauthorized,
			expectRedirect: true,
		},
		{
			name:           "invalid session",
			header:         "Bearer expired",
			authorizer:     &stubAuthorizer{err: auth.ErrInvalidSession},
			expectedStatus: http.StatusUnauthorized,
			expectRedirect: true,
		},
		{
			name:           "not an admin",
			header:         "Bearer user",
			authorizer:     &stubAuthorizer{err: auth.ErrNotAdmin},
			expectedStatus: http.StatusForbidden,
			expectRedirect: true,
		},
		{
			name:           "store failure",
			header:         "Bearer token",
			authorizer:     &stubAuthorizer{err: errors.New("db down")},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "admin",
			header:         "Bearer token",
			authorizer:     &stubAuthorizer{principal: admin},
			expectedStatus: http.StatusOK,
			expectCalled:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := RequireAdmin(tc.authorizer)(func(w http.ResponseWriter, r *http.Request) {
				called = true
				p, ok := GetPrincipal(r.Context())
				if !ok || p.ProfileID != "p1" {
					t.Errorf("Expected principal p1 in context, got %+v", p)
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/admin/tests", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, w.Code)
			}
			if called != tc.expectCalled {
				t.Errorf("Expected handler called=%v, got %v", tc.expectCalled, called)
			}

			if tc.expectRedirect {
				var resp models.ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if resp.Redirect != LoginPath {
					t.Errorf("Expected redirect %q, got %q", LoginPath, resp.Redirect)
				}
			}
		})
	}
}

func TestRequireAdmin_ChecksEveryRequest(t *testing.T) {
	stub := &stubAuthorizer{principal: &models.Principal{ProfileID: "p1"}}
	handler := RequireAdmin(stub)(func(w http.ResponseWriter, r *http.Request) {})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/admin/tests", nil)
		req.Header.Set("Authorization", "Bearer token")
		handler(httptest.NewRecorder(), req)
	}

	if stub.calls != 3 {
		t.Errorf("Expected 3 authorization checks, got %d", stub.calls)
	}
}

func TestGetPrincipal_Missing(t *testing.T) {
	if _, ok := GetPrincipal(context.Background()); ok {
		t.Error("Expected no principal in an empty context")
	}
}

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		header   string
		expected string
	}{
		{"Bearer abc.def", "abc.def"},
		{"bearer abc", "abc"},
		{"Bearer", ""},
		{"Token abc", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := BearerToken(req); got != tc.expected {
			t.Errorf("Header %q: expected %q, got %q", tc.header, tc.expected, got)
		}
	}
}
