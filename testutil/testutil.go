// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
)

// TestSessionSecret signs session tokens in tests
const TestSessionSecret = "test-session-secret"

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// Each call gets its own database; it is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   ":memory:",
		DatabaseType:  cliparse.DatabaseSQLite,
		BaseURL:       "http://localhost:3318",
		SessionSecret: TestSessionSecret,
		TimeZone:      "UTC",
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// SampleQuestions returns a valid question set: two SINGLE questions
// (three and two options) followed by one TEXT question.
func SampleQuestions() []models.QuestionDraft {
	return []models.QuestionDraft{
		{Text: "Favourite colour?", Kind: models.KindSingle, Options: []string{"Red", "Green", "Blue"}},
		{Text: "Coffee or tea?", Kind: models.KindSingle, Options: []string{"Coffee", "Tea"}},
		{Text: "Anything else?", Kind: models.KindText},
	}
}

// SampleTest returns a valid authoring request built on SampleQuestions.
func SampleTest(title string) models.CreateTestRequest {
	return models.CreateTestRequest{
		Title:       title,
		Description: "A test survey",
		Questions:   SampleQuestions(),
	}
}

// CreateTestProfile inserts a profile with the given password and returns
// its ID
func CreateTestProfile(t *testing.T, db *sql.DB, email, password string, isAdmin bool) string {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	profileID := auth.NewID()
	_, err = db.Exec(`
		INSERT INTO profile (id, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, profileID, email, hash, isAdmin, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}

	return profileID
}

// CreateTestSession signs a session token for profileID
func CreateTestSession(t *testing.T, profileID string) string {
	t.Helper()

	token, _, err := auth.IssueSession(profileID, TestSessionSecret, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}
	return token
}

// CreateTestAdmin inserts an admin profile and returns a bearer header for it
func CreateTestAdmin(t *testing.T, db *sql.DB) map[string]string {
	t.Helper()

	profileID := CreateTestProfile(t, db, "admin@example.com", "correct horse", true)
	return BearerHeader(CreateTestSession(t, profileID))
}

// BearerHeader builds an Authorization header map for MakeRequest
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
