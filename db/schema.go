// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	// One statement per Exec: lib/pq accepts batches but not every driver does.
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Foreign keys deliberately carry no ON DELETE CASCADE: tests are removed
// through survey.Store.DeleteTest, which deletes children first.
const schema = `
-- Tests
CREATE TABLE IF NOT EXISTS test (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    description TEXT,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published')),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Versions
CREATE TABLE IF NOT EXISTS test_version (
    id TEXT PRIMARY KEY,
    test_id TEXT NOT NULL REFERENCES test(id),
    version INTEGER NOT NULL CHECK (version >= 1),
    published_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (test_id, version)
);

CREATE INDEX IF NOT EXISTS idx_test_version_test_id ON test_version(test_id);

-- Questions
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    test_version_id TEXT NOT NULL REFERENCES test_version(id),
    text TEXT NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('single', 'text')),
    ord INTEGER NOT NULL CHECK (ord >= 1),
    UNIQUE (test_version_id, ord)
);

-- Options
CREATE TABLE IF NOT EXISTS option (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id),
    text TEXT NOT NULL,
    ord INTEGER NOT NULL CHECK (ord >= 1),
    UNIQUE (question_id, ord)
);

-- Public links (one per version)
CREATE TABLE IF NOT EXISTS test_link (
    id TEXT PRIMARY KEY,
    test_version_id TEXT NOT NULL UNIQUE REFERENCES test_version(id),
    public_id TEXT NOT NULL UNIQUE,
    is_active BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Submissions
CREATE TABLE IF NOT EXISTS submission (
    id TEXT PRIMARY KEY,
    test_version_id TEXT NOT NULL REFERENCES test_version(id),
    participant TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submission_version ON submission(test_version_id);

-- Answers
CREATE TABLE IF NOT EXISTS answer (
    submission_id TEXT NOT NULL REFERENCES submission(id),
    question_id TEXT NOT NULL REFERENCES question(id),
    option_id TEXT REFERENCES option(id),
    free_text TEXT,
    PRIMARY KEY (submission_id, question_id),
    CHECK ((option_id IS NULL) <> (free_text IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_answer_option_id ON answer(option_id);

-- Admin profiles
CREATE TABLE IF NOT EXISTS profile (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Signed-out sessions
CREATE TABLE IF NOT EXISTS session_revocation (
    jti TEXT PRIMARY KEY,
    profile_id TEXT NOT NULL,
    revoked_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);
`
