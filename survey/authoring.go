// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/models"
)

// ValidateTest checks an authoring request and returns the first violated
// rule. Nothing is written when it fails.
func ValidateTest(req models.CreateTestRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return invalid("enter a title")
	}
	return ValidateQuestions(req.Questions)
}

// ValidateQuestions applies the per-question rules in submission order.
func ValidateQuestions(questions []models.QuestionDraft) error {
	if len(questions) == 0 {
		return invalid("add at least one question")
	}

	for i, q := range questions {
		n := i + 1
		if strings.TrimSpace(q.Text) == "" {
			return invalid("question %d: enter the question text", n)
		}
		if !q.Kind.Valid() {
			return invalid("question %d: unknown kind %q", n, q.Kind)
		}
		if q.Kind != models.KindSingle {
			continue
		}
		if len(q.Options) < 2 {
			return invalid("question %d: add at least 2 options", n)
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return invalid("question %d: option %d is empty", n, j+1)
			}
		}
	}

	return nil
}

// CreateTest validates req, then writes the test, version 1, its questions
// and their options in one transaction.
func (s *Store) CreateTest(ctx context.Context, req models.CreateTestRequest) (*models.CreateTestResponse, error) {
	if err := ValidateTest(req); err != nil {
		return nil, err
	}

	slug, err := auth.GenerateSlug(req.Title)
	if err != nil {
		return nil, err
	}

	now := s.now()
	testID := auth.NewID()
	versionID := auth.NewID()

	var description *string
	if d := strings.TrimSpace(req.Description); d != "" {
		description = &d
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO test (id, title, slug, description, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, testID, strings.TrimSpace(req.Title), slug, description, models.StatusDraft, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert test: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO test_version (id, test_id, version, published_at, created_at)
			VALUES ($1, $2, $3, NULL, $4)
		`, versionID, testID, 1, now)
		if err != nil {
			return fmt.Errorf("failed to insert version: %w", err)
		}

		return insertQuestions(ctx, tx, versionID, req.Questions)
	})
	if err != nil {
		return nil, err
	}

	return &models.CreateTestResponse{TestID: testID, Slug: slug, Version: 1}, nil
}

// CreateVersion adds a new draft version numbered one past the highest
// existing version, with a fresh question set.
func (s *Store) CreateVersion(ctx context.Context, slug string, questions []models.QuestionDraft) (*models.TestVersion, error) {
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}

	var version *models.TestVersion
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		t, err := testBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		var highest int
		err = tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(version), 0) FROM test_version WHERE test_id = $1
		`, t.ID).Scan(&highest)
		if err != nil {
			return fmt.Errorf("failed to query version number: %w", err)
		}

		version = &models.TestVersion{
			ID:        auth.NewID(),
			TestID:    t.ID,
			Version:   highest + 1,
			CreatedAt: s.now(),
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO test_version (id, test_id, version, published_at, created_at)
			VALUES ($1, $2, $3, NULL, $4)
		`, version.ID, version.TestID, version.Version, version.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert version: %w", err)
		}

		return insertQuestions(ctx, tx, version.ID, questions)
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// PublishLatest stamps published_at on the highest unpublished version and
// marks the test published. Drafts numbered below the highest published
// version have been superseded and are never published.
func (s *Store) PublishLatest(ctx context.Context, slug string) (*models.TestVersion, error) {
	var v models.TestVersion
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		t, err := testBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		err = tx.QueryRowContext(ctx, `
			SELECT id, test_id, version, created_at
			FROM test_version
			WHERE test_id = $1 AND published_at IS NULL
				AND version > COALESCE((
					SELECT MAX(version) FROM test_version
					WHERE test_id = $1 AND published_at IS NOT NULL
				), 0)
			ORDER BY version DESC
			LIMIT 1
		`, t.ID).Scan(&v.ID, &v.TestID, &v.Version, &v.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNothingToPublish
		}
		if err != nil {
			return fmt.Errorf("failed to query draft version: %w", err)
		}

		now := s.now()
		v.PublishedAt = &now
		if _, err := tx.ExecContext(ctx, `
			UPDATE test_version SET published_at = $1 WHERE id = $2
		`, now, v.ID); err != nil {
			return fmt.Errorf("failed to publish version: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE test SET status = $1, updated_at = $2 WHERE id = $3
		`, models.StatusPublished, now, t.ID); err != nil {
			return fmt.Errorf("failed to update test status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateTest changes title and/or description. Neither is versioned.
func (s *Store) UpdateTest(ctx context.Context, slug string, req models.UpdateTestRequest) (*models.Test, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, invalid("enter a title")
	}

	t, err := testBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d != "" {
			t.Description = &d
		} else {
			t.Description = nil
		}
	}
	t.UpdatedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		UPDATE test SET title = $1, description = $2, updated_at = $3 WHERE id = $4
	`, t.Title, t.Description, t.UpdatedAt, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update test: %w", err)
	}
	return t, nil
}

// GetTest returns a test with its latest version's questions.
func (s *Store) GetTest(ctx context.Context, slug string) (*models.TestDetail, error) {
	t, v, err := resolveLatest(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}
	questions, err := loadQuestions(ctx, s.db, v.ID)
	if err != nil {
		return nil, err
	}
	return &models.TestDetail{Test: *t, Version: *v, Questions: questions}, nil
}

// ListTests returns every test, newest first, with its latest version and
// that version's submission count.
func (s *Store) ListTests(ctx context.Context) ([]models.TestSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+testColumns+` FROM test ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tests: %w", err)
	}
	summaries := []models.TestSummary{}
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan test: %w", err)
		}
		summaries = append(summaries, models.TestSummary{Test: *t})
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read tests: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, test_id, version, published_at, created_at FROM test_version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	latest := make(map[string]models.TestVersion)
	for rows.Next() {
		var v models.TestVersion
		if err := rows.Scan(&v.ID, &v.TestID, &v.Version, &v.PublishedAt, &v.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		if cur, ok := latest[v.TestID]; !ok || newerVersion(v, cur) {
			latest[v.TestID] = v
		}
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read versions: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT test_version_id, COUNT(*) FROM submission GROUP BY test_version_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var versionID string
		var n int
		if err := rows.Scan(&versionID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan submission count: %w", err)
		}
		counts[versionID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read submission counts: %w", err)
	}

	for i := range summaries {
		if v, ok := latest[summaries[i].Test.ID]; ok {
			summaries[i].LatestVersion = v.Version
			summaries[i].PublishedAt = v.PublishedAt
			summaries[i].SubmissionCount = counts[v.ID]
		}
	}
	return summaries, nil
}

// insertQuestions writes the questions of a version, then the options of
// every SINGLE question. ord is the 1-based position in the submitted order.
func insertQuestions(ctx context.Context, tx *sql.Tx, versionID string, drafts []models.QuestionDraft) error {
	questionIDs := make([]string, len(drafts))
	args := make([]any, 0, len(drafts)*5)
	for i, d := range drafts {
		questionIDs[i] = auth.NewID()
		args = append(args, questionIDs[i], versionID, strings.TrimSpace(d.Text), string(d.Kind), i+1)
	}

	err := insertRows(ctx, tx, `INSERT INTO question (id, test_version_id, text, kind, ord) VALUES `, 5, args)
	if err != nil {
		return fmt.Errorf("failed to insert questions: %w", err)
	}

	args = args[:0]
	for i, d := range drafts {
		if d.Kind != models.KindSingle {
			continue
		}
		for j, text := range d.Options {
			args = append(args, auth.NewID(), questionIDs[i], strings.TrimSpace(text), j+1)
		}
	}
	if len(args) == 0 {
		return nil
	}

	err = insertRows(ctx, tx, `INSERT INTO option (id, question_id, text, ord) VALUES `, 4, args)
	if err != nil {
		return fmt.Errorf("failed to insert options: %w", err)
	}

	return nil
}

// MoveQuestion returns a copy of drafts with the question at i moved by
// delta positions. Moves that would leave the list are no-ops.
func MoveQuestion(drafts []models.QuestionDraft, i, delta int) []models.QuestionDraft {
	return move(drafts, i, delta)
}

// MoveOption is MoveQuestion for a question's option texts.
func MoveOption(options []string, i, delta int) []string {
	return move(options, i, delta)
}

// RemoveQuestion returns a copy of drafts without the question at i.
func RemoveQuestion(drafts []models.QuestionDraft, i int) []models.QuestionDraft {
	out := append([]models.QuestionDraft(nil), drafts...)
	if i < 0 || i >= len(out) {
		return out
	}
	return append(out[:i], out[i+1:]...)
}

func move[T any](items []T, i, delta int) []T {
	out := append([]T(nil), items...)
	j := i + delta
	if i < 0 || i >= len(out) || j < 0 || j >= len(out) || delta == 0 {
		return out
	}
	item := out[i]
	out = append(out[:i], out[i+1:]...)
	out = append(out[:j], append([]T{item}, out[j:]...)...)
	return out
}
