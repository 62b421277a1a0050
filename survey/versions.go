// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-survey/models"
)

const testColumns = `id, title, slug, description, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTest(row rowScanner) (*models.Test, error) {
	var t models.Test
	err := row.Scan(&t.ID, &t.Title, &t.Slug, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func testBySlug(ctx context.Context, q queryer, slug string) (*models.Test, error) {
	t, err := scanTest(q.QueryRowContext(ctx, `SELECT `+testColumns+` FROM test WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query test: %w", err)
	}
	return t, nil
}

// latestVersion picks the version shown to participants and used for
// statistics: published versions beat drafts, the most recently published
// wins, and among drafts the highest number wins.
func latestVersion(ctx context.Context, q queryer, testID string) (*models.TestVersion, error) {
	var v models.TestVersion
	err := q.QueryRowContext(ctx, `
		SELECT id, test_id, version, published_at, created_at
		FROM test_version
		WHERE test_id = $1
		ORDER BY published_at DESC NULLS LAST, version DESC
		LIMIT 1
	`, testID).Scan(&v.ID, &v.TestID, &v.Version, &v.PublishedAt, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoVersion
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest version: %w", err)
	}
	return &v, nil
}

// newerVersion reports whether a sorts before b under the latestVersion rule.
func newerVersion(a, b models.TestVersion) bool {
	switch {
	case a.PublishedAt != nil && b.PublishedAt == nil:
		return true
	case a.PublishedAt == nil && b.PublishedAt != nil:
		return false
	case a.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt):
		return a.PublishedAt.After(*b.PublishedAt)
	}
	return a.Version > b.Version
}

func resolveLatest(ctx context.Context, q queryer, slug string) (*models.Test, *models.TestVersion, error) {
	t, err := testBySlug(ctx, q, slug)
	if err != nil {
		return nil, nil, err
	}
	v, err := latestVersion(ctx, q, t.ID)
	if err != nil {
		return nil, nil, err
	}
	return t, v, nil
}

// loadQuestions returns a version's questions ordered by ord, each SINGLE
// question carrying its options ordered by ord.
func loadQuestions(ctx context.Context, q queryer, versionID string) ([]models.Question, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, test_version_id, text, kind, ord
		FROM question
		WHERE test_version_id = $1
		ORDER BY ord
	`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}

	questions := []models.Question{}
	index := make(map[string]int)
	for rows.Next() {
		var qu models.Question
		if err := rows.Scan(&qu.ID, &qu.TestVersionID, &qu.Text, &qu.Kind, &qu.Ord); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		index[qu.ID] = len(questions)
		questions = append(questions, qu)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}

	rows, err = q.QueryContext(ctx, `
		SELECT o.id, o.question_id, o.text, o.ord
		FROM option o
		JOIN question q ON q.id = o.question_id
		WHERE q.test_version_id = $1 AND q.kind = $2
		ORDER BY q.ord, o.ord
	`, versionID, string(models.KindSingle))
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.QuestionID, &opt.Text, &opt.Ord); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		if i, ok := index[opt.QuestionID]; ok {
			questions[i].Options = append(questions[i].Options, opt)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}

	return questions, nil
}
