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

// ValidateSubmission checks a participant's answers against the form they
// were shown. Every question is required; the first violation wins.
func ValidateSubmission(pt *models.PublicTest, req models.SubmitRequest) error {
	if strings.TrimSpace(req.Participant) == "" {
		return invalid("enter your name")
	}

	for _, q := range pt.Questions {
		if q.Kind != models.KindSingle {
			continue
		}
		a, ok := req.Answers[q.ID]
		if !ok || !hasOption(q, a.OptionID) {
			return invalid("answer every choice question")
		}
	}

	for _, q := range pt.Questions {
		if q.Kind != models.KindText {
			continue
		}
		a, ok := req.Answers[q.ID]
		if !ok || strings.TrimSpace(a.Text) == "" {
			return invalid("answer every text question")
		}
	}

	return nil
}

func hasOption(q models.Question, optionID string) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// Submit records one submission against the version behind an active link.
// The submission row and its answers commit together or not at all.
func (s *Store) Submit(ctx context.Context, publicID string, req models.SubmitRequest) (*models.Submission, error) {
	pt, err := resolvePublic(ctx, s.db, publicID)
	if err != nil {
		return nil, err
	}
	if err := ValidateSubmission(pt, req); err != nil {
		return nil, err
	}

	sub := &models.Submission{
		ID:            auth.NewID(),
		TestVersionID: pt.TestVersionID,
		Participant:   strings.TrimSpace(req.Participant),
		CreatedAt:     s.now(),
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO submission (id, test_version_id, participant, created_at)
			VALUES ($1, $2, $3, $4)
		`, sub.ID, sub.TestVersionID, sub.Participant, sub.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert submission: %w", err)
		}

		if len(pt.Questions) == 0 {
			return nil
		}

		args := make([]any, 0, len(pt.Questions)*4)
		for _, q := range pt.Questions {
			a := req.Answers[q.ID]
			var optionID, freeText *string
			if q.Kind == models.KindSingle {
				id := a.OptionID
				optionID = &id
			} else {
				text := strings.TrimSpace(a.Text)
				freeText = &text
			}
			args = append(args, sub.ID, q.ID, optionID, freeText)
		}

		err = insertRows(ctx, tx, `INSERT INTO answer (submission_id, question_id, option_id, free_text) VALUES `, 4, args)
		if err != nil {
			return fmt.Errorf("failed to insert answers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubmission returns one submission of a test with its answers joined to
// question and option text, ordered by question ord.
func (s *Store) GetSubmission(ctx context.Context, slug, id string) (*models.SubmissionDetail, error) {
	t, err := testBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}

	var sub models.Submission
	err = s.db.QueryRowContext(ctx, `
		SELECT s.id, s.test_version_id, s.participant, s.created_at
		FROM submission s
		JOIN test_version v ON v.id = s.test_version_id
		WHERE s.id = $1 AND v.test_id = $2
	`, id, t.ID).Scan(&sub.ID, &sub.TestVersionID, &sub.Participant, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query submission: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.text, q.kind, q.ord, a.option_id, o.text, a.free_text
		FROM answer a
		JOIN question q ON q.id = a.question_id
		LEFT JOIN option o ON o.id = a.option_id
		WHERE a.submission_id = $1
		ORDER BY q.ord
	`, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	answers := []models.AnswerView{}
	for rows.Next() {
		var a models.AnswerView
		if err := rows.Scan(&a.QuestionID, &a.QuestionText, &a.Kind, &a.Ord, &a.OptionID, &a.OptionText, &a.FreeText); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	return &models.SubmissionDetail{Submission: sub, Answers: answers}, nil
}
