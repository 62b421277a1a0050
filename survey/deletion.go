// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/quickly-survey/models"
)

// DeleteTest removes a test and everything beneath it, children first:
// answers, submissions, options, questions, links, versions, then the test.
// Steps with nothing to delete are skipped. The cascade is a single
// transaction, so a failure at any step deletes nothing.
func (s *Store) DeleteTest(ctx context.Context, slug string) (*models.DeletionReport, error) {
	report := &models.DeletionReport{}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		t, err := testBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}

		versionIDs, err := selectIDs(ctx, tx, `SELECT id FROM test_version WHERE test_id IN (%s)`, []string{t.ID})
		if err != nil {
			return fmt.Errorf("failed to collect versions: %w", err)
		}

		if len(versionIDs) > 0 {
			if err := deleteSubmissions(ctx, tx, versionIDs, report); err != nil {
				return err
			}
			if err := deleteQuestions(ctx, tx, versionIDs, report); err != nil {
				return err
			}

			report.Links, err = execIn(ctx, tx, `DELETE FROM test_link WHERE test_version_id IN (%s)`, versionIDs)
			if err != nil {
				return fmt.Errorf("failed to delete links: %w", err)
			}

			report.Versions, err = execIn(ctx, tx, `DELETE FROM test_version WHERE id IN (%s)`, versionIDs)
			if err != nil {
				return fmt.Errorf("failed to delete versions: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM test WHERE id = $1`, t.ID); err != nil {
			return fmt.Errorf("failed to delete test: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func deleteSubmissions(ctx context.Context, tx *sql.Tx, versionIDs []string, report *models.DeletionReport) error {
	submissionIDs, err := selectIDs(ctx, tx, `SELECT id FROM submission WHERE test_version_id IN (%s)`, versionIDs)
	if err != nil {
		return fmt.Errorf("failed to collect submissions: %w", err)
	}
	if len(submissionIDs) == 0 {
		return nil
	}

	report.Answers, err = execIn(ctx, tx, `DELETE FROM answer WHERE submission_id IN (%s)`, submissionIDs)
	if err != nil {
		return fmt.Errorf("failed to delete answers: %w", err)
	}

	report.Submissions, err = execIn(ctx, tx, `DELETE FROM submission WHERE id IN (%s)`, submissionIDs)
	if err != nil {
		return fmt.Errorf("failed to delete submissions: %w", err)
	}
	return nil
}

func deleteQuestions(ctx context.Context, tx *sql.Tx, versionIDs []string, report *models.DeletionReport) error {
	questionIDs, err := selectIDs(ctx, tx, `SELECT id FROM question WHERE test_version_id IN (%s)`, versionIDs)
	if err != nil {
		return fmt.Errorf("failed to collect questions: %w", err)
	}
	if len(questionIDs) == 0 {
		return nil
	}

	report.Options, err = execIn(ctx, tx, `DELETE FROM option WHERE question_id IN (%s)`, questionIDs)
	if err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}

	report.Questions, err = execIn(ctx, tx, `DELETE FROM question WHERE id IN (%s)`, questionIDs)
	if err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	return nil
}
