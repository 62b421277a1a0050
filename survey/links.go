// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/models"
)

func linkForVersion(ctx context.Context, q queryer, versionID string) (*models.TestLink, error) {
	var l models.TestLink
	err := q.QueryRowContext(ctx, `
		SELECT id, test_version_id, public_id, is_active, created_at
		FROM test_link
		WHERE test_version_id = $1
	`, versionID).Scan(&l.ID, &l.TestVersionID, &l.PublicID, &l.IsActive, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query link: %w", err)
	}
	return &l, nil
}

// IssueLink returns the public link of a test's latest version, creating it
// on first use. created reports whether this call inserted the row. The
// unique constraint on test_version_id makes concurrent callers converge on
// the same row: a losing insert is ignored and the winner's link is read
// back.
func (s *Store) IssueLink(ctx context.Context, slug string) (link *models.TestLink, v *models.TestVersion, created bool, err error) {
	_, v, err = resolveLatest(ctx, s.db, slug)
	if err != nil {
		return nil, nil, false, err
	}

	link, err = linkForVersion(ctx, s.db, v.ID)
	if err != nil {
		return nil, nil, false, err
	}
	if link != nil {
		return link, v, false, nil
	}

	publicID, err := auth.GeneratePublicID()
	if err != nil {
		return nil, nil, false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO test_link (id, test_version_id, public_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (test_version_id) DO NOTHING
	`, auth.NewID(), v.ID, publicID, true, s.now())
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to insert link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to insert link: %w", err)
	}

	link, err = linkForVersion(ctx, s.db, v.ID)
	if err != nil {
		return nil, nil, false, err
	}
	if link == nil {
		return nil, nil, false, fmt.Errorf("link for version %s missing after insert", v.ID)
	}
	return link, v, n == 1, nil
}

// SetLinkActive flips a link's visibility. The public_id never changes.
func (s *Store) SetLinkActive(ctx context.Context, slug string, active bool) (*models.TestLink, *models.TestVersion, error) {
	link, v, _, err := s.IssueLink(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE test_link SET is_active = $1 WHERE id = $2
	`, active, link.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update link: %w", err)
	}

	link.IsActive = active
	return link, v, nil
}

// ResolvePublic loads the form behind an active public link. Missing and
// disabled links both yield ErrLinkUnavailable.
func (s *Store) ResolvePublic(ctx context.Context, publicID string) (*models.PublicTest, error) {
	return resolvePublic(ctx, s.db, publicID)
}

func resolvePublic(ctx context.Context, q queryer, publicID string) (*models.PublicTest, error) {
	var pt models.PublicTest
	err := q.QueryRowContext(ctx, `
		SELECT l.test_version_id, v.version, t.title, t.description
		FROM test_link l
		JOIN test_version v ON v.id = l.test_version_id
		JOIN test t ON t.id = v.test_id
		WHERE l.public_id = $1 AND l.is_active = $2
	`, publicID, true).Scan(&pt.TestVersionID, &pt.Version, &pt.Title, &pt.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLinkUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve link: %w", err)
	}

	pt.Questions, err = loadQuestions(ctx, q, pt.TestVersionID)
	if err != nil {
		return nil, err
	}
	return &pt, nil
}
