// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTestNotFound       = errors.New("test not found")
	ErrNoVersion          = errors.New("test has no versions")
	ErrLinkUnavailable    = errors.New("this test is unavailable")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNothingToPublish   = errors.New("no draft version to publish")
)

// ValidationError is a user-facing rejection raised before any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns every read and write against the survey tables.
//
// Reads that depend on each other run sequentially. Rows are always drained
// and closed before the next statement, which keeps single-connection SQLite
// pools from deadlocking.
type Store struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

// NewStore wraps db. loc is the zone used for day-based filters and exports.
func NewStore(db *sql.DB, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		db:  db,
		loc: loc,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Location returns the zone used for filters and exports.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Now returns the store clock in UTC.
func (s *Store) Now() time.Time {
	return s.now()
}

// SetClock replaces the store clock. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = func() time.Time { return now().UTC() }
}

// withTx runs fn in a transaction and commits only if fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// placeholders returns "$start, $start+1, ..." for n parameters.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(parts, ", ")
}

// valuesList returns "($1, $2), ($3, $4)" for rows x cols parameters.
func valuesList(rows, cols int) string {
	groups := make([]string, rows)
	for i := range groups {
		groups[i] = "(" + placeholders(i*cols+1, cols) + ")"
	}
	return strings.Join(groups, ", ")
}

// maxInParams bounds IN lists and VALUES batches well below driver
// parameter limits.
const maxInParams = 500

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// insertRows runs prefix followed by a VALUES list once per batch of rows,
// where args holds cols values per row. Batches stay within maxInParams.
func insertRows(ctx context.Context, q queryer, prefix string, cols int, args []any) error {
	perBatch := (maxInParams / cols) * cols
	for len(args) > 0 {
		n := min(len(args), perBatch)
		if _, err := q.ExecContext(ctx, prefix+valuesList(n/cols, cols), args[:n]...); err != nil {
			return err
		}
		args = args[n:]
	}
	return nil
}

// selectIDs runs query once per chunk of ids, substituting the IN list for
// the %s in query, and collects the single string column it returns.
func selectIDs(ctx context.Context, q queryer, query string, ids []string) ([]string, error) {
	var out []string
	for _, part := range chunk(ids, maxInParams) {
		rows, err := q.QueryContext(ctx, fmt.Sprintf(query, placeholders(1, len(part))), toArgs(part)...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, err
			}
			out = append(out, id)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// execIn runs a DELETE/UPDATE per chunk of ids and sums affected rows.
func execIn(ctx context.Context, q queryer, query string, ids []string) (int, error) {
	total := 0
	for _, part := range chunk(ids, maxInParams) {
		res, err := q.ExecContext(ctx, fmt.Sprintf(query, placeholders(1, len(part))), toArgs(part)...)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += int(n)
	}
	return total, nil
}
