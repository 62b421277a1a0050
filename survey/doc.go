// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package survey implements tests, their versions, public links, submissions,
statistics and deletion on top of database/sql.

A Store wraps the connection pool:

	store := survey.NewStore(conn, cfg.Location())

# Versions

A test owns numbered versions. The latest version is the most recently
published one, or the highest-numbered draft when none is published. Links,
the public form and statistics always use the latest version.

# Errors

Lookups fail with sentinel errors (ErrTestNotFound, ErrNoVersion,
ErrLinkUnavailable, ErrSubmissionNotFound, ErrNothingToPublish). Rejected
input returns a *ValidationError whose message can be shown to the user as
is. Validation always runs before the first write.

# Statistics

LoadResults reads a version's questions, submissions and answers once.
Filters, option counts, metrics and CSV export run in memory on the result:

	r, err := store.LoadResults(ctx, slug)
	f, err := survey.ParseFilter(from, to, name, store.Location())
	stats := r.Stats(f, store.Now())
*/
package survey
