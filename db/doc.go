// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Open picks the driver from cliparse.Config.DatabaseType:

  - "postgres": github.com/lib/pq
  - "sqlite": modernc.org/sqlite (pure Go, foreign keys enabled per connection)

Queries throughout the server use $N placeholders, which both drivers accept.

# Schema Creation

CreateSchema initializes all required tables:

  - test: Survey header (title, unique slug, status)
  - test_version: Numbered snapshots of a test's question set
  - question, option: Ordered questions and their choices
  - test_link: One public link per version
  - submission, answer: Anonymous responses
  - profile, session_revocation: Admin accounts and signed-out sessions

Safe to call on every startup:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Foreign keys do not cascade. Deleting a test is an ordered operation
(answers, submissions, options, questions, links, versions, test) performed
in one transaction by the survey package.
*/
package db
