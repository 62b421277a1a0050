// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Survey API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: Sign-in, sign-out, session state and admin authorization
  - TestHandler: Test authoring, versions, publishing and deletion
  - ShareHandler: Public links, link toggling and QR codes
  - PublicHandler: Anonymous form loading and submission
  - ResultsHandler: Statistics, submission review and CSV export

Handlers are created via constructor functions that accept *sql.DB and Config:

	testHandler := handlers.NewTestHandler(db, cfg)

Storage rules live in the survey package; handlers translate its errors
into status codes in errors.go.

# Admin Flow

Admin routes require an Authorization: Bearer header carrying a session
token from sign-in:

	POST   /auth/sign-in                     → SignIn (returns token)
	POST   /admin/tests                      → CreateTest (version 1)
	POST   /admin/tests/{slug}/versions      → CreateVersion (new draft)
	POST   /admin/tests/{slug}/publish       → PublishTest (latest draft)
	GET    /admin/tests/{slug}/share         → GetShare (issues link once)
	GET    /admin/tests/{slug}/stats         → GetStats (from, to, participant)
	DELETE /admin/tests/{slug}?confirm=slug  → DeleteTest (cascading)

# Participant Flow

Participants need no account:

	GET  /t/{public_id}              → GetPublicTest
	POST /t/{public_id}/submissions  → Submit (redirects to /thanks)

A disabled or unknown link answers 404 "This test is unavailable".
*/
package handlers
