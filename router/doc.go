// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Survey API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Sessions:

	POST /auth/sign-in  - Exchange email and password for a session token
	POST /auth/sign-out - Revoke the presented session
	GET  /auth/session  - Report whether the session is an authorized admin

Test management (admin, requires Authorization: Bearer):

	GET    /admin/tests                 - List tests
	POST   /admin/tests                 - Create test with version 1
	GET    /admin/tests/{slug}          - Test with latest version's questions
	PATCH  /admin/tests/{slug}          - Change title or description
	DELETE /admin/tests/{slug}?confirm= - Delete test and everything beneath it
	POST   /admin/tests/{slug}/versions - Add a draft version
	POST   /admin/tests/{slug}/publish  - Publish the newest draft

Sharing (admin):

	GET   /admin/tests/{slug}/share        - Public link for the latest version
	PATCH /admin/tests/{slug}/share        - Enable or disable the link
	GET   /admin/tests/{slug}/share/qr.png - QR code of the public URL

Results (admin, filters: from, to, participant):

	GET /admin/tests/{slug}/stats                - Counts, metrics, submissions
	GET /admin/tests/{slug}/stats/export.csv     - CSV download
	GET /admin/tests/{slug}/submissions          - Submission list
	GET /admin/tests/{slug}/submissions/{id}     - One submission with answers

Participants (public, uses the link's public ID):

	GET  /t/{public_id}             - Form to fill in
	POST /t/{public_id}/submissions - Submit answers

# Handler Initialization

The router creates handler instances with dependency injection:

	authHandler := handlers.NewAuthHandler(db, cfg)
	testHandler := handlers.NewTestHandler(db, cfg)

The auth handler doubles as the guard's Authorizer, so every admin request
re-reads revocations and the admin flag.
*/
package router
