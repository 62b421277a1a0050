// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Survey API server.

Quickly Survey lets admins author versioned tests (single-choice and free
text questions), share them through a public link or QR code, and review
anonymous submissions as per-option counts, metrics and CSV exports.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=survey.db SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --session-secret ...

A .env file in the working directory is read as well.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - SESSION_SECRET (--session-secret): HMAC key for session tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BASE_URL (--base-url): Prefix of public links (default: http://localhost:PORT)
  - ADMIN_EMAIL, ADMIN_PASSWORD: Admin profile created or refreshed at startup
  - TIME_ZONE (--tz): Zone for date filters and exports (default: Local)
  - LOG_LEVEL, LOG_FORMAT: debug|info|warn|error and text|json

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, tests, share, public, results)
  - survey: Test, version, link, submission and statistics storage
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin guard, JSON helpers
  - models: Request/response types
  - auth: IDs, slugs, passwords and session tokens
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
