// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p                Server port (default: 3318)
	-d                Database URL (required)
	-t                Database type: sqlite (default) or postgres
	--base-url        Public base URL for share links
	--session-secret  Session token signing secret (required)
	--admin-email     Bootstrap admin account
	--admin-password  Bootstrap admin password
	--tz              Time zone for date filters and CSV timestamps
	--log-level       debug, info, warn, error
	--log-format      text or json

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	BASE_URL       → --base-url
	SESSION_SECRET → --session-secret
	ADMIN_EMAIL    → --admin-email
	ADMIN_PASSWORD → --admin-password
	TIME_ZONE      → --tz
	LOG_LEVEL      → --log-level
	LOG_FORMAT     → --log-format

A .env file in the working directory is loaded before flags are parsed.
Variables already present in the environment win over the file, and CLI
flags win over both.
*/
package cliparse
