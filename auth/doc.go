// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers, slugs, password hashing and session tokens.

# Identifiers

Row IDs are UUIDs:

	id := auth.NewID()

Random hex IDs are used where a short secret is enough (session jti):

	id, err := auth.GenerateID(16)  // 32 hex characters

# Public IDs

Public link identifiers are 128 random bits, base62 encoded:

	publicID, err := auth.GeneratePublicID()

Anyone holding a public ID can submit answers, so it must not be guessable.

# Slugs

Test slugs are derived from the title plus a random base36 suffix:

	slug, err := auth.GenerateSlug("Team Survey")  // "team-survey-k3x9qa"

The suffix makes slugs unique without a database pre-check.

# Passwords

Admin passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, candidate)

# Sessions

Signing in issues an HS256 JWT whose subject is the profile ID and whose jti
identifies the session for sign-out:

	token, claims, err := auth.IssueSession(profileID, secret, time.Now())
	claims, err := auth.ParseSession(token, secret)
*/
package auth
