// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"
	base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// PublicIDBytes is the entropy behind a public link: 128 bits.
	PublicIDBytes = 16

	slugSuffixLen = 6
)

// NewID returns a fresh row identifier.
func NewID() string {
	return uuid.NewString()
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GeneratePublicID creates the opaque identifier used in public test links.
// It is the only thing standing between the internet and a submission form,
// so it carries PublicIDBytes of crypto/rand entropy, base62 encoded.
func GeneratePublicID() (string, error) {
	b := make([]byte, PublicIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate public ID: %w", err)
	}
	return base62Encode(b), nil
}

// GenerateSlug derives a URL slug from a title and appends a random suffix,
// so two tests with the same title never collide:
//
//	"Team Survey 2025!" -> "team-survey-2025-k3x9qa"
func GenerateSlug(title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "test"
	}

	suffix, err := randomString(base36Chars, slugSuffixLen)
	if err != nil {
		return "", fmt.Errorf("failed to generate slug suffix: %w", err)
	}
	return base + "-" + suffix, nil
}

// Slugify lowercases s, drops everything but ASCII letters, digits, spaces
// and hyphens, and joins the remaining words with single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '-':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}

func randomString(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

// base62Encode converts bytes to base62 (0-9, a-z, A-Z)
// This creates URL-friendly identifiers without special characters
func base62Encode(data []byte) string {
	num := new(big.Int).SetBytes(data)
	if num.Sign() == 0 {
		return "0"
	}

	base := big.NewInt(62)
	mod := new(big.Int)
	result := make([]byte, 0, 24)
	for num.Sign() > 0 {
		num.DivMod(num, base, mod)
		result = append(result, base62Chars[mod.Int64()])
	}

	// Reverse the string
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}
