// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"math/big"
	"strings"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	if len(id) != 36 || strings.Count(id, "-") != 4 {
		t.Errorf("NewID() = %q, want UUID", id)
	}
	if NewID() == id {
		t.Error("NewID() produced duplicate IDs")
	}
}

func TestGeneratePublicID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id, err := GeneratePublicID()
		if err != nil {
			t.Fatalf("GeneratePublicID() error = %v", err)
		}
		for _, c := range id {
			if !strings.ContainsRune(base62Chars, c) {
				t.Fatalf("GeneratePublicID() contains non-base62 char %q in %q", c, id)
			}
		}
		// 128 bits in base62 needs up to 22 chars; leading zero bytes shorten it
		if len(id) > 22 || len(id) < 16 {
			t.Errorf("GeneratePublicID() length = %d, outside expected range", len(id))
		}
		if seen[id] {
			t.Fatalf("GeneratePublicID() produced duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestBase62Encode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"zero", []byte{0}, "0"},
		{"one", []byte{1}, "1"},
		{"61", []byte{61}, "Z"},
		{"62", []byte{62}, "10"},
		{"two bytes", []byte{0x01, 0x00}, "48"}, // 256 = 4*62 + 8
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base62Encode(tt.data); got != tt.want {
				t.Errorf("base62Encode(%v) = %q, want %q", tt.data, got, tt.want)
			}
		})
	}

	// Round trip a wide value back through big.Int
	data := []byte{0xde, 0xad, 0xbe, 0xef, 0xca, 0xfe, 0xba, 0xbe, 0x01, 0x02}
	encoded := base62Encode(data)
	decoded := new(big.Int)
	for _, c := range encoded {
		decoded.Mul(decoded, big.NewInt(62))
		decoded.Add(decoded, big.NewInt(int64(strings.IndexRune(base62Chars, c))))
	}
	if decoded.Cmp(new(big.Int).SetBytes(data)) != 0 {
		t.Errorf("base62Encode round trip mismatch: %s", encoded)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Team Survey", "team-survey"},
		{"  Hello,   World!  ", "hello-world"},
		{"Q3 2025 - Feedback", "q3-2025-feedback"},
		{"already-slugged", "already-slugged"},
		{"Ünïcode only ✓", "ncode-only"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateSlug(t *testing.T) {
	slug, err := GenerateSlug("Team Survey")
	if err != nil {
		t.Fatalf("GenerateSlug() error = %v", err)
	}
	if !strings.HasPrefix(slug, "team-survey-") {
		t.Errorf("GenerateSlug() = %q, want team-survey- prefix", slug)
	}
	if len(slug) != len("team-survey-")+slugSuffixLen {
		t.Errorf("GenerateSlug() = %q, unexpected suffix length", slug)
	}

	empty, err := GenerateSlug("???")
	if err != nil {
		t.Fatalf("GenerateSlug() error = %v", err)
	}
	if !strings.HasPrefix(empty, "test-") {
		t.Errorf("GenerateSlug() for symbol-only title = %q, want test- prefix", empty)
	}
}

func TestGenerateSlug_SameTitleNeverCollides(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		slug, err := GenerateSlug("Same Title")
		if err != nil {
			t.Fatalf("GenerateSlug() error = %v", err)
		}
		if seen[slug] {
			t.Fatalf("GenerateSlug() collided after %d slugs: %q", i, slug)
		}
		seen[slug] = true
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("HashPassword() returned plaintext")
	}

	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword() with correct password error = %v", err)
	}
	if err := CheckPassword(hash, "battery staple"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword() with wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestSession(t *testing.T) {
	const secret = "test-session-secret"
	now := time.Now()

	token, claims, err := IssueSession("profile-1", secret, now)
	if err != nil {
		t.Fatalf("IssueSession() error = %v", err)
	}
	if claims.ID == "" {
		t.Error("IssueSession() claims missing jti")
	}

	parsed, err := ParseSession(token, secret)
	if err != nil {
		t.Fatalf("ParseSession() error = %v", err)
	}
	if parsed.Subject != "profile-1" {
		t.Errorf("ParseSession() subject = %q, want profile-1", parsed.Subject)
	}
	if parsed.ID != claims.ID {
		t.Errorf("ParseSession() jti = %q, want %q", parsed.ID, claims.ID)
	}

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", token, "other-secret"},
		{"garbage", "not-a-token", secret},
		{"empty", "", secret},
		{"tampered", token + "x", secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSession(tt.token, tt.secret); err != ErrInvalidSession {
				t.Errorf("ParseSession() error = %v, want ErrInvalidSession", err)
			}
		})
	}

	expired, _, err := IssueSession("profile-1", secret, now.Add(-2*SessionTTL))
	if err != nil {
		t.Fatalf("IssueSession() error = %v", err)
	}
	if _, err := ParseSession(expired, secret); err != ErrInvalidSession {
		t.Errorf("ParseSession() on expired token error = %v, want ErrInvalidSession", err)
	}
}
