// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/testutil"
)

func TestDeleteTest_Cascade(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	slug, pt, publicID := publishSample(t, s, "Doomed")
	for _, name := range []string{"Ann", "Bob"} {
		if _, err := s.Submit(ctx, publicID, answerAll(pt, name, []int{0, 1}, "x")); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	if _, err := s.CreateVersion(ctx, slug, []models.QuestionDraft{{Text: "Later", Kind: models.KindText}}); err != nil {
		t.Fatalf("CreateVersion failed: %v", err)
	}

	// A second test must survive untouched.
	keep := createSampleTest(t, s, "Keep")

	report, err := s.DeleteTest(ctx, slug)
	if err != nil {
		t.Fatalf("DeleteTest failed: %v", err)
	}

	want := models.DeletionReport{
		Answers:     6,
		Submissions: 2,
		Options:     5,
		Questions:   4,
		Links:       1,
		Versions:    2,
	}
	if *report != want {
		t.Errorf("Expected report %+v, got %+v", want, *report)
	}

	remaining := map[string]int{
		"test":         1,
		"test_version": 1,
		"question":     3,
		"option":       5,
		"test_link":    0,
		"submission":   0,
		"answer":       0,
	}
	for table, n := range remaining {
		if got := testutil.CountRows(t, conn, table); got != n {
			t.Errorf("Expected %d rows left in %s, got %d", n, table, got)
		}
	}

	if _, err := s.GetTest(ctx, slug); !errors.Is(err, ErrTestNotFound) {
		t.Errorf("Expected deleted test to be gone, got %v", err)
	}
	if _, err := s.GetTest(ctx, keep.Slug); err != nil {
		t.Errorf("Expected other test to survive, got %v", err)
	}
	if _, err := s.ResolvePublic(ctx, publicID); !errors.Is(err, ErrLinkUnavailable) {
		t.Errorf("Expected link to be gone, got %v", err)
	}
}

func TestDeleteTest_NoSubmissions(t *testing.T) {
	s, _ := newTestStore(t)
	res := createSampleTest(t, s, "Fresh")

	report, err := s.DeleteTest(context.Background(), res.Slug)
	if err != nil {
		t.Fatalf("DeleteTest failed: %v", err)
	}
	if report.Submissions != 0 || report.Answers != 0 || report.Links != 0 {
		t.Errorf("Expected empty steps to be skipped, got %+v", *report)
	}
	if report.Versions != 1 || report.Questions != 3 {
		t.Errorf("Expected 1 version and 3 questions deleted, got %+v", *report)
	}
}

func TestDeleteTest_FailureDeletesNothing(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()
	slug, pt, publicID := publishSample(t, s, "Sturdy")
	if _, err := s.Submit(ctx, publicID, answerAll(pt, "Ann", []int{0, 0}, "x")); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// A row the cascade does not know about blocks the final step.
	if _, err := conn.Exec(`CREATE TABLE pin (test_id TEXT NOT NULL REFERENCES test(id))`); err != nil {
		t.Fatalf("Failed to create pin table: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO pin (test_id) SELECT id FROM test WHERE slug = $1`, slug); err != nil {
		t.Fatalf("Failed to pin test: %v", err)
	}

	if _, err := s.DeleteTest(ctx, slug); err == nil {
		t.Fatal("Expected DeleteTest to fail")
	}

	untouched := map[string]int{"test": 1, "submission": 1, "answer": 3, "test_link": 1, "question": 3}
	for table, n := range untouched {
		if got := testutil.CountRows(t, conn, table); got != n {
			t.Errorf("Expected %d rows in %s after rollback, got %d", n, table, got)
		}
	}
}

func TestDeleteTest_Unknown(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.DeleteTest(context.Background(), "missing"); !errors.Is(err, ErrTestNotFound) {
		t.Errorf("Expected ErrTestNotFound, got %v", err)
	}
}
