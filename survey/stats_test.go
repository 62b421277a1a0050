// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
)

func TestAggregateChoices(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Kind: models.KindSingle, Text: "Pick", Ord: 1, Options: []models.Option{
			{ID: "a", Text: "A", Ord: 1}, {ID: "b", Text: "B", Ord: 2}, {ID: "c", Text: "C", Ord: 3},
		}},
		{ID: "q2", Kind: models.KindText, Text: "Say", Ord: 2},
	}
	subs := []models.Submission{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}}
	opt := func(id string) *string { return &id }
	answers := []models.Answer{
		{SubmissionID: "s1", QuestionID: "q1", OptionID: opt("a")},
		{SubmissionID: "s2", QuestionID: "q1", OptionID: opt("a")},
		{SubmissionID: "s3", QuestionID: "q1", OptionID: opt("b")},
		{SubmissionID: "s1", QuestionID: "q2", FreeText: opt("hello")},
		{SubmissionID: "gone", QuestionID: "q1", OptionID: opt("c")},
	}

	charts := AggregateChoices(questions, subs, answers)
	if len(charts) != 1 {
		t.Fatalf("Expected 1 chart (text questions excluded), got %d", len(charts))
	}

	want := []struct {
		text  string
		count int
	}{{"A", 2}, {"B", 1}, {"C", 0}}
	bars := charts[0].Bars
	if len(bars) != len(want) {
		t.Fatalf("Expected %d bars, got %d", len(want), len(bars))
	}
	for i, w := range want {
		if bars[i].Text != w.text || bars[i].Count != w.count {
			t.Errorf("Bar %d: expected %s=%d, got %s=%d", i, w.text, w.count, bars[i].Text, bars[i].Count)
		}
	}
}

func TestFilter_DateBoundaries(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	f, err := ParseFilter("2024-03-01", "2024-03-10", "", loc)
	if err != nil {
		t.Fatalf("ParseFilter failed: %v", err)
	}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"start of from day", time.Date(2024, 3, 1, 0, 0, 0, 0, loc), true},
		{"just before from day", time.Date(2024, 2, 29, 23, 59, 59, 0, loc), false},
		{"last second of to day", time.Date(2024, 3, 10, 23, 59, 59, 0, loc), true},
		{"start of the day after", time.Date(2024, 3, 11, 0, 0, 0, 0, loc), false},
		{"same instant stored in UTC", time.Date(2024, 3, 11, 4, 59, 59, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Match(models.Submission{CreatedAt: tt.at}); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilter_Participant(t *testing.T) {
	f, err := ParseFilter("", "", "ann", time.UTC)
	if err != nil {
		t.Fatalf("ParseFilter failed: %v", err)
	}

	subs := []models.Submission{{ID: "1", Participant: "Joanna"}, {ID: "2", Participant: "Bob"}, {ID: "3", Participant: "ANNE"}}
	got := FilterSubmissions(subs, f)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("Expected submissions 1 and 3, got %+v", got)
	}
}

func TestParseFilter_BadDate(t *testing.T) {
	for _, tc := range []struct{ from, to string }{{"03/01/2024", ""}, {"", "2024-13-01"}} {
		_, err := ParseFilter(tc.from, tc.to, "", time.UTC)
		if validationMessage(err) == "" {
			t.Errorf("Expected validation error for from=%q to=%q, got %v", tc.from, tc.to, err)
		}
	}
}

func TestComputeMetrics(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		m := ComputeMetrics(nil, now)
		if m.Total != 0 || m.LastSubmissionAt != nil || m.LastSubmissionAgo != "none" {
			t.Errorf("Expected empty metrics, got %+v", m)
		}
	})

	t.Run("latest submission", func(t *testing.T) {
		subs := []models.Submission{
			{CreatedAt: now.Add(-time.Hour)},
			{CreatedAt: now.Add(-3 * time.Minute)},
		}
		m := ComputeMetrics(subs, now)
		if m.Total != 2 {
			t.Errorf("Expected total 2, got %d", m.Total)
		}
		if m.LastSubmissionAt == nil || !m.LastSubmissionAt.Equal(now.Add(-3*time.Minute)) {
			t.Errorf("Expected last submission 3 minutes ago, got %v", m.LastSubmissionAt)
		}
		if m.LastSubmissionAgo != "3 minutes ago" {
			t.Errorf("Expected '3 minutes ago', got %q", m.LastSubmissionAgo)
		}
	})
}

func TestWriteCSV(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	subs := []models.Submission{
		{ID: "s1", Participant: `Jo"hn`, CreatedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
		{ID: "s2", Participant: "a,b", CreatedAt: time.Date(2024, 1, 3, 23, 30, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, subs, loc); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "submission_id,participant,created_at\r\n" +
		`"s1","Jo""hn","2024-01-02T12:00:00+02:00"` + "\r\n" +
		`"s2","a,b","2024-01-04T01:30:00+02:00"` + "\r\n"
	if buf.String() != want {
		t.Errorf("Expected CSV:\n%q\ngot:\n%q", want, buf.String())
	}
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename("team-abc123", time.Date(2024, 7, 4, 9, 5, 3, 0, time.UTC))
	if got != "submissions-team-abc123-2024-07-04T09-05-03.csv" {
		t.Errorf("Unexpected filename %q", got)
	}
}

func TestLoadResults_Stats(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	slug, pt, publicID := publishSample(t, s, "Stats")

	day := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	submitAt := func(at time.Time, name string, choice []int) {
		t.Helper()
		s.SetClock(func() time.Time { return at })
		if _, err := s.Submit(ctx, publicID, answerAll(pt, name, choice, "text")); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	submitAt(day, "Ann", []int{0, 1})
	submitAt(day.Add(time.Hour), "Bob", []int{0, 0})
	submitAt(day.AddDate(0, 0, 1), "Cat", []int{1, 0})

	r, err := s.LoadResults(ctx, slug)
	if err != nil {
		t.Fatalf("LoadResults failed: %v", err)
	}
	if len(r.Submissions) != 3 {
		t.Fatalf("Expected 3 submissions, got %d", len(r.Submissions))
	}
	if r.Submissions[0].Participant != "Cat" {
		t.Errorf("Expected newest submission first, got %q", r.Submissions[0].Participant)
	}

	t.Run("unfiltered", func(t *testing.T) {
		stats := r.Stats(Filter{}, day.AddDate(0, 0, 2))
		if stats.Metrics.Total != 3 {
			t.Errorf("Expected total 3, got %d", stats.Metrics.Total)
		}
		if len(stats.Charts) != 2 {
			t.Fatalf("Expected 2 charts, got %d", len(stats.Charts))
		}
		colours := stats.Charts[0].Bars
		if colours[0].Count != 2 || colours[1].Count != 1 || colours[2].Count != 0 {
			t.Errorf("Expected colour counts 2/1/0, got %+v", colours)
		}
	})

	t.Run("first day only", func(t *testing.T) {
		f, err := ParseFilter("2024-06-01", "2024-06-01", "", time.UTC)
		if err != nil {
			t.Fatalf("ParseFilter failed: %v", err)
		}
		stats := r.Stats(f, day.AddDate(0, 0, 2))
		if stats.Metrics.Total != 2 {
			t.Errorf("Expected 2 submissions on the first day, got %d", stats.Metrics.Total)
		}
		drinks := stats.Charts[1].Bars
		if drinks[0].Count != 1 || drinks[1].Count != 1 {
			t.Errorf("Expected drink counts 1/1, got %+v", drinks)
		}
	})
}
