// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-survey/models"
)

// Results is everything the statistics view needs for a test's latest
// version, loaded once. Filtering happens in memory afterwards.
type Results struct {
	Test        models.Test
	Version     models.TestVersion
	Questions   []models.Question
	Submissions []models.Submission
	Answers     []models.Answer
}

// LoadResults reads the latest version of a test with all of its
// submissions (newest first) and their answers.
func (s *Store) LoadResults(ctx context.Context, slug string) (*Results, error) {
	t, v, err := resolveLatest(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}

	questions, err := loadQuestions(ctx, s.db, v.ID)
	if err != nil {
		return nil, err
	}

	r := &Results{Test: *t, Version: *v, Questions: questions}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, test_version_id, participant, created_at
		FROM submission
		WHERE test_version_id = $1
		ORDER BY created_at DESC, id
	`, v.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	r.Submissions = []models.Submission{}
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.TestVersionID, &sub.Participant, &sub.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		r.Submissions = append(r.Submissions, sub)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT a.submission_id, a.question_id, a.option_id, a.free_text
		FROM answer a
		JOIN submission s ON s.id = a.submission_id
		WHERE s.test_version_id = $1
	`, v.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.SubmissionID, &a.QuestionID, &a.OptionID, &a.FreeText); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		r.Answers = append(r.Answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	return r, nil
}

const dateLayout = "2006-01-02"

// Filter narrows a submission list. From and To are local-day starts; a
// submission on the To day is included up to the end of that day.
type Filter struct {
	From        *time.Time
	To          *time.Time
	Participant string
}

// ParseFilter builds a Filter from query-string values. Empty values leave
// the corresponding bound open.
func ParseFilter(from, to, participant string, loc *time.Location) (Filter, error) {
	var f Filter
	if from != "" {
		t, err := time.ParseInLocation(dateLayout, from, loc)
		if err != nil {
			return Filter{}, invalid("from must be a date like 2006-01-02")
		}
		f.From = &t
	}
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, loc)
		if err != nil {
			return Filter{}, invalid("to must be a date like 2006-01-02")
		}
		f.To = &t
	}
	f.Participant = strings.TrimSpace(participant)
	return f, nil
}

// Match reports whether sub passes every bound of f.
func (f Filter) Match(sub models.Submission) bool {
	if f.From != nil && sub.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !sub.CreatedAt.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	if f.Participant != "" &&
		!strings.Contains(strings.ToLower(sub.Participant), strings.ToLower(f.Participant)) {
		return false
	}
	return true
}

// FilterSubmissions keeps the submissions f matches, preserving order.
func FilterSubmissions(subs []models.Submission, f Filter) []models.Submission {
	out := []models.Submission{}
	for _, sub := range subs {
		if f.Match(sub) {
			out = append(out, sub)
		}
	}
	return out
}

// AggregateChoices counts chosen options per SINGLE question over the given
// submissions. Every option appears, in ord order, even with a zero count.
func AggregateChoices(questions []models.Question, subs []models.Submission, answers []models.Answer) []models.QuestionChart {
	included := make(map[string]bool, len(subs))
	for _, sub := range subs {
		included[sub.ID] = true
	}

	counts := make(map[string]int)
	for _, a := range answers {
		if a.OptionID != nil && included[a.SubmissionID] {
			counts[a.QuestionID+"/"+*a.OptionID]++
		}
	}

	charts := []models.QuestionChart{}
	for _, q := range questions {
		if q.Kind != models.KindSingle {
			continue
		}
		chart := models.QuestionChart{
			QuestionID: q.ID,
			Text:       q.Text,
			Ord:        q.Ord,
			Bars:       make([]models.OptionCount, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			chart.Bars = append(chart.Bars, models.OptionCount{
				OptionID: o.ID,
				Text:     o.Text,
				Count:    counts[q.ID+"/"+o.ID],
			})
		}
		charts = append(charts, chart)
	}
	return charts
}

// ComputeMetrics summarizes a submission list as of now.
func ComputeMetrics(subs []models.Submission, now time.Time) models.Metrics {
	m := models.Metrics{Total: len(subs), LastSubmissionAgo: "none"}
	for i := range subs {
		if m.LastSubmissionAt == nil || subs[i].CreatedAt.After(*m.LastSubmissionAt) {
			t := subs[i].CreatedAt
			m.LastSubmissionAt = &t
		}
	}
	if m.LastSubmissionAt != nil {
		m.LastSubmissionAgo = humanize.RelTime(*m.LastSubmissionAt, now, "ago", "from now")
	}
	return m
}

// Stats applies f to the loaded results and builds the statistics view.
func (r *Results) Stats(f Filter, now time.Time) models.StatsResponse {
	subs := FilterSubmissions(r.Submissions, f)
	return models.StatsResponse{
		Test:        r.Test,
		Version:     r.Version,
		Metrics:     ComputeMetrics(subs, now),
		Charts:      AggregateChoices(r.Questions, subs, r.Answers),
		Submissions: subs,
	}
}

var csvHeader = []string{"submission_id", "participant", "created_at"}

// WriteCSV writes one row per submission. Data fields are always quoted with
// embedded quotes doubled; created_at is RFC3339 in loc. Lines end in CRLF.
func WriteCSV(w io.Writer, subs []models.Submission, loc *time.Location) error {
	if _, err := io.WriteString(w, strings.Join(csvHeader, ",")+"\r\n"); err != nil {
		return err
	}
	for _, sub := range subs {
		fields := []string{sub.ID, sub.Participant, sub.CreatedAt.In(loc).Format(time.RFC3339)}
		for i, field := range fields {
			fields[i] = quoteCSV(field)
		}
		if _, err := io.WriteString(w, strings.Join(fields, ",")+"\r\n"); err != nil {
			return err
		}
	}
	return nil
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportFilename names a CSV export taken at now.
func ExportFilename(slug string, now time.Time) string {
	return fmt.Sprintf("submissions-%s-%s.csv", slug, now.Format("2006-01-02T15-04-05"))
}
