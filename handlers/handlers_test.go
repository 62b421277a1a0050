// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/testutil"
)

// fixture wires every handler to one in-memory database
type fixture struct {
	db      *sql.DB
	cfg     cliparse.Config
	auth    *AuthHandler
	tests   *TestHandler
	shares  *ShareHandler
	public  *PublicHandler
	results *ResultsHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	return &fixture{
		db:      db,
		cfg:     cfg,
		auth:    NewAuthHandler(db, cfg),
		tests:   NewTestHandler(db, cfg),
		shares:  NewShareHandler(db, cfg),
		public:  NewPublicHandler(db, cfg),
		results: NewResultsHandler(db, cfg),
	}
}

// serve runs h on req after setting the given path values
func serve(h http.HandlerFunc, req *http.Request, pathValues ...string) *httptest.ResponseRecorder {
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func (f *fixture) createTest(t *testing.T, title string) models.CreateTestResponse {
	t.Helper()

	w := serve(f.tests.CreateTest, testutil.MakeRequest("POST", "/admin/tests", testutil.SampleTest(title), nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Create test failed: %d - %s", w.Code, w.Body.String())
	}

	var resp models.CreateTestResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func (f *fixture) issueLink(t *testing.T, slug string) models.ShareResponse {
	t.Helper()

	w := serve(f.shares.GetShare, testutil.MakeRequest("GET", "/admin/tests/"+slug+"/share", nil, nil), "slug", slug)
	if w.Code != http.StatusOK {
		t.Fatalf("Issue link failed: %d - %s", w.Code, w.Body.String())
	}

	var resp models.ShareResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func (f *fixture) loadForm(t *testing.T, publicID string) models.PublicTest {
	t.Helper()

	w := serve(f.public.GetPublicTest, testutil.MakeRequest("GET", "/t/"+publicID, nil, nil), "public_id", publicID)
	if w.Code != http.StatusOK {
		t.Fatalf("Load form failed: %d - %s", w.Code, w.Body.String())
	}

	var resp models.PublicTest
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func (f *fixture) submit(publicID string, req models.SubmitRequest) *httptest.ResponseRecorder {
	return serve(f.public.Submit, testutil.MakeRequest("POST", "/t/"+publicID+"/submissions", req, nil), "public_id", publicID)
}

// answersFor picks option choice[n] for the n-th single-choice question and
// fills every text question with text
func answersFor(pt models.PublicTest, participant string, choice []int, text string) models.SubmitRequest {
	req := models.SubmitRequest{Participant: participant, Answers: map[string]models.AnswerInput{}}
	n := 0
	for _, q := range pt.Questions {
		if q.Kind == models.KindSingle {
			req.Answers[q.ID] = models.AnswerInput{OptionID: q.Options[choice[n]].ID}
			n++
			continue
		}
		req.Answers[q.ID] = models.AnswerInput{Text: text}
	}
	return req
}

func assertMessage(t *testing.T, w *httptest.ResponseRecorder, expected string) {
	t.Helper()

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != expected {
		t.Errorf("Expected message %q, got %q", expected, resp.Message)
	}
}
