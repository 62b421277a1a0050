package models

import "time"

// Test status constants
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// QuestionKind is SINGLE (choose one option) or TEXT (free response).
type QuestionKind string

const (
	KindSingle QuestionKind = "single"
	KindText   QuestionKind = "text"
)

// Valid reports whether k is a known kind.
func (k QuestionKind) Valid() bool {
	return k == KindSingle || k == KindText
}

// Request types

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type QuestionDraft struct {
	Text    string       `json:"text"`
	Kind    QuestionKind `json:"kind"`
	Options []string     `json:"options,omitempty"`
}

type CreateTestRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []QuestionDraft `json:"questions"`
}

type UpdateTestRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type CreateVersionRequest struct {
	Questions []QuestionDraft `json:"questions"`
}

type SetLinkActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// AnswerInput is one participant response: OptionID for single-choice
// questions, Text for free-text ones.
type AnswerInput struct {
	OptionID string `json:"option_id,omitempty"`
	Text     string `json:"text,omitempty"`
}

type SubmitRequest struct {
	Participant string                 `json:"participant"`
	Answers     map[string]AnswerInput `json:"answers"` // question_id -> answer
}

// Response types

type SignInResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionStateResponse struct {
	Authorized bool `json:"authorized"`
}

type CreateTestResponse struct {
	TestID  string `json:"test_id"`
	Slug    string `json:"slug"`
	Version int    `json:"version"`
}

type ShareResponse struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
	QRURL    string `json:"qr_url"`
	IsActive bool   `json:"is_active"`
	Version  int    `json:"version"`
}

type SubmitResponse struct {
	SubmissionID string `json:"submission_id"`
	Redirect     string `json:"redirect"`
}

// Domain types

type Test struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TestVersion struct {
	ID          string     `json:"id"`
	TestID      string     `json:"test_id"`
	Version     int        `json:"version"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsDraft reports whether the version has not been published yet.
func (v TestVersion) IsDraft() bool {
	return v.PublishedAt == nil
}

type Question struct {
	ID            string       `json:"id"`
	TestVersionID string       `json:"-"`
	Text          string       `json:"text"`
	Kind          QuestionKind `json:"kind"`
	Ord           int          `json:"ord"`
	Options       []Option     `json:"options,omitempty"`
}

type Option struct {
	ID         string `json:"id"`
	QuestionID string `json:"-"`
	Text       string `json:"text"`
	Ord        int    `json:"ord"`
}

type TestLink struct {
	ID            string    `json:"id"`
	TestVersionID string    `json:"test_version_id"`
	PublicID      string    `json:"public_id"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type Submission struct {
	ID            string    `json:"id"`
	TestVersionID string    `json:"test_version_id"`
	Participant   string    `json:"participant"`
	CreatedAt     time.Time `json:"created_at"`
}

type Answer struct {
	SubmissionID string  `json:"submission_id"`
	QuestionID   string  `json:"question_id"`
	OptionID     *string `json:"option_id,omitempty"`
	FreeText     *string `json:"free_text,omitempty"`
}

type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the authenticated admin attached to a request by the guard.
type Principal struct {
	ProfileID string
	Email     string
	SessionID string
}

// Composite views

type TestDetail struct {
	Test      Test        `json:"test"`
	Version   TestVersion `json:"version"`
	Questions []Question  `json:"questions"`
}

type TestSummary struct {
	Test            Test       `json:"test"`
	LatestVersion   int        `json:"latest_version"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	SubmissionCount int        `json:"submission_count"`
}

// PublicTest is what an anonymous participant sees through an active link.
type PublicTest struct {
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	Version       int        `json:"version"`
	Questions     []Question `json:"questions"`
	TestVersionID string     `json:"-"`
}

// Statistics

type OptionCount struct {
	OptionID string `json:"option_id"`
	Text     string `json:"text"`
	Count    int    `json:"count"`
}

type QuestionChart struct {
	QuestionID string        `json:"question_id"`
	Text       string        `json:"text"`
	Ord        int           `json:"ord"`
	Bars       []OptionCount `json:"bars"`
}

type Metrics struct {
	Total             int        `json:"total"`
	LastSubmissionAt  *time.Time `json:"last_submission_at"`
	LastSubmissionAgo string     `json:"last_submission_ago"`
}

type StatsResponse struct {
	Test        Test            `json:"test"`
	Version     TestVersion     `json:"version"`
	Metrics     Metrics         `json:"metrics"`
	Charts      []QuestionChart `json:"charts"`
	Submissions []Submission    `json:"submissions"`
}

type AnswerView struct {
	QuestionID   string       `json:"question_id"`
	QuestionText string       `json:"question_text"`
	Kind         QuestionKind `json:"kind"`
	Ord          int          `json:"ord"`
	OptionID     *string      `json:"option_id,omitempty"`
	OptionText   *string      `json:"option_text,omitempty"`
	FreeText     *string      `json:"free_text,omitempty"`
}

type SubmissionDetail struct {
	Submission Submission   `json:"submission"`
	Answers    []AnswerView `json:"answers"`
}

type DeletionReport struct {
	Answers     int `json:"answers"`
	Submissions int `json:"submissions"`
	Options     int `json:"options"`
	Questions   int `json:"questions"`
	Links       int `json:"links"`
	Versions    int `json:"versions"`
}

// Error response

type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}
