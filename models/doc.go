// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SignInRequest: email, password
  - CreateTestRequest: title, description, questions ([]QuestionDraft)
  - UpdateTestRequest: optional title and description
  - CreateVersionRequest: questions for a new draft version
  - SetLinkActiveRequest: is_active
  - SubmitRequest: participant, answers (question_id -> AnswerInput)

# Response Types

  - SignInResponse: token, expires_at
  - SessionStateResponse: authorized
  - CreateTestResponse: test_id, slug, version
  - ShareResponse: public_id, url, qr_url, is_active, version
  - SubmitResponse: submission_id, redirect
  - StatsResponse: metrics, per-question charts, filtered submissions
  - SubmissionDetail: one submission with its answers
  - DeletionReport: rows removed per table
  - ErrorResponse: error, message, redirect

# Domain Types

One struct per table: Test, TestVersion, Question, Option, TestLink,
Submission, Answer, Profile. Principal is the signed-in admin the access
guard attaches to a request context.

# Constants

Test status values:

	StatusDraft     = "draft"
	StatusPublished = "published"

Question kinds:

	KindSingle QuestionKind = "single"
	KindText   QuestionKind = "text"
*/
package models
