package models

import "time"

// QuestionStatus is the moderation state of a flashcard question.
type QuestionStatus string

const (
	QuestionStatusActive   QuestionStatus = "active"
	QuestionStatusInactive QuestionStatus = "inactive"
	QuestionStatusPending  QuestionStatus = "pending"
)

// Valid reports whether the status is one of the known states.
func (s QuestionStatus) Valid() bool {
	switch s {
	case QuestionStatusActive, QuestionStatusInactive, QuestionStatusPending:
		return true
	}
	return false
}

// Question is a flashcard entry. UserID is nil for admin-created questions.
type Question struct {
	ID        string         `db:"id" json:"id"`
	Question  string         `db:"question" json:"question"`
	Answer    string         `db:"answer" json:"answer"`
	Status    QuestionStatus `db:"status" json:"status"`
	UserID    *string        `db:"user_id" json:"user_id,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// QuestionWithOwner flattens the owning user's identity into the question
// row for list views. Username falls back to "Unknown" for detached rows.
type QuestionWithOwner struct {
	Question
	Username  string `db:"username" json:"username"`
	UserEmail string `db:"user_email" json:"user_email"`
}

// CreateQuestionRequest is the payload for adding a single question. Status
// is honored for administrators only.
type CreateQuestionRequest struct {
	Question string         `json:"question" validate:"required"`
	Answer   string         `json:"answer" validate:"required"`
	Status   QuestionStatus `json:"status,omitempty"`
}

// UpdateQuestionRequest is the payload for editing a question.
type UpdateQuestionRequest struct {
	Question string         `json:"question" validate:"required"`
	Answer   string         `json:"answer" validate:"required"`
	Status   QuestionStatus `json:"status,omitempty"`
}

// BulkImportRequest carries newline-separated "question;answer" pairs.
type BulkImportRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// BulkImportResult summarizes a bulk import.
type BulkImportResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

// QuestionFilter captures filtering criteria for listing questions.
type QuestionFilter struct {
	Status    *QuestionStatus
	UserID    *string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
