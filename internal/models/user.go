package models

import "time"

// UserStatus represents account standing. Inactive users keep their data but
// cannot log in or contribute questions.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents a registered contributor stored in the users table.
// QuestionsAdded is a lifetime counter: it is incremented when the user
// creates questions and never decremented on deletion.
type User struct {
	ID             string     `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	Email          string     `db:"email" json:"email"`
	Phone          string     `db:"phone" json:"phone"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	Status         UserStatus `db:"status" json:"status"`
	QuestionsAdded int        `db:"questions_added" json:"questions_added"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// UserProfile is the profile view of a user, including the computed count of
// their currently active questions (distinct from the lifetime counter).
type UserProfile struct {
	User
	ActiveQuestions int `json:"active_questions"`
}

// CreateUserRequest is the admin payload for creating a user directly.
type CreateUserRequest struct {
	Username string     `json:"username" validate:"required,min=3"`
	Email    string     `json:"email" validate:"required,email"`
	Phone    string     `json:"phone" validate:"required"`
	Password string     `json:"password" validate:"required,min=8"`
	Status   UserStatus `json:"status,omitempty"`
}

// UpdateUserRequest is the admin payload for editing a user.
type UpdateUserRequest struct {
	Username string     `json:"username" validate:"required,min=3"`
	Email    string     `json:"email" validate:"required,email"`
	Phone    string     `json:"phone" validate:"required"`
	Status   UserStatus `json:"status" validate:"required"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Status    *UserStatus
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
