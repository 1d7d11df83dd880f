package models

import "time"

// Settings is the application-wide singleton record. It is created lazily on
// first read and only ever mutated by the administrator.
type Settings struct {
	ID                     string    `db:"id" json:"id"`
	IsMaintenanceMode      bool      `db:"is_maintenance_mode" json:"is_maintenance_mode"`
	AllowUserRegistrations bool      `db:"allow_user_registrations" json:"allow_user_registrations"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// UpdateSettingsRequest carries settings changes. Nil fields are untouched.
type UpdateSettingsRequest struct {
	IsMaintenanceMode      *bool `json:"is_maintenance_mode,omitempty"`
	AllowUserRegistrations *bool `json:"allow_user_registrations,omitempty"`
}

// PublicSettings is the subset exposed to the unauthenticated app shell.
type PublicSettings struct {
	IsMaintenanceMode      bool `json:"is_maintenance_mode"`
	AllowUserRegistrations bool `json:"allow_user_registrations"`
}
