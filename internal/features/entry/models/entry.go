package models

import "time"

// Entry is one row of giveaway_entries.
type Entry struct {
	ID            string    `json:"id" db:"id"`
	GiveawayID    string    `json:"giveaway_id" db:"giveaway_id"`
	GiveawayTitle *string   `json:"giveaway_title" db:"giveaway_title"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	Phone         string    `json:"phone" db:"phone"`
	Shared        bool      `json:"shared" db:"shared"`
	ShareCount    int       `json:"share_count" db:"share_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// SubmitRequest is the JSON body of a submission. Pointer fields
// distinguish "omitted or null" from a zero value.
type SubmitRequest struct {
	GiveawayID    string  `json:"giveaway_id" example:"spring-2024"`
	GiveawayTitle *string `json:"giveaway_title,omitempty" example:"Spring Giveaway"`
	Name          string  `json:"name" example:"Jo"`
	Email         string  `json:"email" example:"jo@example.com"`
	Phone         string  `json:"phone" example:"5551234567"`
	Shared        *bool   `json:"shared,omitempty" example:"false"`
	ShareCount    *int    `json:"share_count,omitempty" example:"0"`

	// InvalidFields lists fields whose JSON type cannot be stored (a number
	// for name, an object for share_count). Validation still runs first.
	InvalidFields []string `json:"-" swaggerignore:"true"`
}

// SubmitResponse is returned on a stored entry.
type SubmitResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Entry submitted successfully"`
	EntryID string `json:"entry_id" example:"5f0c6a3e-2b0e-4a52-9d3b-0a3c1f7c9e11"`
}

// ErrorResponse is returned on every failure.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid email format"`
}

// HealthResponse is returned by the health probe.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
