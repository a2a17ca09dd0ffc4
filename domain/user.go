package domain

import "time"

// User represents a registered identity in the marketplace.
type User struct {
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Mobile         string    `json:"mobile,omitempty"`
	PasswordHash   string    `json:"-"`
	CompletedTasks int       `json:"completed_tasks"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
