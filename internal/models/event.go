package models

import "time"

// Event types recorded in the activity log.
const (
	EventUserSignup  = "user.signup"
	EventUserLogin   = "user.login"
	EventUserLogout  = "user.logout"
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

// Event represents a loggable action taken by a user.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"` // e.g., "task.created", "user.login"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
