package models

// DefaultTaskStatus is the status every new task starts with.
const DefaultTaskStatus = "pending"

// Task is a single item on a user's list. Status is free-form.
type Task struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Status string `json:"status"`
}
