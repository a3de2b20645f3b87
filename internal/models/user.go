package models

// User represents a user account in the system.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	// Password holds whatever the configured credential hasher produced:
	// a bcrypt hash, or the raw password in plain mode.
	Password string `json:"password"`
}
