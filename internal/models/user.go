// Package models contains data structures for the application's domain models.
package models

// User represents a registered account. The password hash never leaves the
// server; timestamps are carried as the store's DATETIME text.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	HashedPassword string `json:"-"`
	DisplayName    string `json:"display_name"`
	CreatedAt      string `json:"created_at,omitempty"`
}
