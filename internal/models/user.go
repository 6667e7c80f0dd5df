// Package models defines the data models persisted in the database and
// carried across the job queue.
package models

import "time"

// User is an account identified by a unique email. The password is stored
// as a bcrypt hash and never leaves the credential check.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
