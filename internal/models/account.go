package models

import "time"

// Account is a registered user. PasswordHash never leaves the server.
type Account struct {
	ID           string    `json:"id" db:"id"`
	OrgID        string    `json:"organization_id" db:"org_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
