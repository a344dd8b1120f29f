// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// WHY `json:"-"` ON PasswordHash?
// The dash tells encoding/json to NEVER serialize this field. Handlers return
// model.User directly in responses, so without the dash a bcrypt hash would
// leak to every client. The hash is opaque storage detail: it goes into the
// database at registration and comes back out for verification at login, and
// that is the only journey it ever makes.
//
// Username and email are unique across all accounts. Uniqueness is enforced
// by the database (UNIQUE constraints), not by in-process checks — two
// concurrent registrations for the same name cannot both succeed.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt hash — never serialized, never logged
	CreatedAt    time.Time `json:"createdAt"`
}
