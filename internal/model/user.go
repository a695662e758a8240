// Package model defines the data structures used throughout the application.
package model

import "time"

// DefaultCity is the preferred city assigned to new accounts that don't
// pick one at registration.
const DefaultCity = "Kathmandu"

// User represents a registered account.
//
// PasswordHash holds the bcrypt output for password accounts. Accounts
// created through GitHub sign-in have an empty hash — bcrypt comparison
// against an empty hash always fails, so those accounts can never be
// entered through the password form.
//
// WHY GitHubID int64 (and zero means "not linked")?
// GitHub user IDs are integers and stable for the lifetime of the account.
// The column is nullable; in Go a zero value stands in for NULL since
// GitHub never issues ID 0. A partial UNIQUE index on github_id guarantees
// one GitHub account maps to at most one local account.
type User struct {
	ID            string    `json:"id"            db:"id"`
	Username      string    `json:"username"      db:"username"`
	Email         string    `json:"email"         db:"email"`
	PasswordHash  string    `json:"-"             db:"password_hash"` // never serialized
	PreferredCity string    `json:"preferredCity" db:"preferred_city"`
	GitHubID      int64     `json:"-"             db:"github_id"` // 0 = not linked
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
}
