package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Users are unrelated to the clinical entities; they only exist
// to authenticate API callers.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password, never serialised.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
