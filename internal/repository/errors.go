// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver specific errors.
package repository

import "errors"

// ErrNotFound is returned when the row addressed by an id does not
// exist. Services translate it into an entity specific "not found"
// message and handlers into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when inserting a user whose username is
// already taken. The database unique index is the final arbiter, so two
// concurrent signups for the same name cannot both succeed.
var ErrUsernameExists = errors.New("username already exists")
