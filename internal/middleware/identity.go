package middleware

// identity.go defines helpers shared across middleware files for reading
// the authenticated user that BearerAuth stores in the Echo context.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// UserIDKey is the Echo context key holding the authenticated user id
// (uint64).
const UserIDKey = "user_id"

// UserID returns the authenticated user id, if any.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(UserIDKey).(uint64)
	return id, ok
}

// userKey renders the caller for rate limit keys; "anon" when nobody is
// authenticated.
func userKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
