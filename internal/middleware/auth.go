package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/healthconnect-api/internal/apperr"
)

// Authenticator resolves an Authorization header to a user id.
type Authenticator interface {
	Authenticate(header string) (uint64, error)
}

// BearerAuth rejects requests without a valid "Authorization: Bearer
// <token>" header and stores the resolved user id under UserIDKey.
func BearerAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, err := auth.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": apperr.Message(err, "unauthorized")})
			}
			c.Set(UserIDKey, uid)
			return next(c)
		}
	}
}
