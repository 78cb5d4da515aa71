package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/healthconnect-api/internal/apperr"
)

// statusOf maps an error kind to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrReference):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": message}. Server errors are logged
// in full and reach the client only as "internal error".
func writeError(c echo.Context, err error) error {
	status := statusOf(err)
	log := zerolog.Ctx(c.Request().Context())

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("route", c.Path()).Msg("request failed")
		return c.JSON(status, echo.Map{"error": "internal error"})
	}

	msg := apperr.Message(err, http.StatusText(status))
	log.Warn().Str("route", c.Path()).Int("status", status).Msg(msg)
	if status == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return c.JSON(status, echo.Map{"error": msg})
}

// HTTPErrorHandler renders errors raised by echo itself (unknown route,
// wrong method, recovered panic) in the same {"error": ...} shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = writeError(c, err)
		return
	}

	msg := http.StatusText(he.Code)
	if s, ok := he.Message.(string); ok && s != "" {
		msg = s
	}
	if he.Code >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("request failed")
		msg = "internal error"
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(he.Code)
		return
	}
	_ = c.JSON(he.Code, echo.Map{"error": msg})
}
