package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/healthconnect-api/internal/apperr"
	"github.com/iliyamo/healthconnect-api/internal/dto"
)

// requestTimeout bounds the database work of a single request.
const requestTimeout = 5 * time.Second

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// bind decodes the JSON body into in. Decoding failures (malformed JSON,
// a date that is not YYYY-MM-DD, a string where a number belongs) are
// validation errors.
func bind(c echo.Context, in any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, in); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

// bindCredentials decodes and validates a username/password body.
func bindCredentials(c echo.Context) (dto.Credentials, error) {
	var in dto.Credentials
	if err := bind(c, &in); err != nil {
		return in, err
	}
	return in, dto.Validate(in)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter.
func queryID(c echo.Context, name string) (*uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, apperr.Validation("invalid %s", name)
	}
	return &id, nil
}
