package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/healthconnect-api/internal/apperr"
	"github.com/iliyamo/healthconnect-api/internal/config"
)

type fakeAuth struct {
	tokens map[string]uint64
}

func (f fakeAuth) Authenticate(header string) (uint64, error) {
	if header == "" {
		return 0, apperr.Unauthorized("missing or invalid authorization header")
	}
	if id, ok := f.tokens[header]; ok {
		return id, nil
	}
	return 0, apperr.Unauthorized("invalid token")
}

func whoami(c echo.Context) error {
	id, ok := UserID(c)
	if !ok {
		return c.String(http.StatusOK, "anon")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

func TestBearerAuth(t *testing.T) {
	e := echo.New()
	e.GET("/me", whoami, BearerAuth(fakeAuth{tokens: map[string]uint64{"Bearer good": 7}}))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, `{"error":"missing or invalid authorization header"}`},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, `{"error":"invalid token"}`},
		{"valid token", "Bearer good", http.StatusOK, `{"id":7}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			}
		})
	}
}

func TestCorrelationIDKeepsUpstreamID(t *testing.T) {
	e := echo.New()
	e.Use(CorrelationID(zerolog.Nop()))
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = GetRequestID(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
}

func TestCorrelationIDGeneratesID(t *testing.T) {
	e := echo.New()
	e.Use(CorrelationID(zerolog.Nop()))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestRequestLoggingWritesOneLine(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	e := echo.New()
	e.Use(CorrelationID(logger), RequestLogging())
	e.GET("/doctors/:id", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctors/3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "/doctors/3", line["path"])
	assert.Equal(t, "/doctors/:id", line["route"])
	assert.EqualValues(t, 200, line["status"])
	assert.NotEmpty(t, line["request_id"])
}

func TestRequestLoggingRendersHandlerErrors(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(CorrelationID(zerolog.New(&buf)), RequestLogging())
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func rateConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
}

func TestTokenBucketMemoryFallback(t *testing.T) {
	e := echo.New()
	e.GET("/doctors", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		NewTokenBucket(rateConfig(), nil, zerolog.Nop()))

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/doctors", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)

	blocked := do("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	assert.Equal(t, "2", blocked.Header().Get("X-RateLimit-Limit"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(blocked.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body["error"])

	// Buckets are per key.
	assert.Equal(t, http.StatusOK, do("10.0.0.2").Code)
}

func TestTokenBucketDisabled(t *testing.T) {
	cfg := rateConfig()
	cfg.Enabled = false
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		NewTokenBucket(cfg, nil, zerolog.Nop()))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	req.RemoteAddr = "192.0.2.9:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/appointments")

	cfg := rateConfig()
	cfg.KeyStrategy = "ip_user_route"
	assert.Equal(t, "rl:ip:192.0.2.9:user:anon:route:GET /appointments", buildRateKey(cfg, c))

	c.Set(UserIDKey, uint64(4))
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:4", buildRateKey(cfg, c))
}

func TestCacheKeyIsScopedByResource(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	key := func(path, route string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder())
		c.SetPath(route)
		return cacheKeyFrom(cfg, c)
	}

	a := key("/patient_records/1", "/patient_records/:patient_id")
	b := key("/patient_records/2", "/patient_records/:patient_id")
	assert.Regexp(t, `^cache:patient_records:[0-9a-f]{40}$`, a)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, key("/appointments?doctor_id=1", "/appointments"), key("/appointments?doctor_id=2", "/appointments"))
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[]`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `[]`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestCacheWithoutRedisPassesThrough(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, Prefix: "cache"}
	e := echo.New()
	calls := 0
	h := func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, []int{})
	}
	e.GET("/doctors", h, NewRedisCache(cfg, nil, zerolog.Nop()))
	e.POST("/doctors", h, InvalidateOnWrite(cfg, nil, zerolog.Nop()))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctors", nil))
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/doctors", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, calls)
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "doctors", resourceOf("/doctors/:id"))
	assert.Equal(t, "appointments", resourceOf("/appointments"))
	assert.Equal(t, "", resourceOf("/"))
	assert.ElementsMatch(t, []string{"doctors", "patient_records", "appointments"}, dependents["doctors"])
}
