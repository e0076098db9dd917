package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avatarctic/petpal/internal/core/domain/auth"
	"github.com/avatarctic/petpal/internal/infrastructure/httpserver/helpers"
	"github.com/avatarctic/petpal/internal/infrastructure/httpserver/middleware"
	"github.com/avatarctic/petpal/internal/testutil/mocks"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, code, he.Code)
}

func TestJWTMiddleware_MissingTokenReturns401(t *testing.T) {
	m := middleware.NewJWTMiddleware(&mocks.AuthServiceMock{}, nil)
	c, _ := newContext(httptest.NewRequest(http.MethodGet, "/", nil))

	requireHTTPError(t, m.RequireJWT()(ok)(c), http.StatusUnauthorized)
}

func TestJWTMiddleware_InvalidTokenReturns401(t *testing.T) {
	authMock := &mocks.AuthServiceMock{StartSessionFn: func(ctx context.Context, token, ip, ua string) (*auth.Claims, error) {
		return nil, errors.New("session expired due to inactivity")
	}}
	m := middleware.NewJWTMiddleware(authMock, logrus.New())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	c, _ := newContext(req)

	requireHTTPError(t, m.RequireJWT()(ok)(c), http.StatusUnauthorized)
}

func TestJWTMiddleware_SetsIdentity(t *testing.T) {
	userID := uuid.New()
	var gotIP, gotUA string
	authMock := &mocks.AuthServiceMock{StartSessionFn: func(ctx context.Context, token, ip, ua string) (*auth.Claims, error) {
		gotIP, gotUA = ip, ua
		return &auth.Claims{UserID: userID, Username: "alice"}, nil
	}}
	m := middleware.NewJWTMiddleware(authMock, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("User-Agent", "petpal-test")
	c, _ := newContext(req)

	require.NoError(t, m.RequireJWT()(func(c echo.Context) error {
		id, err := helpers.GetUserIDFromContext(c)
		require.NoError(t, err)
		assert.Equal(t, userID, id)
		name, _ := helpers.GetUsernameRaw(c)
		assert.Equal(t, "alice", name)
		token, err := helpers.GetJWTTokenFromContext(c)
		require.NoError(t, err)
		assert.Equal(t, "tok", token)
		return nil
	})(c))
	assert.Equal(t, "192.0.2.1", gotIP)
	assert.Equal(t, "petpal-test", gotUA)
}

func TestRateLimit(t *testing.T) {
	limiter := &mocks.RateLimiterServiceMock{Limit: 1}
	h := middleware.NewRateLimitMiddleware(limiter, nil).PerClientIP()(ok)

	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, h(c))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))

	c, _ = newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	requireHTTPError(t, h(c), http.StatusTooManyRequests)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "198.51.100.7:4000"
	c, _ = newContext(other)
	assert.NoError(t, h(c))
}

func TestRateLimit_FailsOpenAndNilLimiter(t *testing.T) {
	h := middleware.NewRateLimitMiddleware(&mocks.RateLimiterServiceMock{Err: errors.New("redis down")}, nil).PerClientIP()(ok)
	for i := 0; i < 3; i++ {
		c, _ := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NoError(t, h(c))
	}

	h = middleware.NewRateLimitMiddleware(nil, nil).PerClientIP()(ok)
	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NoError(t, h(c))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestMetricsAndLogging_RecordRenderedStatus(t *testing.T) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_requests_total"}, []string{"method", "path", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_request_duration_seconds"}, []string{"method", "path"})

	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)
	logger.SetFormatter(&logrus.JSONFormatter{})

	e := echo.New()
	e.Use(middleware.NewMetricsMiddleware(requests, duration).CollectHTTPMetrics())
	e.Use(middleware.NewLoggingMiddleware(logger).RequestLogging())
	e.GET("/pets/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pets/42", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(requests.WithLabelValues(http.MethodGet, "/pets/:id", "403")))
	assert.Contains(t, logs.String(), `"status":403`)
	assert.Contains(t, logs.String(), `"level":"warning"`)
}
