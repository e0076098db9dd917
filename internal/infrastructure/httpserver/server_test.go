package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avatarctic/petpal/internal/application/services"
	"github.com/avatarctic/petpal/internal/core/domain/auth"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/avatarctic/petpal/internal/infrastructure/httpserver"
	"github.com/avatarctic/petpal/internal/testutil/mocks"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validToken = "good-token"

// testEnv wires a Server over mocks and in-memory repositories.
type testEnv struct {
	srv      *httpserver.Server
	userID   uuid.UUID
	auth     *mocks.AuthServiceMock
	users    *mocks.UserServiceMock
	pets     *mocks.PetRepositoryMock
	events   *mocks.EventRepositoryMock
	content  *mocks.ContentServiceMock
	dir      *mocks.DirectoryServiceMock
	limiter  *mocks.RateLimiterServiceMock
	checkers []ports.HealthChecker
}

func newTestEnv(t *testing.T, opts ...func(*testEnv)) *testEnv {
	t.Helper()
	env := &testEnv{
		userID:  uuid.New(),
		users:   &mocks.UserServiceMock{},
		pets:    mocks.NewPetRepositoryMock(),
		events:  mocks.NewEventRepositoryMock(),
		content: &mocks.ContentServiceMock{},
		dir:     &mocks.DirectoryServiceMock{},
		limiter: &mocks.RateLimiterServiceMock{Limit: 100},
	}
	env.auth = &mocks.AuthServiceMock{StartSessionFn: func(ctx context.Context, token, ip, ua string) (*auth.Claims, error) {
		if token != validToken {
			return nil, errors.New("invalid token")
		}
		return &auth.Claims{UserID: env.userID, Username: "alice"}, nil
	}}
	for _, opt := range opts {
		opt(env)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	petService := services.NewPetService(env.pets, nil)
	env.srv = httpserver.NewServer(&httpserver.ServerConfig{Host: "127.0.0.1", Port: "0"}, logger, httpserver.ServerDeps{
		UserService:        env.users,
		AuthService:        env.auth,
		PetService:         petService,
		EventService:       services.NewEventService(env.events, petService, nil),
		DirectoryService:   env.dir,
		ContentService:     env.content,
		RateLimiterService: env.limiter,
		HealthCheckers:     env.checkers,
	})
	return env
}

// do sends a request through the echo router. A non-empty token is sent as a bearer token.
func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.srv.Echo().ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
	Code    string          `json:"code"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

type checker struct {
	name string
	err  error
}

func (c checker) Name() string                    { return c.name }
func (c checker) Check(ctx context.Context) error { return c.err }

func TestHealth(t *testing.T) {
	env := newTestEnv(t, func(e *testEnv) {
		e.checkers = []ports.HealthChecker{checker{name: "database"}, checker{name: "redis"}}
	})
	rec := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"service":"petpal"`)

	env = newTestEnv(t, func(e *testEnv) {
		e.checkers = []ports.HealthChecker{checker{name: "database"}, checker{name: "redis", err: errors.New("dial tcp: refused")}}
	})
	rec = env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"unhealthy"`)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/services?city=rome", nil, "")

	rec := env.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/user", "/api/pets", "/api/pets/events"} {
		rec := env.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec = env.do(t, http.MethodGet, path, nil, "forged")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

