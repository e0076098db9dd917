package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	config "github.com/avatarctic/petpal/configs"
	impl "github.com/avatarctic/petpal/internal/application/services"
	"github.com/avatarctic/petpal/internal/core/domain/auth"
	"github.com/avatarctic/petpal/internal/core/domain/user"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/avatarctic/petpal/internal/testutil/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testJWT = &config.JWTConfig{
	Secret:          "test-secret",
	AccessTokenTTL:  15 * time.Minute,
	RefreshTokenTTL: 24 * time.Hour,
	SessionTimeout:  time.Hour,
}

// tokenState backs a TokenRepositoryMock with maps.
type tokenState struct {
	mu          sync.Mutex
	refresh     map[string]*ports.RefreshToken
	blacklisted map[string]bool
	claims      map[string]*auth.Claims
}

func newTokenRepo() (*mocks.TokenRepositoryMock, *tokenState) {
	st := &tokenState{
		refresh:     map[string]*ports.RefreshToken{},
		blacklisted: map[string]bool{},
		claims:      map[string]*auth.Claims{},
	}
	repo := &mocks.TokenRepositoryMock{
		StoreRefreshTokenFn: func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
			st.mu.Lock()
			defer st.mu.Unlock()
			st.refresh[token] = &ports.RefreshToken{ID: uuid.New(), UserID: userID, ExpiresAt: expiresAt}
			return nil
		},
		GetRefreshTokenFn: func(ctx context.Context, token string) (*ports.RefreshToken, error) {
			st.mu.Lock()
			defer st.mu.Unlock()
			rt, ok := st.refresh[token]
			if !ok {
				return nil, ports.ErrNotFound
			}
			return rt, nil
		},
		DeleteRefreshTokenFn: func(ctx context.Context, token string) error {
			st.mu.Lock()
			defer st.mu.Unlock()
			delete(st.refresh, token)
			return nil
		},
		BlacklistTokenFn: func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
			st.mu.Lock()
			defer st.mu.Unlock()
			st.blacklisted[token] = true
			return nil
		},
		IsTokenBlacklistedFn: func(ctx context.Context, token string) (bool, error) {
			st.mu.Lock()
			defer st.mu.Unlock()
			return st.blacklisted[token], nil
		},
		StoreTokenClaimsFn: func(ctx context.Context, tokenHash string, claims *auth.Claims, expiresAt time.Time) error {
			st.mu.Lock()
			defer st.mu.Unlock()
			cp := *claims
			st.claims[tokenHash] = &cp
			return nil
		},
		GetTokenClaimsFn: func(ctx context.Context, tokenHash string) (*auth.Claims, error) {
			st.mu.Lock()
			defer st.mu.Unlock()
			c, ok := st.claims[tokenHash]
			if !ok {
				return nil, ports.ErrNotFound
			}
			cp := *c
			return &cp, nil
		},
		DeleteTokenClaimsFn: func(ctx context.Context, tokenHash string) error {
			st.mu.Lock()
			defer st.mu.Unlock()
			delete(st.claims, tokenHash)
			return nil
		},
	}
	return repo, st
}

func newLoginUser(t *testing.T, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &user.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", PasswordHash: string(hash)}
}

func TestLogin_Success(t *testing.T) {
	u := newLoginUser(t, "secret123")
	var updated *user.User
	users := &mocks.UserRepositoryMock{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			if username == u.Username {
				return u, nil
			}
			return nil, ports.ErrNotFound
		},
		UpdateFn: func(ctx context.Context, uu *user.User) error { updated = uu; return nil },
	}
	tokens, st := newTokenRepo()
	svc := impl.NewAuthService(users, tokens, testJWT, nil)

	session, err := svc.Login(context.Background(), &auth.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, session.User.ID)
	assert.NotEmpty(t, session.Tokens.AccessToken)
	assert.NotEmpty(t, session.Tokens.RefreshToken)
	assert.EqualValues(t, 900, session.Tokens.ExpiresIn)
	require.NotNil(t, updated)
	assert.NotNil(t, updated.LastLoginAt)

	assert.Contains(t, st.claims, svc.GetTokenHash(session.Tokens.AccessToken))
	assert.Contains(t, st.refresh, session.Tokens.RefreshToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	u := newLoginUser(t, "secret123")
	users := &mocks.UserRepositoryMock{
		GetByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
			if username == u.Username {
				return u, nil
			}
			return nil, ports.ErrNotFound
		},
	}
	tokens, _ := newTokenRepo()
	svc := impl.NewAuthService(users, tokens, testJWT, nil)

	_, err := svc.Login(context.Background(), &auth.LoginRequest{Username: "alice", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &auth.LoginRequest{Username: "bob", Password: "secret123"})
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestStartSession_ValidatesAndRecordsActivity(t *testing.T) {
	u := &user.User{ID: uuid.New(), Username: "alice"}
	tokens, _ := newTokenRepo()
	var activityHash, activityIP string
	tokens.UpdateTokenActivityFn = func(ctx context.Context, tokenHash string, ip, ua string) error {
		activityHash, activityIP = tokenHash, ip
		return nil
	}
	svc := impl.NewAuthService(&mocks.UserRepositoryMock{}, tokens, testJWT, nil)

	issued, err := svc.GenerateTokens(context.Background(), u)
	require.NoError(t, err)

	claims, err := svc.StartSession(context.Background(), issued.AccessToken, "10.0.0.1", "curl")
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "10.0.0.1", claims.IPAddress)
	assert.Equal(t, svc.GetTokenHash(issued.AccessToken), activityHash)
	assert.Equal(t, "10.0.0.1", activityIP)
}

func TestStartSession_RejectsBadTokens(t *testing.T) {
	u := &user.User{ID: uuid.New(), Username: "alice"}
	tokens, st := newTokenRepo()
	svc := impl.NewAuthService(&mocks.UserRepositoryMock{}, tokens, testJWT, nil)

	_, err := svc.StartSession(context.Background(), "not-a-jwt", "", "")
	assert.Error(t, err)

	other := impl.NewAuthService(&mocks.UserRepositoryMock{}, tokens, &config.JWTConfig{Secret: "other", AccessTokenTTL: time.Minute, SessionTimeout: time.Hour}, nil)
	foreign, err := other.GenerateTokens(context.Background(), u)
	require.NoError(t, err)
	_, err = svc.StartSession(context.Background(), foreign.AccessToken, "", "")
	assert.Error(t, err)

	issued, err := svc.GenerateTokens(context.Background(), u)
	require.NoError(t, err)
	st.blacklisted[issued.AccessToken] = true
	_, err = svc.StartSession(context.Background(), issued.AccessToken, "", "")
	assert.ErrorContains(t, err, "blacklisted")
}

func TestStartSession_InactivityTimeout(t *testing.T) {
	u := &user.User{ID: uuid.New(), Username: "alice"}
	tokens, st := newTokenRepo()
	svc := impl.NewAuthService(&mocks.UserRepositoryMock{}, tokens, testJWT, nil)

	issued, err := svc.GenerateTokens(context.Background(), u)
	require.NoError(t, err)
	hash := svc.GetTokenHash(issued.AccessToken)
	st.claims[hash].LastActivity = time.Now().Add(-2 * time.Hour)

	_, err = svc.StartSession(context.Background(), issued.AccessToken, "", "")
	assert.ErrorContains(t, err, "inactivity")
	assert.NotContains(t, st.claims, hash)
	assert.True(t, st.blacklisted[issued.AccessToken])
}

func TestRefreshToken_IsSingleUse(t *testing.T) {
	u := &user.User{ID: uuid.New(), Username: "alice"}
	users := &mocks.UserRepositoryMock{GetByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
		if id == u.ID {
			return u, nil
		}
		return nil, ports.ErrNotFound
	}}
	tokens, _ := newTokenRepo()
	svc := impl.NewAuthService(users, tokens, testJWT, nil)

	issued, err := svc.GenerateTokens(context.Background(), u)
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(context.Background(), issued.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, issued.RefreshToken, rotated.RefreshToken)

	_, err = svc.RefreshToken(context.Background(), issued.RefreshToken)
	assert.Error(t, err)
}

func TestRefreshToken_ExpiredIsDeleted(t *testing.T) {
	tokens, st := newTokenRepo()
	owner := uuid.New()
	st.refresh["old"] = &ports.RefreshToken{UserID: owner, ExpiresAt: time.Now().Add(-time.Minute)}
	svc := impl.NewAuthService(&mocks.UserRepositoryMock{}, tokens, testJWT, nil)

	_, err := svc.RefreshToken(context.Background(), "old")
	assert.ErrorContains(t, err, "expired")
	assert.NotContains(t, st.refresh, "old")
}

func TestLogout_BlacklistsAndDropsClaims(t *testing.T) {
	u := &user.User{ID: uuid.New(), Username: "alice"}
	tokens, st := newTokenRepo()
	svc := impl.NewAuthService(&mocks.UserRepositoryMock{}, tokens, testJWT, nil)

	issued, err := svc.GenerateTokens(context.Background(), u)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), u.ID, issued.AccessToken))
	assert.True(t, st.blacklisted[issued.AccessToken])
	assert.NotContains(t, st.claims, svc.GetTokenHash(issued.AccessToken))

	_, err = svc.ValidateToken(context.Background(), issued.AccessToken)
	assert.Error(t, err)
}

func TestGetTokenHash_Deterministic(t *testing.T) {
	svc := impl.NewAuthService(nil, nil, testJWT, nil)
	h := svc.GetTokenHash("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, svc.GetTokenHash("abc"))
	assert.NotEqual(t, h, svc.GetTokenHash("abd"))
}
