package mocks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/auth"
	"github.com/avatarctic/petpal/internal/core/domain/content"
	"github.com/avatarctic/petpal/internal/core/domain/directory"
	"github.com/avatarctic/petpal/internal/core/domain/user"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/google/uuid"
)

// AIQueryClientMock records every query it receives.
type AIQueryClientMock struct {
	QueryFn func(ctx context.Context, q ports.AIQuery) (string, error)

	mu      sync.Mutex
	Queries []ports.AIQuery
	Calls   atomic.Int32
}

func (m *AIQueryClientMock) Query(ctx context.Context, q ports.AIQuery) (string, error) {
	m.Calls.Add(1)
	m.mu.Lock()
	m.Queries = append(m.Queries, q)
	m.mu.Unlock()
	if m.QueryFn != nil {
		return m.QueryFn(ctx, q)
	}
	return "", fmt.Errorf("no answer configured")
}

// LastQuery returns the most recent query, or the zero value.
func (m *AIQueryClientMock) LastQuery() ports.AIQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Queries) == 0 {
		return ports.AIQuery{}
	}
	return m.Queries[len(m.Queries)-1]
}

// EmailServiceMock records welcome recipients.
type EmailServiceMock struct {
	mu         sync.Mutex
	Recipients []string
	Err        error
}

func (m *EmailServiceMock) SendWelcomeEmail(_ context.Context, email, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Recipients = append(m.Recipients, email)
	return m.Err
}

// AuthServiceMock is a lightweight mock of AuthService for handler tests
type AuthServiceMock struct {
	LoginFn          func(ctx context.Context, req *auth.LoginRequest) (*auth.Session, error)
	RefreshTokenFn   func(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	ValidateTokenFn  func(ctx context.Context, token string) (*auth.Claims, error)
	LogoutFn         func(ctx context.Context, userID uuid.UUID, token string) error
	GenerateTokensFn func(ctx context.Context, u *user.User) (*auth.AuthTokens, error)
	StartSessionFn   func(ctx context.Context, token, ip, ua string) (*auth.Claims, error)
}

func (m *AuthServiceMock) Login(ctx context.Context, req *auth.LoginRequest) (*auth.Session, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req)
	}
	return nil, ports.ErrInvalidCredentials
}
func (m *AuthServiceMock) RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error) {
	if m.RefreshTokenFn != nil {
		return m.RefreshTokenFn(ctx, refreshToken)
	}
	return nil, fmt.Errorf("invalid refresh token")
}
func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return nil, fmt.Errorf("invalid token")
}
func (m *AuthServiceMock) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, userID, token)
	}
	return nil
}
func (m *AuthServiceMock) GenerateTokens(ctx context.Context, u *user.User) (*auth.AuthTokens, error) {
	if m.GenerateTokensFn != nil {
		return m.GenerateTokensFn(ctx, u)
	}
	return &auth.AuthTokens{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}, nil
}
func (m *AuthServiceMock) StartSession(ctx context.Context, token, ip, ua string) (*auth.Claims, error) {
	if m.StartSessionFn != nil {
		return m.StartSessionFn(ctx, token, ip, ua)
	}
	return nil, fmt.Errorf("invalid token")
}
func (m *AuthServiceMock) GetTokenHash(token string) string { return "hash-" + token }

// UserServiceMock is a lightweight mock of UserService
type UserServiceMock struct {
	RegisterFn      func(ctx context.Context, req *user.RegisterRequest) (*user.User, error)
	GetUserFn       func(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateProfileFn func(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error)
}

func (m *UserServiceMock) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, req)
	}
	return &user.User{ID: uuid.New(), Username: req.Username, Email: req.Email, FullName: req.FullName, Location: req.Location}, nil
}
func (m *UserServiceMock) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return nil, ports.ErrNotFound
}
func (m *UserServiceMock) UpdateProfile(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, id, req)
	}
	return nil, ports.ErrNotFound
}

// ContentServiceMock captures the arguments of the last call.
type ContentServiceMock struct {
	GetServiceListingFn func(ctx context.Context, city, category string) (*content.Record, error)
	GetPetCareGuideFn   func(ctx context.Context, topic, city string) (*content.Record, error)

	LastCity     string
	LastCategory string
	LastTopic    string
}

func (m *ContentServiceMock) GetServiceListing(ctx context.Context, city, category string) (*content.Record, error) {
	m.LastCity, m.LastCategory = city, category
	if m.GetServiceListingFn != nil {
		return m.GetServiceListingFn(ctx, city, category)
	}
	return &content.Record{Location: city, Topic: category, Content: []byte(`{"services":[]}`), FetchedAt: time.Now()}, nil
}
func (m *ContentServiceMock) GetPetCareGuide(ctx context.Context, topic, city string) (*content.Record, error) {
	m.LastTopic, m.LastCity = topic, city
	if m.GetPetCareGuideFn != nil {
		return m.GetPetCareGuideFn(ctx, topic, city)
	}
	return &content.Record{Location: city, Topic: topic, Content: []byte(`{"summary":"s","sections":[],"tips":[],"resources":[]}`), FetchedAt: time.Now()}, nil
}

// DirectoryServiceMock returns fixed providers and city articles.
type DirectoryServiceMock struct {
	Providers []*directory.Provider
	CityInfo  []*directory.CityInfo
	Err       error
}

func (m *DirectoryServiceMock) ListProviders(context.Context, string, string) ([]*directory.Provider, error) {
	return m.Providers, m.Err
}
func (m *DirectoryServiceMock) GetProvider(_ context.Context, id uuid.UUID) (*directory.Provider, error) {
	for _, p := range m.Providers {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ports.ErrNotFound
}
func (m *DirectoryServiceMock) ListCityInfo(context.Context, string, string) ([]*directory.CityInfo, error) {
	return m.CityInfo, m.Err
}

// RateLimiterServiceMock allows the first Limit calls per subject.
type RateLimiterServiceMock struct {
	mu     sync.Mutex
	Limit  int
	Counts map[string]int
	Err    error
}

func (m *RateLimiterServiceMock) Allow(_ context.Context, subject string) (bool, int, int, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Counts == nil {
		m.Counts = make(map[string]int)
	}
	m.Counts[subject]++
	reset := time.Now().Add(time.Minute)
	if m.Err != nil {
		return true, m.Limit, m.Limit, reset, m.Err
	}
	if m.Counts[subject] > m.Limit {
		return false, 0, m.Limit, reset, nil
	}
	return true, m.Limit - m.Counts[subject], m.Limit, reset, nil
}

var (
	_ ports.AuthService         = (*AuthServiceMock)(nil)
	_ ports.UserService         = (*UserServiceMock)(nil)
	_ ports.ContentService      = (*ContentServiceMock)(nil)
	_ ports.DirectoryService    = (*DirectoryServiceMock)(nil)
	_ ports.RateLimiterService  = (*RateLimiterServiceMock)(nil)
	_ ports.AIQueryClient       = (*AIQueryClientMock)(nil)
	_ ports.EmailService        = (*EmailServiceMock)(nil)
	_ ports.ContentStore        = (*ContentStoreMock)(nil)
	_ ports.Cache               = (*CacheMock)(nil)
	_ ports.PetRepository       = (*PetRepositoryMock)(nil)
	_ ports.EventRepository     = (*EventRepositoryMock)(nil)
	_ ports.UserRepository      = (*UserRepositoryMock)(nil)
	_ ports.TokenRepository     = (*TokenRepositoryMock)(nil)
	_ ports.TokenMaintenance    = (*TokenRepositoryMock)(nil)
	_ ports.ProviderRepository  = (*ProviderRepositoryMock)(nil)
	_ ports.CityInfoRepository  = (*CityInfoRepositoryMock)(nil)
	_ ports.RateLimitRepository = (*RateLimitRepositoryMock)(nil)
)
