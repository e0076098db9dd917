package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/auth"
	"github.com/avatarctic/petpal/internal/core/domain/content"
	"github.com/avatarctic/petpal/internal/core/domain/directory"
	"github.com/avatarctic/petpal/internal/core/domain/pet"
	"github.com/avatarctic/petpal/internal/core/domain/user"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/google/uuid"
)

// TokenRepositoryMock is a lightweight mock for TokenRepository and TokenMaintenance
type TokenRepositoryMock struct {
	StoreRefreshTokenFn    func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshTokenFn      func(ctx context.Context, token string) (*ports.RefreshToken, error)
	DeleteRefreshTokenFn   func(ctx context.Context, token string) error
	BlacklistTokenFn       func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	IsTokenBlacklistedFn   func(ctx context.Context, token string) (bool, error)
	StoreTokenClaimsFn     func(ctx context.Context, tokenHash string, claims *auth.Claims, expiresAt time.Time) error
	GetTokenClaimsFn       func(ctx context.Context, tokenHash string) (*auth.Claims, error)
	DeleteTokenClaimsFn    func(ctx context.Context, tokenHash string) error
	UpdateTokenActivityFn  func(ctx context.Context, tokenHash string, ipAddress, userAgent string) error
	DeleteExpiredRefreshFn func(ctx context.Context) (int64, error)
	DeleteExpiredBlackFn   func(ctx context.Context) (int64, error)
	DeleteExpiredClaimsFn  func(ctx context.Context) (int64, error)
}

func (m *TokenRepositoryMock) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if m.StoreRefreshTokenFn != nil {
		return m.StoreRefreshTokenFn(ctx, userID, token, expiresAt)
	}
	return nil
}
func (m *TokenRepositoryMock) GetRefreshToken(ctx context.Context, token string) (*ports.RefreshToken, error) {
	if m.GetRefreshTokenFn != nil {
		return m.GetRefreshTokenFn(ctx, token)
	}
	return nil, ports.ErrNotFound
}
func (m *TokenRepositoryMock) DeleteRefreshToken(ctx context.Context, token string) error {
	if m.DeleteRefreshTokenFn != nil {
		return m.DeleteRefreshTokenFn(ctx, token)
	}
	return nil
}
func (m *TokenRepositoryMock) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if m.IsTokenBlacklistedFn != nil {
		return m.IsTokenBlacklistedFn(ctx, token)
	}
	return false, nil
}
func (m *TokenRepositoryMock) BlacklistToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if m.BlacklistTokenFn != nil {
		return m.BlacklistTokenFn(ctx, userID, token, expiresAt)
	}
	return nil
}
func (m *TokenRepositoryMock) StoreTokenClaims(ctx context.Context, tokenHash string, claims *auth.Claims, expiresAt time.Time) error {
	if m.StoreTokenClaimsFn != nil {
		return m.StoreTokenClaimsFn(ctx, tokenHash, claims, expiresAt)
	}
	return nil
}
func (m *TokenRepositoryMock) GetTokenClaims(ctx context.Context, tokenHash string) (*auth.Claims, error) {
	if m.GetTokenClaimsFn != nil {
		return m.GetTokenClaimsFn(ctx, tokenHash)
	}
	return nil, ports.ErrNotFound
}
func (m *TokenRepositoryMock) UpdateTokenActivity(ctx context.Context, tokenHash string, ipAddress, userAgent string) error {
	if m.UpdateTokenActivityFn != nil {
		return m.UpdateTokenActivityFn(ctx, tokenHash, ipAddress, userAgent)
	}
	return nil
}
func (m *TokenRepositoryMock) DeleteTokenClaims(ctx context.Context, tokenHash string) error {
	if m.DeleteTokenClaimsFn != nil {
		return m.DeleteTokenClaimsFn(ctx, tokenHash)
	}
	return nil
}
func (m *TokenRepositoryMock) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	if m.DeleteExpiredRefreshFn != nil {
		return m.DeleteExpiredRefreshFn(ctx)
	}
	return 0, nil
}
func (m *TokenRepositoryMock) DeleteExpiredBlacklistedTokens(ctx context.Context) (int64, error) {
	if m.DeleteExpiredBlackFn != nil {
		return m.DeleteExpiredBlackFn(ctx)
	}
	return 0, nil
}
func (m *TokenRepositoryMock) DeleteExpiredTokenClaims(ctx context.Context) (int64, error) {
	if m.DeleteExpiredClaimsFn != nil {
		return m.DeleteExpiredClaimsFn(ctx)
	}
	return 0, nil
}

// UserRepositoryMock falls back to ErrNotFound for lookups.
type UserRepositoryMock struct {
	CreateFn        func(ctx context.Context, u *user.User) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*user.User, error)
	GetByEmailFn    func(ctx context.Context, email string) (*user.User, error)
	UpdateFn        func(ctx context.Context, u *user.User) error
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ports.ErrNotFound
}
func (m *UserRepositoryMock) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, ports.ErrNotFound
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, ports.ErrNotFound
}
func (m *UserRepositoryMock) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	return nil
}

// PetRepositoryMock is an in-memory pet store; Fn fields override it.
type PetRepositoryMock struct {
	mu   sync.Mutex
	Pets map[uuid.UUID]*pet.Pet

	CreateFn func(ctx context.Context, p *pet.Pet) error
}

func NewPetRepositoryMock(pets ...*pet.Pet) *PetRepositoryMock {
	m := &PetRepositoryMock{Pets: make(map[uuid.UUID]*pet.Pet)}
	for _, p := range pets {
		m.Pets[p.ID] = p
	}
	return m
}

func (m *PetRepositoryMock) Create(ctx context.Context, p *pet.Pet) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.Pets[p.ID] = &cp
	return nil
}
func (m *PetRepositoryMock) GetByID(_ context.Context, id uuid.UUID) (*pet.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Pets[id]
	if !ok {
		return nil, fmt.Errorf("pet %s: %w", id, ports.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}
func (m *PetRepositoryMock) ListByUser(_ context.Context, userID uuid.UUID) ([]*pet.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*pet.Pet{}
	for _, p := range m.Pets {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (m *PetRepositoryMock) Update(_ context.Context, p *pet.Pet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Pets[p.ID]; !ok {
		return ports.ErrNotFound
	}
	cp := *p
	m.Pets[p.ID] = &cp
	return nil
}
func (m *PetRepositoryMock) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Pets[id]; !ok {
		return ports.ErrNotFound
	}
	delete(m.Pets, id)
	return nil
}

// EventRepositoryMock is an in-memory event store that records the last list filter.
type EventRepositoryMock struct {
	mu         sync.Mutex
	Events     map[uuid.UUID]*pet.Event
	LastFilter pet.EventFilter
}

func NewEventRepositoryMock(events ...*pet.Event) *EventRepositoryMock {
	m := &EventRepositoryMock{Events: make(map[uuid.UUID]*pet.Event)}
	for _, e := range events {
		m.Events[e.ID] = e
	}
	return m
}

func (m *EventRepositoryMock) Create(_ context.Context, e *pet.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.Events[e.ID] = &cp
	return nil
}
func (m *EventRepositoryMock) GetByID(_ context.Context, id uuid.UUID) (*pet.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, ports.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}
func (m *EventRepositoryMock) ListByUser(_ context.Context, userID uuid.UUID, filter pet.EventFilter) ([]*pet.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFilter = filter
	out := []*pet.Event{}
	for _, e := range m.Events {
		if e.UserID != userID || (filter.PetID != nil && e.PetID != *filter.PetID) {
			continue
		}
		if !filter.From.IsZero() && e.StartDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !e.StartDate.Before(filter.To) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}
func (m *EventRepositoryMock) Update(_ context.Context, e *pet.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.Events[e.ID] = &cp
	return nil
}
func (m *EventRepositoryMock) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Events, id)
	return nil
}

// ProviderRepositoryMock counts List calls.
type ProviderRepositoryMock struct {
	CreateFn  func(ctx context.Context, p *directory.Provider) error
	ListFn    func(ctx context.Context, filter directory.Filter) ([]*directory.Provider, error)
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*directory.Provider, error)
	ListCalls atomic.Int32
}

func (m *ProviderRepositoryMock) Create(ctx context.Context, p *directory.Provider) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}
func (m *ProviderRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*directory.Provider, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ports.ErrNotFound
}
func (m *ProviderRepositoryMock) List(ctx context.Context, filter directory.Filter) ([]*directory.Provider, error) {
	m.ListCalls.Add(1)
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*directory.Provider{}, nil
}

// CityInfoRepositoryMock returns ListFn's result or an empty list.
type CityInfoRepositoryMock struct {
	CreateFn func(ctx context.Context, info *directory.CityInfo) error
	ListFn   func(ctx context.Context, filter directory.Filter) ([]*directory.CityInfo, error)
}

func (m *CityInfoRepositoryMock) Create(ctx context.Context, info *directory.CityInfo) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, info)
	}
	return nil
}
func (m *CityInfoRepositoryMock) List(ctx context.Context, filter directory.Filter) ([]*directory.CityInfo, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*directory.CityInfo{}, nil
}

// ContentStoreMock wraps an in-memory map and counts calls per method.
type ContentStoreMock struct {
	mu      sync.Mutex
	Records map[content.Key]content.Record

	FindFn   func(ctx context.Context, key content.Key) (*content.Record, bool, error)
	UpsertFn func(ctx context.Context, key content.Key, payload json.RawMessage, fetchedAt time.Time) (*content.Record, error)

	FindCalls   atomic.Int32
	UpsertCalls atomic.Int32
}

func NewContentStoreMock() *ContentStoreMock {
	return &ContentStoreMock{Records: make(map[content.Key]content.Record)}
}

// Seed stores a record directly, bypassing call counters.
func (m *ContentStoreMock) Seed(rec content.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records[rec.Key()] = rec
}

// Get returns the stored record for key, bypassing call counters.
func (m *ContentStoreMock) Get(key content.Key) (content.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.Records[key]
	return rec, ok
}

func (m *ContentStoreMock) Find(ctx context.Context, key content.Key) (*content.Record, bool, error) {
	m.FindCalls.Add(1)
	if m.FindFn != nil {
		return m.FindFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.Records[key]
	if !ok {
		return nil, false, nil
	}
	return &rec, true, nil
}

func (m *ContentStoreMock) Upsert(ctx context.Context, key content.Key, payload json.RawMessage, fetchedAt time.Time) (*content.Record, error) {
	m.UpsertCalls.Add(1)
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, key, payload, fetchedAt)
	}
	rec := content.Record{Location: key.Location, Topic: key.Topic, Content: payload, FetchedAt: fetchedAt}
	m.mu.Lock()
	m.Records[key] = rec
	m.mu.Unlock()
	return &rec, nil
}

// CacheMock is an in-memory ports.Cache. Err, when set, fails every call.
type CacheMock struct {
	mu   sync.Mutex
	Data map[string][]byte
	TTLs map[string]time.Duration
	Err  error
}

func NewCacheMock() *CacheMock {
	return &CacheMock{Data: make(map[string][]byte), TTLs: make(map[string]time.Duration)}
}

func (c *CacheMock) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, false, c.Err
	}
	v, ok := c.Data[key]
	return v, ok, nil
}
func (c *CacheMock) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.Data[key] = append([]byte(nil), value...)
	c.TTLs[key] = ttl
	return nil
}
func (c *CacheMock) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	delete(c.Data, key)
	delete(c.TTLs, key)
	return nil
}

// RateLimitRepositoryMock counts per subject in a single window.
type RateLimitRepositoryMock struct {
	mu     sync.Mutex
	Counts map[string]int
	Err    error
	Now    time.Time
}

func (m *RateLimitRepositoryMock) IncrementWindow(_ context.Context, subject string, window time.Duration, _ string, _ time.Duration) (int, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.Now
	if now.IsZero() {
		now = time.Now()
	}
	start := now.Truncate(window)
	if m.Err != nil {
		return 0, start, m.Err
	}
	if m.Counts == nil {
		m.Counts = make(map[string]int)
	}
	m.Counts[subject]++
	return m.Counts[subject], start, nil
}
