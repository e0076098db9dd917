package ports

import (
	"context"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/auth"
	"github.com/avatarctic/petpal/internal/core/domain/user"
	"github.com/google/uuid"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, userID uuid.UUID, token string) error
	GenerateTokens(ctx context.Context, user *user.User) (*auth.AuthTokens, error)

	// StartSession validates the token and records activity on its session claims.
	StartSession(ctx context.Context, token string, ipAddress, userAgent string) (*auth.Claims, error)
	GetTokenHash(token string) string
}

// TokenRepository defines the interface for token storage operations
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	BlacklistToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error

	// Session claims keyed by access token hash
	StoreTokenClaims(ctx context.Context, tokenHash string, claims *auth.Claims, expiresAt time.Time) error
	GetTokenClaims(ctx context.Context, tokenHash string) (*auth.Claims, error)
	UpdateTokenActivity(ctx context.Context, tokenHash string, ipAddress, userAgent string) error
	DeleteTokenClaims(ctx context.Context, tokenHash string) error
}

// TokenMaintenance is the cleanup surface used by scheduled jobs.
type TokenMaintenance interface {
	DeleteExpiredRefreshTokens(ctx context.Context) (int64, error)
	DeleteExpiredBlacklistedTokens(ctx context.Context) (int64, error)
	DeleteExpiredTokenClaims(ctx context.Context) (int64, error)
}

// RefreshToken represents a stored refresh token
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	TokenHash string    `json:"token_hash" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
