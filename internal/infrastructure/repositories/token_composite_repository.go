package repositories

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/auth"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/google/uuid"
)

var (
	_ ports.TokenRepository  = (*TokenRepository)(nil)
	_ ports.TokenMaintenance = (*TokenRepository)(nil)
)

// TokenRepository combines database storage for refresh tokens and
// blacklisted tokens with Redis storage for session claims.
type TokenRepository struct {
	dbRepo    *TokenDBRepository
	redisRepo *TokenRedisRepository
}

func NewTokenRepository(dbRepo *TokenDBRepository, redisRepo *TokenRedisRepository) *TokenRepository {
	return &TokenRepository{dbRepo: dbRepo, redisRepo: redisRepo}
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h[:])
}

func (r *TokenRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	return r.dbRepo.storeRefreshToken(ctx, userID, hashToken(token), expiresAt)
}

func (r *TokenRepository) GetRefreshToken(ctx context.Context, token string) (*ports.RefreshToken, error) {
	return r.dbRepo.getRefreshToken(ctx, hashToken(token))
}

func (r *TokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	return r.dbRepo.deleteRefreshToken(ctx, hashToken(token))
}

func (r *TokenRepository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return r.dbRepo.isTokenBlacklisted(ctx, hashToken(token))
}

func (r *TokenRepository) BlacklistToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	return r.dbRepo.blacklistToken(ctx, userID, hashToken(token), expiresAt)
}

// Session claims are keyed by the hash the auth service already computed.
func (r *TokenRepository) StoreTokenClaims(ctx context.Context, tokenHash string, claims *auth.Claims, expiresAt time.Time) error {
	return r.redisRepo.storeTokenClaims(ctx, tokenHash, claims, expiresAt)
}

func (r *TokenRepository) GetTokenClaims(ctx context.Context, tokenHash string) (*auth.Claims, error) {
	return r.redisRepo.getTokenClaims(ctx, tokenHash)
}

func (r *TokenRepository) UpdateTokenActivity(ctx context.Context, tokenHash string, ipAddress, userAgent string) error {
	return r.redisRepo.updateTokenActivity(ctx, tokenHash, ipAddress, userAgent)
}

func (r *TokenRepository) DeleteTokenClaims(ctx context.Context, tokenHash string) error {
	return r.redisRepo.deleteTokenClaims(ctx, tokenHash)
}

func (r *TokenRepository) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	return r.dbRepo.deleteExpired(ctx, "refresh_tokens")
}

func (r *TokenRepository) DeleteExpiredBlacklistedTokens(ctx context.Context) (int64, error) {
	return r.dbRepo.deleteExpired(ctx, "blacklisted_tokens")
}

func (r *TokenRepository) DeleteExpiredTokenClaims(ctx context.Context) (int64, error) {
	return r.redisRepo.deleteDanglingTokenClaims(ctx)
}
