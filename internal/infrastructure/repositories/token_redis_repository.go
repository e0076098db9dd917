package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/auth"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const tokenPrefix = "petpal_tokens"

func tokenKey(tokenHash string) string { return fmt.Sprintf("%s:token:%s", tokenPrefix, tokenHash) }

func userTokensKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:user:%s:tokens", tokenPrefix, userID)
}

// TokenRedisRepository stores session claims per access token hash, plus a
// per-user set of hashes for cleanup.
type TokenRedisRepository struct {
	client redis.Cmdable
	logger *logrus.Logger
}

func NewTokenRedisRepository(client redis.Cmdable, logger *logrus.Logger) *TokenRedisRepository {
	return &TokenRedisRepository{client: client, logger: logger}
}

func (r *TokenRedisRepository) storeTokenClaims(ctx context.Context, tokenHash string, claims *auth.Claims, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token already expired")
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("failed to marshal claims: %w", err)
	}

	userKey := userTokensKey(claims.UserID)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, tokenKey(tokenHash), data, ttl)
	pipe.SAdd(ctx, userKey, tokenHash)
	pipe.Expire(ctx, userKey, ttl+time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store token claims in Redis: %w", err)
	}
	return nil
}

func (r *TokenRedisRepository) getTokenClaims(ctx context.Context, tokenHash string) (*auth.Claims, error) {
	data, err := r.client.Get(ctx, tokenKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("token claims: %w", ports.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get token claims from Redis: %w", err)
	}
	var claims auth.Claims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token claims: %w", err)
	}
	return &claims, nil
}

// updateTokenActivity rewrites the claims keeping the remaining TTL.
func (r *TokenRedisRepository) updateTokenActivity(ctx context.Context, tokenHash, ipAddress, userAgent string) error {
	claims, err := r.getTokenClaims(ctx, tokenHash)
	if err != nil {
		return err
	}
	claims.LastActivity = time.Now()
	if ipAddress != "" {
		claims.IPAddress = ipAddress
	}
	if userAgent != "" {
		claims.UserAgent = userAgent
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("failed to marshal updated claims: %w", err)
	}
	if err := r.client.Set(ctx, tokenKey(tokenHash), data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("failed to update token claims: %w", err)
	}
	return nil
}

func (r *TokenRedisRepository) deleteTokenClaims(ctx context.Context, tokenHash string) error {
	claims, err := r.getTokenClaims(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := r.client.Del(ctx, tokenKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("failed to delete token claims: %w", err)
	}
	if err := r.client.SRem(ctx, userTokensKey(claims.UserID), tokenHash).Err(); err != nil && r.logger != nil {
		r.logger.WithFields(logrus.Fields{"user_id": claims.UserID, "token_hash": tokenHash}).WithError(err).Warn("failed to remove token from user mapping")
	}
	return nil
}

// deleteDanglingTokenClaims drops hashes from the per-user sets whose claims
// have already expired, returning how many were removed.
func (r *TokenRedisRepository) deleteDanglingTokenClaims(ctx context.Context) (int64, error) {
	pattern := fmt.Sprintf("%s:user:*:tokens", tokenPrefix)
	var removed int64
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return removed, err
		}
		for _, userKey := range keys {
			removed += r.cleanupUserTokens(ctx, userKey)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func (r *TokenRedisRepository) cleanupUserTokens(ctx context.Context, userKey string) int64 {
	var removed int64
	var cursor uint64
	for {
		members, next, err := r.client.SScan(ctx, userKey, cursor, "*", 200).Result()
		if err != nil {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"user_key": userKey}).WithError(err).Warn("skipping user set due to scan error")
			}
			return removed
		}
		for _, tokenHash := range members {
			exists, err := r.client.Exists(ctx, tokenKey(tokenHash)).Result()
			if err != nil || exists > 0 {
				continue
			}
			if err := r.client.SRem(ctx, userKey, tokenHash).Err(); err == nil {
				removed++
			}
		}
		cursor = next
		if cursor == 0 {
			return removed
		}
	}
}
