package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/avatarctic/petpal/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TokenDBRepository keeps refresh tokens and the access token blacklist in
// postgres. Callers pass sha256 hashes, never raw tokens.
type TokenDBRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewTokenDBRepository(database *db.Database, logger *logrus.Logger) *TokenDBRepository {
	return &TokenDBRepository{db: database, logger: logger}
}

func (r *TokenDBRepository) storeRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.DB.ExecContext(ctx, query, uuid.New(), userID, tokenHash, expiresAt, time.Now()); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *TokenDBRepository) getRefreshToken(ctx context.Context, tokenHash string) (*ports.RefreshToken, error) {
	var refreshToken ports.RefreshToken
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1 AND expires_at > NOW()`

	if err := r.db.DB.GetContext(ctx, &refreshToken, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("refresh token: %w", ports.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return &refreshToken, nil
}

func (r *TokenDBRepository) deleteRefreshToken(ctx context.Context, tokenHash string) error {
	if _, err := r.db.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (r *TokenDBRepository) isTokenBlacklisted(ctx context.Context, tokenHash string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE token_hash = $1 AND expires_at > NOW())`

	if err := r.db.DB.GetContext(ctx, &exists, query, tokenHash); err != nil {
		return false, fmt.Errorf("failed to check if token is blacklisted: %w", err)
	}
	return exists, nil
}

func (r *TokenDBRepository) blacklistToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO blacklisted_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (token_hash) DO NOTHING`

	if _, err := r.db.DB.ExecContext(ctx, query, uuid.New(), userID, tokenHash, expiresAt, time.Now()); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (r *TokenDBRepository) deleteExpired(ctx context.Context, table string) (int64, error) {
	result, err := r.db.DB.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE expires_at <= NOW()`, table))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired rows from %s: %w", table, err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 && r.logger != nil {
		r.logger.WithFields(logrus.Fields{"table": table, "rows": rows}).Info("db: cleaned up expired tokens")
	}
	return rows, nil
}
