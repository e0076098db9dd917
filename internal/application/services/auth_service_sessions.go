package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/auth"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// StartSession checks the access token against its stored session and records
// the caller's IP and user agent. A session idle longer than SessionTimeout is
// dropped and its token blacklisted.
func (s *AuthService) StartSession(ctx context.Context, token string, ipAddress, userAgent string) (*auth.Claims, error) {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	tokenHash := s.GetTokenHash(token)
	session, err := s.tokenRepo.GetTokenClaims(ctx, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("no session for token: %w", ports.ErrInvalidCredentials)
	}
	if session.UserID != claims.UserID {
		return nil, fmt.Errorf("session belongs to another user: %w", ports.ErrInvalidCredentials)
	}

	now := time.Now()
	if now.Sub(session.LastActivity) > s.jwtConfig.SessionTimeout {
		s.expireSession(ctx, token, tokenHash, session)
		return nil, fmt.Errorf("session expired after inactivity: %w", ports.ErrInvalidCredentials)
	}

	if err := s.tokenRepo.UpdateTokenActivity(ctx, tokenHash, ipAddress, userAgent); err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": session.UserID}).WithError(err).Warn("auth: failed to record session activity")
	}

	session.LastActivity = now
	session.IPAddress = ipAddress
	session.UserAgent = userAgent
	return session, nil
}

// expireSession is best effort; the caller has already rejected the token.
func (s *AuthService) expireSession(ctx context.Context, token, tokenHash string, session *auth.Claims) {
	fields := logrus.Fields{"user_id": session.UserID}
	if err := s.tokenRepo.DeleteTokenClaims(ctx, tokenHash); err != nil && s.logger != nil {
		s.logger.WithFields(fields).WithError(err).Warn("auth: failed to drop idle session")
	}
	if err := s.tokenRepo.BlacklistToken(ctx, session.UserID, token, time.Now().Add(s.jwtConfig.AccessTokenTTL)); err != nil && s.logger != nil {
		s.logger.WithFields(fields).WithError(err).Warn("auth: failed to blacklist idle session token")
	}
}
