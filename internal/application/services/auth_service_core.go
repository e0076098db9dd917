package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	config "github.com/avatarctic/petpal/configs"
	"github.com/avatarctic/petpal/internal/core/domain/auth"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  ports.UserRepository
	tokenRepo ports.TokenRepository
	jwtConfig *config.JWTConfig
	logger    *logrus.Logger
}

// NewAuthService wires the token flows. Expired token cleanup runs in the
// maintenance scheduler, not here.
func NewAuthService(userRepo ports.UserRepository, tokenRepo ports.TokenRepository, jwtConfig *config.JWTConfig, logger *logrus.Logger) ports.AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.Session, error) {
	foundUser, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ports.ErrInvalidCredentials
	}

	tokens, err := s.GenerateTokens(ctx, foundUser)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	foundUser.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, foundUser); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": foundUser.ID}).WithError(err).Warn("failed to update user last login time")
		}
	}

	return &auth.Session{User: foundUser, Tokens: tokens}, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error) {
	storedToken, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	if time.Now().After(storedToken.ExpiresAt) {
		if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"user_id": storedToken.UserID}).WithError(err).Warn("failed to delete expired refresh token")
			}
		}
		return nil, fmt.Errorf("refresh token expired")
	}

	foundUser, err := s.userRepo.GetByID(ctx, storedToken.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	tokens, err := s.GenerateTokens(ctx, foundUser)
	if err != nil {
		return nil, err
	}

	// Refresh tokens are single use.
	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": foundUser.ID}).WithError(err).Warn("failed to delete used refresh token")
		}
	}
	return tokens, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	expiresAt := time.Now().Add(s.jwtConfig.AccessTokenTTL)
	if err := s.tokenRepo.BlacklistToken(ctx, userID, token, expiresAt); err != nil {
		return err
	}

	tokenHash := s.GetTokenHash(token)
	if err := s.tokenRepo.DeleteTokenClaims(ctx, tokenHash); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": userID, "token_hash": tokenHash}).WithError(err).Warn("failed to delete token claims during logout")
		}
	}

	return nil
}
