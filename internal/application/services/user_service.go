package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/user"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo         ports.UserRepository
	emailService ports.EmailService
	logger       *logrus.Logger
}

func NewUserService(repo ports.UserRepository, emailService ports.EmailService, logger *logrus.Logger) ports.UserService {
	return &UserService{
		repo:         repo,
		emailService: emailService,
		logger:       logger,
	}
}

func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.ensureAvailable(ctx, username, email, uuid.Nil); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Email:        email,
		Phone:        req.Phone,
		Location:     req.Location,
		Bio:          req.Bio,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(ctx, newUser.Email, newUser.FullName, newUser.Location); err != nil {
			// Registration succeeds without the welcome mail
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{
					"user_id": newUser.ID,
					"email":   newUser.Email,
				}).WithError(err).Warn("failed to send welcome email")
			}
		}
	}

	return newUser, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	existingUser, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &normalized
		if normalized != existingUser.Email {
			if err := s.ensureAvailable(ctx, "", normalized, existingUser.ID); err != nil {
				return nil, err
			}
		}
	}

	req.Apply(existingUser)
	existingUser.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existingUser); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return existingUser, nil
}

// ensureAvailable reports ErrConflict when username or email belongs to an
// account other than self. Empty values are not checked.
func (s *UserService) ensureAvailable(ctx context.Context, username, email string, self uuid.UUID) error {
	if username != "" {
		existing, err := s.repo.GetByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != self:
			return fmt.Errorf("username '%s' is already taken: %w", username, ports.ErrConflict)
		case err != nil && !errors.Is(err, ports.ErrNotFound):
			return err
		}
	}
	if email != "" {
		existing, err := s.repo.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != self:
			return fmt.Errorf("email '%s' is already taken: %w", email, ports.ErrConflict)
		case err != nil && !errors.Is(err, ports.ErrNotFound):
			return err
		}
	}
	return nil
}
