package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/pet"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var emptyHealthInfo = json.RawMessage(`{}`)

type PetService struct {
	repo   ports.PetRepository
	logger *logrus.Logger
}

func NewPetService(repo ports.PetRepository, logger *logrus.Logger) ports.PetService {
	return &PetService{repo: repo, logger: logger}
}

func (s *PetService) CreatePet(ctx context.Context, ownerID uuid.UUID, req *pet.CreatePetRequest) (*pet.Pet, error) {
	now := time.Now()
	p := &pet.Pet{
		ID:             uuid.New(),
		UserID:         ownerID,
		Name:           req.Name,
		Type:           req.Type,
		Breed:          req.Breed,
		Age:            req.Age,
		AgeUnit:        req.AgeUnit,
		Gender:         req.Gender,
		Weight:         req.Weight,
		Description:    req.Description,
		ProfilePicture: req.ProfilePicture,
		HealthInfo:     req.HealthInfo,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.AgeUnit == "" {
		p.AgeUnit = pet.DefaultAgeUnit
	}
	if len(p.HealthInfo) == 0 {
		p.HealthInfo = emptyHealthInfo
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	return p, nil
}

func (s *PetService) GetPet(ctx context.Context, ownerID, petID uuid.UUID) (*pet.Pet, error) {
	return s.ownedPet(ctx, ownerID, petID)
}

func (s *PetService) ListPets(ctx context.Context, ownerID uuid.UUID) ([]*pet.Pet, error) {
	return s.repo.ListByUser(ctx, ownerID)
}

func (s *PetService) UpdatePet(ctx context.Context, ownerID, petID uuid.UUID, req *pet.UpdatePetRequest) (*pet.Pet, error) {
	p, err := s.ownedPet(ctx, ownerID, petID)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update pet: %w", err)
	}
	return p, nil
}

func (s *PetService) DeletePet(ctx context.Context, ownerID, petID uuid.UUID) error {
	if _, err := s.ownedPet(ctx, ownerID, petID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, petID); err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	return nil
}

// ownedPet loads petID and checks it belongs to ownerID.
func (s *PetService) ownedPet(ctx context.Context, ownerID, petID uuid.UUID) (*pet.Pet, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if p.UserID != ownerID {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"pet_id": petID, "user_id": ownerID}).Warn("pet access denied")
		}
		return nil, fmt.Errorf("pet %s: %w", petID, ports.ErrForbidden)
	}
	return p, nil
}
