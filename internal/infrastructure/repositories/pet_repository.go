package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avatarctic/petpal/internal/core/domain/pet"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/avatarctic/petpal/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const petColumns = `id, user_id, name, type, breed, age, age_unit, gender, weight, description,
	profile_picture, health_info, created_at, updated_at`

type PetRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewPetRepository(database *db.Database, logger *logrus.Logger) ports.PetRepository {
	return &PetRepository{db: database, logger: logger}
}

func (r *PetRepository) Create(ctx context.Context, p *pet.Pet) error {
	query := `
		INSERT INTO pets (` + petColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.UserID, p.Name, p.Type, p.Breed, p.Age, p.AgeUnit, p.Gender, p.Weight, p.Description,
		p.ProfilePicture, string(p.HealthInfo), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"pet_id": p.ID, "user_id": p.UserID}).WithError(err).Error("db: failed to create pet")
		}
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

func (r *PetRepository) GetByID(ctx context.Context, id uuid.UUID) (*pet.Pet, error) {
	var p pet.Pet
	err := r.db.DB.GetContext(ctx, &p, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pet with ID %s: %w", id, ports.ErrNotFound)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"pet_id": id}).WithError(err).Error("db: failed to get pet")
		}
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return &p, nil
}

func (r *PetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*pet.Pet, error) {
	pets := []*pet.Pet{}
	err := r.db.DB.SelectContext(ctx, &pets,
		`SELECT `+petColumns+` FROM pets WHERE user_id = $1 ORDER BY created_at, name`, userID)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to list pets")
		}
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	return pets, nil
}

func (r *PetRepository) Update(ctx context.Context, p *pet.Pet) error {
	query := `
		UPDATE pets
		SET name = $2, type = $3, breed = $4, age = $5, age_unit = $6, gender = $7, weight = $8,
			description = $9, profile_picture = $10, health_info = $11, updated_at = $12
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.Type, p.Breed, p.Age, p.AgeUnit, p.Gender, p.Weight,
		p.Description, p.ProfilePicture, string(p.HealthInfo), p.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"pet_id": p.ID}).WithError(err).Error("db: failed to update pet")
		}
		return fmt.Errorf("failed to update pet: %w", err)
	}
	return requireAffected(result, "pet", p.ID)
}

// Delete removes the pet; its events go with it via ON DELETE CASCADE.
func (r *PetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"pet_id": id}).WithError(err).Error("db: failed to delete pet")
		}
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	return requireAffected(result, "pet", id)
}
