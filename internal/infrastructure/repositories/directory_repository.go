package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avatarctic/petpal/internal/core/domain/directory"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/avatarctic/petpal/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const providerColumns = `id, name, category, address, city, phone, website, opening_hours, description,
	image_url, rating, review_count, created_at`

const cityInfoColumns = `id, city, category, title, content, image_url, source, updated_at`

// ProviderRepository stores the curated service directory.
type ProviderRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewProviderRepository(database *db.Database, logger *logrus.Logger) ports.ProviderRepository {
	return &ProviderRepository{db: database, logger: logger}
}

func (r *ProviderRepository) Create(ctx context.Context, p *directory.Provider) error {
	query := `
		INSERT INTO pet_services (` + providerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.Category, p.Address, p.City, p.Phone, p.Website, p.OpeningHours, p.Description,
		p.ImageURL, p.Rating, p.ReviewCount, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *ProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*directory.Provider, error) {
	var p directory.Provider
	err := r.db.DB.GetContext(ctx, &p, `SELECT `+providerColumns+` FROM pet_services WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("service with ID %s: %w", id, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &p, nil
}

// List matches city and category case-insensitively; an empty category matches all.
func (r *ProviderRepository) List(ctx context.Context, filter directory.Filter) ([]*directory.Provider, error) {
	query := `
		SELECT ` + providerColumns + `
		FROM pet_services
		WHERE LOWER(city) = $1 AND ($2 = '' OR LOWER(category) = $2)
		ORDER BY rating DESC NULLS LAST, name`

	providers := []*directory.Provider{}
	if err := r.db.DB.SelectContext(ctx, &providers, query, filter.City, filter.Category); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"city": filter.City, "category": filter.Category}).WithError(err).Error("db: failed to list services")
		}
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return providers, nil
}

// CityInfoRepository stores editorial city articles.
type CityInfoRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewCityInfoRepository(database *db.Database, logger *logrus.Logger) ports.CityInfoRepository {
	return &CityInfoRepository{db: database, logger: logger}
}

func (r *CityInfoRepository) Create(ctx context.Context, info *directory.CityInfo) error {
	query := `
		INSERT INTO city_info (` + cityInfoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.DB.ExecContext(ctx, query,
		info.ID, info.City, info.Category, info.Title, info.Content, info.ImageURL, info.Source, info.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create city info: %w", err)
	}
	return nil
}

func (r *CityInfoRepository) List(ctx context.Context, filter directory.Filter) ([]*directory.CityInfo, error) {
	query := `
		SELECT ` + cityInfoColumns + `
		FROM city_info
		WHERE LOWER(city) = $1 AND ($2 = '' OR LOWER(category) = $2)
		ORDER BY updated_at DESC, title`

	infos := []*directory.CityInfo{}
	if err := r.db.DB.SelectContext(ctx, &infos, query, filter.City, filter.Category); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"city": filter.City, "category": filter.Category}).WithError(err).Error("db: failed to list city info")
		}
		return nil, fmt.Errorf("failed to list city info: %w", err)
	}
	return infos, nil
}
