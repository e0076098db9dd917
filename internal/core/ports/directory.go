package ports

import (
	"context"

	"github.com/avatarctic/petpal/internal/core/domain/directory"
	"github.com/google/uuid"
)

type ProviderRepository interface {
	Create(ctx context.Context, p *directory.Provider) error
	GetByID(ctx context.Context, id uuid.UUID) (*directory.Provider, error)
	List(ctx context.Context, filter directory.Filter) ([]*directory.Provider, error)
}

type CityInfoRepository interface {
	Create(ctx context.Context, info *directory.CityInfo) error
	List(ctx context.Context, filter directory.Filter) ([]*directory.CityInfo, error)
}

// DirectoryService serves the curated providers and city articles.
type DirectoryService interface {
	ListProviders(ctx context.Context, city, category string) ([]*directory.Provider, error)
	GetProvider(ctx context.Context, id uuid.UUID) (*directory.Provider, error)
	ListCityInfo(ctx context.Context, city, category string) ([]*directory.CityInfo, error)
}
