package services

import (
	"context"

	"github.com/avatarctic/petpal/internal/core/domain/directory"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/google/uuid"
)

type DirectoryService struct {
	providers ports.ProviderRepository
	cityInfo  ports.CityInfoRepository
}

func NewDirectoryService(providers ports.ProviderRepository, cityInfo ports.CityInfoRepository) ports.DirectoryService {
	return &DirectoryService{providers: providers, cityInfo: cityInfo}
}

func (s *DirectoryService) ListProviders(ctx context.Context, city, category string) ([]*directory.Provider, error) {
	return s.providers.List(ctx, directory.NewFilter(city, category))
}

func (s *DirectoryService) GetProvider(ctx context.Context, id uuid.UUID) (*directory.Provider, error) {
	return s.providers.GetByID(ctx, id)
}

func (s *DirectoryService) ListCityInfo(ctx context.Context, city, category string) ([]*directory.CityInfo, error) {
	return s.cityInfo.List(ctx, directory.NewFilter(city, category))
}
