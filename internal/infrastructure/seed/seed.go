// Package seed loads the sample directory content shipped with PetPal.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/directory"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Result counts the rows inserted by a run.
type Result struct {
	Providers int
	CityInfo  int
}

// Seeder inserts the sample providers and city articles. Rows already present
// (same city and name or title) are skipped, so running it twice is harmless.
type Seeder struct {
	providers ports.ProviderRepository
	cityInfo  ports.CityInfoRepository
	logger    *logrus.Logger
	now       func() time.Time
}

func NewSeeder(providers ports.ProviderRepository, cityInfo ports.CityInfoRepository, logger *logrus.Logger) *Seeder {
	return &Seeder{providers: providers, cityInfo: cityInfo, logger: logger, now: time.Now}
}

func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	now := s.now().UTC()

	existingProviders := map[string]map[string]bool{}
	for _, p := range SampleProviders() {
		names, ok := existingProviders[p.City]
		if !ok {
			list, err := s.providers.List(ctx, directory.NewFilter(p.City, ""))
			if err != nil {
				return res, fmt.Errorf("seed: list providers in %s: %w", p.City, err)
			}
			names = make(map[string]bool, len(list))
			for _, e := range list {
				names[e.Name] = true
			}
			existingProviders[p.City] = names
		}
		if names[p.Name] {
			continue
		}
		p.ID = uuid.New()
		p.CreatedAt = now
		if err := s.providers.Create(ctx, p); err != nil {
			return res, fmt.Errorf("seed: create provider %q: %w", p.Name, err)
		}
		names[p.Name] = true
		res.Providers++
	}

	existingTitles := map[string]map[string]bool{}
	for _, info := range SampleCityInfo() {
		titles, ok := existingTitles[info.City]
		if !ok {
			list, err := s.cityInfo.List(ctx, directory.NewFilter(info.City, ""))
			if err != nil {
				return res, fmt.Errorf("seed: list city info in %s: %w", info.City, err)
			}
			titles = make(map[string]bool, len(list))
			for _, e := range list {
				titles[e.Title] = true
			}
			existingTitles[info.City] = titles
		}
		if titles[info.Title] {
			continue
		}
		info.ID = uuid.New()
		info.UpdatedAt = now
		if err := s.cityInfo.Create(ctx, info); err != nil {
			return res, fmt.Errorf("seed: create city info %q: %w", info.Title, err)
		}
		titles[info.Title] = true
		res.CityInfo++
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"providers": res.Providers, "city_info": res.CityInfo}).Info("seed: sample data loaded")
	}
	return res, nil
}
