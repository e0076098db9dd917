package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/directory"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Utility helpers
func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// loadListWithSingleflight serves listKey from cache, or coalesces concurrent
// misses into one loader call and caches its result.
func loadListWithSingleflight[T any](cache ports.Cache, ctx context.Context, listKey string, ttl time.Duration, loader func() ([]T, error)) ([]T, error) {
	if v, ok := cacheGet[[]T](cache, ctx, listKey); ok {
		return *v, nil
	}
	res, err, _ := sf.Do(listKey, func() (any, error) {
		if v, ok := cacheGet[[]T](cache, ctx, listKey); ok {
			return *v, nil
		}
		all, err := loader()
		if err != nil {
			return nil, err
		}
		cacheSetSilently(cache, ctx, listKey, all, ttl)
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	all, ok := res.([]T)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return all, nil
}

// CachingProviderRepository decorates a ProviderRepository with cache-aside.
type CachingProviderRepository struct {
	inner ports.ProviderRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingProviderRepository(inner ports.ProviderRepository, cache ports.Cache, ttl time.Duration) ports.ProviderRepository {
	return &CachingProviderRepository{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachingProviderRepository) Create(ctx context.Context, p *directory.Provider) error {
	if err := c.inner.Create(ctx, p); err != nil {
		return err
	}
	cacheSetSilently(c.cache, ctx, "services:id:"+p.ID.String(), p, c.ttl)
	if c.cache != nil {
		// Both the category list and the unfiltered list for the city are stale now
		f := directory.NewFilter(p.City, p.Category)
		_ = c.cache.Delete(ctx, "services:list:"+f.CacheKey())
		_ = c.cache.Delete(ctx, "services:list:"+directory.NewFilter(p.City, "").CacheKey())
	}
	return nil
}

func (c *CachingProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*directory.Provider, error) {
	if v, ok := cacheGet[directory.Provider](c.cache, ctx, "services:id:"+id.String()); ok {
		return v, nil
	}
	p, err := c.inner.GetByID(ctx, id)
	if err == nil {
		cacheSetSilently(c.cache, ctx, "services:id:"+id.String(), p, c.ttl)
	}
	return p, err
}

func (c *CachingProviderRepository) List(ctx context.Context, filter directory.Filter) ([]*directory.Provider, error) {
	return loadListWithSingleflight(c.cache, ctx, "services:list:"+filter.CacheKey(), c.ttl, func() ([]*directory.Provider, error) {
		return c.inner.List(ctx, filter)
	})
}

// CachingCityInfoRepository caches city info listings per filter.
type CachingCityInfoRepository struct {
	inner ports.CityInfoRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingCityInfoRepository(inner ports.CityInfoRepository, cache ports.Cache, ttl time.Duration) ports.CityInfoRepository {
	return &CachingCityInfoRepository{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachingCityInfoRepository) Create(ctx context.Context, info *directory.CityInfo) error {
	if err := c.inner.Create(ctx, info); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Delete(ctx, "cityinfo:list:"+directory.NewFilter(info.City, info.Category).CacheKey())
		_ = c.cache.Delete(ctx, "cityinfo:list:"+directory.NewFilter(info.City, "").CacheKey())
	}
	return nil
}

func (c *CachingCityInfoRepository) List(ctx context.Context, filter directory.Filter) ([]*directory.CityInfo, error) {
	return loadListWithSingleflight(c.cache, ctx, "cityinfo:list:"+filter.CacheKey(), c.ttl, func() ([]*directory.CityInfo, error) {
		return c.inner.List(ctx, filter)
	})
}

// Simple validation to ensure decorators implement interfaces at compile time
var _ ports.ProviderRepository = (*CachingProviderRepository)(nil)
var _ ports.CityInfoRepository = (*CachingCityInfoRepository)(nil)

// singleflight group for coalescing cache-miss loads in-process
var sf singleflight.Group
