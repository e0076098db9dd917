package repositories_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/directory"
	"github.com/avatarctic/petpal/internal/infrastructure/repositories"
	"github.com/avatarctic/petpal/internal/testutil/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachingProviderRepository_ListServedFromCache(t *testing.T) {
	vet := &directory.Provider{ID: uuid.New(), Name: "Paws", City: "berlin", Category: "vet"}
	inner := &mocks.ProviderRepositoryMock{ListFn: func(ctx context.Context, f directory.Filter) ([]*directory.Provider, error) {
		return []*directory.Provider{vet}, nil
	}}
	cache := mocks.NewCacheMock()
	repo := repositories.NewCachingProviderRepository(inner, cache, time.Minute)
	filter := directory.NewFilter("Berlin", "all")

	for i := 0; i < 3; i++ {
		got, err := repo.List(context.Background(), filter)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Paws", got[0].Name)
	}
	assert.EqualValues(t, 1, inner.ListCalls.Load())
	assert.Contains(t, cache.Data, "services:list:berlin:all")
	assert.Equal(t, time.Minute, cache.TTLs["services:list:berlin:all"])
}

func TestCachingProviderRepository_ConcurrentMissesCoalesce(t *testing.T) {
	release := make(chan struct{})
	inner := &mocks.ProviderRepositoryMock{ListFn: func(ctx context.Context, f directory.Filter) ([]*directory.Provider, error) {
		<-release
		return []*directory.Provider{}, nil
	}}
	repo := repositories.NewCachingProviderRepository(inner, mocks.NewCacheMock(), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.List(context.Background(), directory.NewFilter("Rome", "groomer"))
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, inner.ListCalls.Load(), int32(2))
}

func TestCachingProviderRepository_CreateInvalidatesLists(t *testing.T) {
	cache := mocks.NewCacheMock()
	cache.Data["services:list:oslo:vet"] = []byte(`[]`)
	cache.Data["services:list:oslo:all"] = []byte(`[]`)
	cache.Data["services:list:bergen:all"] = []byte(`[]`)
	repo := repositories.NewCachingProviderRepository(&mocks.ProviderRepositoryMock{}, cache, time.Minute)

	p := &directory.Provider{ID: uuid.New(), Name: "Fjord Vets", City: "Oslo", Category: "Vet"}
	require.NoError(t, repo.Create(context.Background(), p))

	assert.NotContains(t, cache.Data, "services:list:oslo:vet")
	assert.NotContains(t, cache.Data, "services:list:oslo:all")
	assert.Contains(t, cache.Data, "services:list:bergen:all")
	assert.Contains(t, cache.Data, "services:id:"+p.ID.String())
}

func TestCachingProviderRepository_WorksWithoutCache(t *testing.T) {
	inner := &mocks.ProviderRepositoryMock{}
	repo := repositories.NewCachingProviderRepository(inner, nil, time.Minute)

	_, err := repo.List(context.Background(), directory.NewFilter("Rome", ""))
	require.NoError(t, err)
	_, err = repo.List(context.Background(), directory.NewFilter("Rome", ""))
	require.NoError(t, err)
	assert.EqualValues(t, 2, inner.ListCalls.Load())
}

func TestDirectoryFilter(t *testing.T) {
	f := directory.NewFilter("  New York ", "ALL")
	assert.Equal(t, "new york", f.City)
	assert.Empty(t, f.Category)
	assert.Equal(t, "new york:all", f.CacheKey())

	f = directory.NewFilter("Paris", "Groomer")
	assert.Equal(t, "groomer", f.Category)
	assert.Equal(t, "paris:groomer", f.CacheKey())
}
