package maintenance_test

import (
	"context"
	"errors"
	"testing"

	"github.com/avatarctic/petpal/internal/infrastructure/maintenance"
	"github.com/avatarctic/petpal/internal/testutil/mocks"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleaner_RunOnceCallsEveryPurge(t *testing.T) {
	var calls []string
	tokens := &mocks.TokenRepositoryMock{
		DeleteExpiredClaimsFn:  func(ctx context.Context) (int64, error) { calls = append(calls, "claims"); return 3, nil },
		DeleteExpiredRefreshFn: func(ctx context.Context) (int64, error) { calls = append(calls, "refresh"); return 1, nil },
		DeleteExpiredBlackFn:   func(ctx context.Context) (int64, error) { calls = append(calls, "blacklist"); return 0, nil },
	}

	require.NoError(t, maintenance.NewCleaner(tokens, nil).RunOnce(context.Background()))
	assert.Equal(t, []string{"claims", "refresh", "blacklist"}, calls)
}

func TestCleaner_RunOnceJoinsErrors(t *testing.T) {
	refreshErr := errors.New("refresh table locked")
	blacklistCalled := false
	tokens := &mocks.TokenRepositoryMock{
		DeleteExpiredRefreshFn: func(ctx context.Context) (int64, error) { return 0, refreshErr },
		DeleteExpiredBlackFn:   func(ctx context.Context) (int64, error) { blacklistCalled = true; return 2, nil },
	}

	err := maintenance.NewCleaner(tokens, nil).RunOnce(context.Background())
	assert.ErrorIs(t, err, refreshErr)
	assert.ErrorContains(t, err, "purge refresh tokens")
	assert.True(t, blacklistCalled)
}

func TestCleaner_StartSchedulesJobs(t *testing.T) {
	c := cron.New()
	cleaner := maintenance.NewCleaner(&mocks.TokenRepositoryMock{}, nil, maintenance.WithCron(c), maintenance.WithSessionSchedule("*/5 * * * *"))
	require.NoError(t, cleaner.Start())
	defer cleaner.Stop()

	assert.Len(t, c.Entries(), 2)
}

func TestCleaner_InvalidSchedule(t *testing.T) {
	cleaner := maintenance.NewCleaner(&mocks.TokenRepositoryMock{}, nil, maintenance.WithCron(cron.New()), maintenance.WithTokenSchedule("every tuesday"))
	assert.ErrorContains(t, cleaner.Start(), "every tuesday")
}

func TestCleaner_NilTokensIsNoop(t *testing.T) {
	cleaner := maintenance.NewCleaner(nil, nil)
	assert.NoError(t, cleaner.Start())
	assert.NoError(t, cleaner.RunOnce(context.Background()))
}
