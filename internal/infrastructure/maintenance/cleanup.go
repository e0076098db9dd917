package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	defaultSessionSpec = "@hourly"
	defaultTokenSpec   = "@daily"
	jobTimeout         = 30 * time.Second
)

// Cleaner runs the periodic token housekeeping: an hourly sweep of dangling
// session claims and a daily purge of expired refresh and blacklisted tokens.
// AI content records are never pruned.
type Cleaner struct {
	tokens ports.TokenMaintenance
	cron   *cron.Cron
	logger *logrus.Logger

	sessionSchedule string
	tokenSchedule   string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

func WithSessionSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.sessionSchedule = spec
		}
	}
}

func WithTokenSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.tokenSchedule = spec
		}
	}
}

// NewCleaner builds a Cleaner; a nil tokens dependency disables every job.
func NewCleaner(tokens ports.TokenMaintenance, logger *logrus.Logger, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		tokens:          tokens,
		logger:          logger,
		sessionSchedule: defaultSessionSpec,
		tokenSchedule:   defaultTokenSpec,
	}
	for _, opt := range opts {
		opt(cleaner)
	}
	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return cleaner
}

// Start registers the jobs and launches the scheduler.
func (c *Cleaner) Start() error {
	if c.tokens == nil {
		return nil
	}
	if _, err := c.cron.AddFunc(c.sessionSchedule, c.job("session claims", c.sweepSessions)); err != nil {
		return fmt.Errorf("schedule session sweep %q: %w", c.sessionSchedule, err)
	}
	if _, err := c.cron.AddFunc(c.tokenSchedule, c.job("expired tokens", c.purgeTokens)); err != nil {
		return fmt.Errorf("schedule token purge %q: %w", c.tokenSchedule, err)
	}
	c.cron.Start()
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"sessions": c.sessionSchedule, "tokens": c.tokenSchedule}).Info("maintenance: scheduler started")
	}
	return nil
}

// Stop halts the scheduler; the returned context is done once running jobs finish.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every cleanup routine sequentially.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if c.tokens == nil {
		return nil
	}
	return errors.Join(c.sweepSessions(ctx), c.purgeTokens(ctx))
}

func (c *Cleaner) job(name string, fn func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := fn(ctx); err != nil && c.logger != nil {
			c.logger.WithFields(logrus.Fields{"job": name}).WithError(err).Warn("maintenance: cleanup failed")
		}
	}
}

func (c *Cleaner) sweepSessions(ctx context.Context) error {
	removed, err := c.tokens.DeleteExpiredTokenClaims(ctx)
	if err != nil {
		return fmt.Errorf("sweep session claims: %w", err)
	}
	c.logRemoved("session_claims", removed)
	return nil
}

func (c *Cleaner) purgeTokens(ctx context.Context) error {
	refresh, errRefresh := c.tokens.DeleteExpiredRefreshTokens(ctx)
	if errRefresh != nil {
		errRefresh = fmt.Errorf("purge refresh tokens: %w", errRefresh)
	}
	blacklisted, errBlacklist := c.tokens.DeleteExpiredBlacklistedTokens(ctx)
	if errBlacklist != nil {
		errBlacklist = fmt.Errorf("purge blacklisted tokens: %w", errBlacklist)
	}
	c.logRemoved("refresh_tokens", refresh)
	c.logRemoved("blacklisted_tokens", blacklisted)
	return errors.Join(errRefresh, errBlacklist)
}

func (c *Cleaner) logRemoved(kind string, n int64) {
	if n > 0 && c.logger != nil {
		c.logger.WithFields(logrus.Fields{"kind": kind, "removed": n}).Info("maintenance: cleanup done")
	}
}
