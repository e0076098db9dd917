package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/content"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// ContentOption customizes a ContentService.
type ContentOption func(*ContentService)

// WithClock overrides the time source used for freshness checks and fetchedAt.
func WithClock(now func() time.Time) ContentOption {
	return func(s *ContentService) {
		if now != nil {
			s.now = now
		}
	}
}

// ContentService serves memoized AI answers, refreshing a key from upstream
// only when its record is missing or older than content.FreshnessWindow.
// Concurrent refreshes of one key are not coalesced; the last upsert wins.
type ContentService struct {
	services *refresher
	petCare  *refresher
	now      func() time.Time
	logger   *logrus.Logger
}

func NewContentService(servicesStore, petCareStore ports.ContentStore, client ports.AIQueryClient, logger *logrus.Logger, opts ...ContentOption) ports.ContentService {
	s := &ContentService{now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.services = &refresher{store: servicesStore, client: client, kind: servicesKind, owner: s}
	s.petCare = &refresher{store: petCareStore, client: client, kind: petCareKind, owner: s}
	return s
}

// GetServiceListing keys services content on (city, category).
func (s *ContentService) GetServiceListing(ctx context.Context, city, category string) (*content.Record, error) {
	return s.services.getOrRefresh(ctx, content.Key{Location: city, Topic: category})
}

// GetPetCareGuide keys pet care content on (city, topic).
func (s *ContentService) GetPetCareGuide(ctx context.Context, topic, city string) (*content.Record, error) {
	return s.petCare.getOrRefresh(ctx, content.Key{Location: city, Topic: topic})
}

type refresher struct {
	store  ports.ContentStore
	client ports.AIQueryClient
	kind   contentKind
	owner  *ContentService
}

func (r *refresher) getOrRefresh(ctx context.Context, key content.Key) (*content.Record, error) {
	key.Location = strings.TrimSpace(key.Location)
	key.Topic = strings.TrimSpace(key.Topic)
	if err := key.Validate(); err != nil {
		return nil, err
	}

	kind := string(r.kind.kind)
	fields := logrus.Fields{"kind": kind, "location": key.Location, "topic": key.Topic}

	rec, ok, err := r.store.Find(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("content store lookup %s: %w", key, err)
	}

	now := r.owner.now()
	switch {
	case ok && rec.IsFresh(now):
		contentLookups.WithLabelValues(kind, "hit").Inc()
		return rec, nil
	case ok:
		contentLookups.WithLabelValues(kind, "stale").Inc()
	default:
		contentLookups.WithLabelValues(kind, "miss").Inc()
	}

	raw, err := r.client.Query(ctx, ports.AIQuery{
		Prompt:     r.kind.prompt(key),
		SchemaName: r.kind.schemaName,
		Schema:     r.kind.schema,
	})
	if err != nil {
		contentUpstreamCalls.WithLabelValues(kind, "error").Inc()
		if r.owner.logger != nil {
			r.owner.logger.WithFields(fields).WithError(err).Error("content: upstream query failed")
		}
		return nil, &content.UpstreamUnavailableError{Err: err}
	}

	payload, err := r.kind.decode(raw)
	if err != nil {
		contentUpstreamCalls.WithLabelValues(kind, "parse_error").Inc()
		if r.owner.logger != nil {
			r.owner.logger.WithFields(fields).WithError(err).Warn("content: upstream answer rejected")
		}
		return nil, &content.ContentParseError{Raw: raw, Err: err}
	}
	contentUpstreamCalls.WithLabelValues(kind, "ok").Inc()

	fetchedAt := r.owner.now()
	saved, err := r.store.Upsert(ctx, key, payload, fetchedAt)
	if err != nil {
		// The answer is valid; serve it even though the next call will refresh again.
		if r.owner.logger != nil {
			r.owner.logger.WithFields(fields).WithError(err).Warn("content: failed to persist refreshed record")
		}
		return &content.Record{Location: key.Location, Topic: key.Topic, Content: payload, FetchedAt: fetchedAt}, nil
	}
	return saved, nil
}
