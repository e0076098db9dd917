package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/content"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// ContentCacheRepository is a ports.ContentStore over a shared key-value cache
// (Redis in production). Records never expire.
type ContentCacheRepository struct {
	cache  ports.Cache
	kind   content.Kind
	logger *logrus.Logger
}

func NewContentCacheRepository(cache ports.Cache, kind content.Kind, logger *logrus.Logger) ports.ContentStore {
	return &ContentCacheRepository{cache: cache, kind: kind, logger: logger}
}

func (r *ContentCacheRepository) cacheKey(key content.Key) string {
	// JSON encoding keeps keys containing ':' unambiguous.
	b, _ := json.Marshal([2]string{key.Location, key.Topic})
	return string(r.kind) + ":" + string(b)
}

func (r *ContentCacheRepository) Find(ctx context.Context, key content.Key) (*content.Record, bool, error) {
	raw, ok, err := r.cache.Get(ctx, r.cacheKey(key))
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"kind": r.kind, "key": key.String()}).WithError(err).Error("cache: failed to read content")
		}
		return nil, false, fmt.Errorf("failed to find %s content: %w", r.kind, err)
	}
	if !ok {
		return nil, false, nil
	}
	var rec content.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false, fmt.Errorf("corrupt %s content record %s: %w", r.kind, key, err)
	}
	return &rec, true, nil
}

// Upsert overwrites the whole record with a single SET.
func (r *ContentCacheRepository) Upsert(ctx context.Context, key content.Key, payload json.RawMessage, fetchedAt time.Time) (*content.Record, error) {
	rec := &content.Record{Location: key.Location, Topic: key.Topic, Content: cloneRaw(payload), FetchedAt: fetchedAt.UTC()}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s content: %w", r.kind, err)
	}
	if err := r.cache.Set(ctx, r.cacheKey(key), raw, 0); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"kind": r.kind, "key": key.String()}).WithError(err).Error("cache: failed to write content")
		}
		return nil, fmt.Errorf("failed to upsert %s content: %w", r.kind, err)
	}
	return rec, nil
}

// ContentMemoryRepository is a single-process ports.ContentStore.
type ContentMemoryRepository struct {
	mu      sync.RWMutex
	records map[content.Key]content.Record
}

func NewContentMemoryRepository() *ContentMemoryRepository {
	return &ContentMemoryRepository{records: make(map[content.Key]content.Record)}
}

func (r *ContentMemoryRepository) Find(_ context.Context, key content.Key) (*content.Record, bool, error) {
	r.mu.RLock()
	rec, ok := r.records[key]
	r.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	rec.Content = cloneRaw(rec.Content)
	return &rec, true, nil
}

func (r *ContentMemoryRepository) Upsert(_ context.Context, key content.Key, payload json.RawMessage, fetchedAt time.Time) (*content.Record, error) {
	rec := content.Record{Location: key.Location, Topic: key.Topic, Content: cloneRaw(payload), FetchedAt: fetchedAt.UTC()}
	r.mu.Lock()
	r.records[key] = rec
	r.mu.Unlock()
	rec.Content = cloneRaw(rec.Content)
	return &rec, nil
}

// Len reports the number of stored keys.
func (r *ContentMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func cloneRaw(b json.RawMessage) json.RawMessage {
	if b == nil {
		return nil
	}
	out := make(json.RawMessage, len(b))
	copy(out, b)
	return out
}
