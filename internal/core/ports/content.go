package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/content"
)

// ContentStore persists memoized AI answers, one record per key.
// Implementations must make Upsert atomic per key.
type ContentStore interface {
	// Find returns ok=false when no record exists for key.
	Find(ctx context.Context, key content.Key) (rec *content.Record, ok bool, err error)
	Upsert(ctx context.Context, key content.Key, payload json.RawMessage, fetchedAt time.Time) (*content.Record, error)
}

// AIQuery is a single structured-output prompt.
type AIQuery struct {
	Prompt string
	// SchemaName and Schema describe the JSON document the answer must conform to.
	SchemaName string
	Schema     json.Marshaler
}

// AIQueryClient sends one prompt upstream and returns the raw completion text.
// It makes a single attempt and never retries.
type AIQueryClient interface {
	Query(ctx context.Context, q AIQuery) (string, error)
}

// ContentService memoizes AI generated services listings and pet care guides.
type ContentService interface {
	GetServiceListing(ctx context.Context, city, category string) (*content.Record, error)
	GetPetCareGuide(ctx context.Context, topic, city string) (*content.Record, error)
}
