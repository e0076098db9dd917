package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/content"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/avatarctic/petpal/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

// contentTable maps a content kind onto its table. Location and topic are
// stored under the kind's own column names.
type contentTable struct {
	name        string
	locationCol string
	topicCol    string
}

var contentTables = map[content.Kind]contentTable{
	content.KindServices: {name: "perplexity_services", locationCol: "city", topicCol: "category"},
	content.KindPetCare:  {name: "perplexity_pet_care", locationCol: "city", topicCol: "topic"},
}

// ContentPostgresRepository is a ports.ContentStore over one perplexity_* table.
type ContentPostgresRepository struct {
	db        *db.Database
	table     contentTable
	kind      content.Kind
	findSQL   string
	upsertSQL string
	logger    *logrus.Logger
}

func NewContentPostgresRepository(database *db.Database, kind content.Kind, logger *logrus.Logger) (ports.ContentStore, error) {
	t, ok := contentTables[kind]
	if !ok {
		return nil, fmt.Errorf("no content table for kind %q", kind)
	}
	selectCols := fmt.Sprintf("%s AS location, %s AS topic, content, fetched_at", t.locationCol, t.topicCol)
	return &ContentPostgresRepository{
		db:    database,
		table: t,
		kind:  kind,
		findSQL: fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
			selectCols, t.name, t.locationCol, t.topicCol),
		upsertSQL: fmt.Sprintf(`
			INSERT INTO %[1]s (%[2]s, %[3]s, content, fetched_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (%[2]s, %[3]s) DO UPDATE
			SET content = EXCLUDED.content, fetched_at = EXCLUDED.fetched_at
			RETURNING %[4]s`,
			t.name, t.locationCol, t.topicCol, selectCols),
		logger: logger,
	}, nil
}

func (r *ContentPostgresRepository) Find(ctx context.Context, key content.Key) (*content.Record, bool, error) {
	var rec content.Record
	err := r.db.DB.GetContext(ctx, &rec, r.findSQL, key.Location, key.Topic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"table": r.table.name, "key": key.String()}).WithError(err).Error("db: failed to find content")
		}
		return nil, false, fmt.Errorf("failed to find %s content: %w", r.kind, err)
	}
	rec.FetchedAt = rec.FetchedAt.UTC()
	return &rec, true, nil
}

// Upsert writes the record in one statement; concurrent writers for a key
// serialize on the unique constraint and the last one wins.
func (r *ContentPostgresRepository) Upsert(ctx context.Context, key content.Key, payload json.RawMessage, fetchedAt time.Time) (*content.Record, error) {
	var rec content.Record
	err := r.db.DB.GetContext(ctx, &rec, r.upsertSQL, key.Location, key.Topic, string(payload), fetchedAt.UTC())
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"table": r.table.name, "key": key.String()}).WithError(err).Error("db: failed to upsert content")
		}
		return nil, fmt.Errorf("failed to upsert %s content: %w", r.kind, err)
	}
	rec.FetchedAt = rec.FetchedAt.UTC()
	return &rec, nil
}
