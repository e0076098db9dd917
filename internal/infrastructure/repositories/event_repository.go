package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avatarctic/petpal/internal/core/domain/pet"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/avatarctic/petpal/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const eventColumns = `id, pet_id, user_id, title, type, description, start_date, is_all_day, reminder,
	completed, created_at, updated_at`

type EventRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewEventRepository(database *db.Database, logger *logrus.Logger) ports.EventRepository {
	return &EventRepository{db: database, logger: logger}
}

func (r *EventRepository) Create(ctx context.Context, e *pet.Event) error {
	query := `
		INSERT INTO pet_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.DB.ExecContext(ctx, query,
		e.ID, e.PetID, e.UserID, e.Title, e.Type, e.Description, e.StartDate, e.IsAllDay, e.Reminder,
		e.Completed, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"event_id": e.ID, "pet_id": e.PetID}).WithError(err).Error("db: failed to create event")
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*pet.Event, error) {
	var e pet.Event
	err := r.db.DB.GetContext(ctx, &e, `SELECT `+eventColumns+` FROM pet_events WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event with ID %s: %w", id, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

// ListByUser returns the user's events in start order. From is inclusive, To exclusive.
func (r *EventRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter pet.EventFilter) ([]*pet.Event, error) {
	conds := []string{"user_id = $1"}
	args := []interface{}{userID}
	if filter.PetID != nil {
		args = append(args, *filter.PetID)
		conds = append(conds, fmt.Sprintf("pet_id = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conds = append(conds, fmt.Sprintf("start_date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conds = append(conds, fmt.Sprintf("start_date < $%d", len(args)))
	}

	query := `SELECT ` + eventColumns + ` FROM pet_events WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY start_date, title`

	events := []*pet.Event{}
	if err := r.db.DB.SelectContext(ctx, &events, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to list events")
		}
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, e *pet.Event) error {
	query := `
		UPDATE pet_events
		SET title = $2, type = $3, description = $4, start_date = $5, is_all_day = $6, reminder = $7,
			completed = $8, updated_at = $9
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Type, e.Description, e.StartDate, e.IsAllDay, e.Reminder, e.Completed, e.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"event_id": e.ID}).WithError(err).Error("db: failed to update event")
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	return requireAffected(result, "event", e.ID)
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM pet_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return requireAffected(result, "event", id)
}
