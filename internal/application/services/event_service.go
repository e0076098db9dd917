package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/pet"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DateError reports a startDate that matches none of the accepted layouts.
type DateError struct {
	Err error
}

func (e *DateError) Error() string { return e.Err.Error() }
func (e *DateError) Unwrap() error { return e.Err }

type EventService struct {
	repo   ports.EventRepository
	pets   ports.PetService
	logger *logrus.Logger
}

func NewEventService(repo ports.EventRepository, pets ports.PetService, logger *logrus.Logger) ports.EventService {
	return &EventService{repo: repo, pets: pets, logger: logger}
}

func (s *EventService) CreateEvent(ctx context.Context, ownerID uuid.UUID, req *pet.CreateEventRequest) (*pet.Event, error) {
	if _, err := s.pets.GetPet(ctx, ownerID, req.PetID); err != nil {
		return nil, err
	}

	start, err := pet.ParseEventDate(req.StartDate)
	if err != nil {
		return nil, &DateError{Err: err}
	}

	now := time.Now()
	e := &pet.Event{
		ID:          uuid.New(),
		PetID:       req.PetID,
		UserID:      ownerID,
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		StartDate:   start,
		IsAllDay:    req.IsAllDay,
		Reminder:    req.Reminder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return e, nil
}

func (s *EventService) ListEvents(ctx context.Context, ownerID uuid.UUID, filter pet.EventFilter) ([]*pet.Event, error) {
	if filter.PetID != nil {
		if _, err := s.pets.GetPet(ctx, ownerID, *filter.PetID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListByUser(ctx, ownerID, filter)
}

func (s *EventService) UpdateEvent(ctx context.Context, ownerID, eventID uuid.UUID, req *pet.UpdateEventRequest) (*pet.Event, error) {
	e, err := s.ownedEvent(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}

	if req.StartDate != nil {
		start, err := pet.ParseEventDate(*req.StartDate)
		if err != nil {
			return nil, &DateError{Err: err}
		}
		e.StartDate = start
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Type != nil {
		e.Type = *req.Type
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.IsAllDay != nil {
		e.IsAllDay = *req.IsAllDay
	}
	if req.Reminder != nil {
		e.Reminder = *req.Reminder
	}
	if req.Completed != nil {
		e.Completed = *req.Completed
	}
	e.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return e, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, ownerID, eventID uuid.UUID) error {
	if _, err := s.ownedEvent(ctx, ownerID, eventID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (s *EventService) ownedEvent(ctx context.Context, ownerID, eventID uuid.UUID) (*pet.Event, error) {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.UserID != ownerID {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"event_id": eventID, "user_id": ownerID}).Warn("event access denied")
		}
		return nil, fmt.Errorf("event %s: %w", eventID, ports.ErrForbidden)
	}
	return e, nil
}
