package pet

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventVet         EventType = "vet"
	EventGrooming    EventType = "grooming"
	EventMedication  EventType = "medication"
	EventVaccination EventType = "vaccination"
	EventTraining    EventType = "training"
	EventExercise    EventType = "exercise"
	EventFeeding     EventType = "feeding"
	EventOther       EventType = "other"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventVet, EventGrooming, EventMedication, EventVaccination, EventTraining, EventExercise, EventFeeding, EventOther:
		return true
	default:
		return false
	}
}

// Event is a calendar entry attached to a pet.
type Event struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PetID       uuid.UUID `json:"petId" db:"pet_id"`
	UserID      uuid.UUID `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Type        EventType `json:"type" db:"type"`
	Description *string   `json:"description,omitempty" db:"description"`
	StartDate   time.Time `json:"startDate" db:"start_date"`
	IsAllDay    bool      `json:"isAllDay" db:"is_all_day"`
	Reminder    bool      `json:"reminder" db:"reminder"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type CreateEventRequest struct {
	PetID       uuid.UUID `json:"petId" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Type        EventType `json:"type" validate:"required,oneof=vet grooming medication vaccination training exercise feeding other"`
	Description *string   `json:"description,omitempty"`
	StartDate   string    `json:"startDate" validate:"required"`
	IsAllDay    bool      `json:"isAllDay"`
	Reminder    bool      `json:"reminder"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	Type        *EventType `json:"type,omitempty" validate:"omitempty,oneof=vet grooming medication vaccination training exercise feeding other"`
	Description *string    `json:"description,omitempty"`
	StartDate   *string    `json:"startDate,omitempty"`
	IsAllDay    *bool      `json:"isAllDay,omitempty"`
	Reminder    *bool      `json:"reminder,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

// EventFilter narrows an event listing. Zero values mean unbounded.
type EventFilter struct {
	PetID *uuid.UUID
	From  time.Time
	To    time.Time
}

var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseEventDate accepts a calendar day, a local date-time or a full RFC 3339 timestamp.
func ParseEventDate(s string) (time.Time, error) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or YYYY-MM-DDTHH:MM", s)
}
