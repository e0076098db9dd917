package ports

import (
	"context"

	"github.com/avatarctic/petpal/internal/core/domain/pet"
	"github.com/google/uuid"
)

type PetRepository interface {
	Create(ctx context.Context, p *pet.Pet) error
	GetByID(ctx context.Context, id uuid.UUID) (*pet.Pet, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*pet.Pet, error)
	Update(ctx context.Context, p *pet.Pet) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PetService enforces ownership: every method acts on behalf of ownerID.
type PetService interface {
	CreatePet(ctx context.Context, ownerID uuid.UUID, req *pet.CreatePetRequest) (*pet.Pet, error)
	GetPet(ctx context.Context, ownerID, petID uuid.UUID) (*pet.Pet, error)
	ListPets(ctx context.Context, ownerID uuid.UUID) ([]*pet.Pet, error)
	UpdatePet(ctx context.Context, ownerID, petID uuid.UUID, req *pet.UpdatePetRequest) (*pet.Pet, error)
	DeletePet(ctx context.Context, ownerID, petID uuid.UUID) error
}

type EventRepository interface {
	Create(ctx context.Context, e *pet.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*pet.Event, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter pet.EventFilter) ([]*pet.Event, error)
	Update(ctx context.Context, e *pet.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type EventService interface {
	CreateEvent(ctx context.Context, ownerID uuid.UUID, req *pet.CreateEventRequest) (*pet.Event, error)
	ListEvents(ctx context.Context, ownerID uuid.UUID, filter pet.EventFilter) ([]*pet.Event, error)
	UpdateEvent(ctx context.Context, ownerID, eventID uuid.UUID, req *pet.UpdateEventRequest) (*pet.Event, error)
	DeleteEvent(ctx context.Context, ownerID, eventID uuid.UUID) error
}
