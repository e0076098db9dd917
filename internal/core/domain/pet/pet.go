package pet

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const DefaultAgeUnit = "years"

type Pet struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	UserID         uuid.UUID       `json:"userId" db:"user_id"`
	Name           string          `json:"name" db:"name"`
	Type           string          `json:"type" db:"type"`
	Breed          *string         `json:"breed,omitempty" db:"breed"`
	Age            *int            `json:"age,omitempty" db:"age"`
	AgeUnit        string          `json:"ageUnit" db:"age_unit"`
	Gender         *string         `json:"gender,omitempty" db:"gender"`
	Weight         *int            `json:"weight,omitempty" db:"weight"`
	Description    *string         `json:"description,omitempty" db:"description"`
	ProfilePicture *string         `json:"profilePicture,omitempty" db:"profile_picture"`
	HealthInfo     json.RawMessage `json:"healthInfo,omitempty" db:"health_info"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

type CreatePetRequest struct {
	Name           string          `json:"name" validate:"required"`
	Type           string          `json:"type" validate:"required"`
	Breed          *string         `json:"breed,omitempty"`
	Age            *int            `json:"age,omitempty" validate:"omitempty,gte=0"`
	AgeUnit        string          `json:"ageUnit,omitempty" validate:"omitempty,oneof=years months weeks"`
	Gender         *string         `json:"gender,omitempty"`
	Weight         *int            `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Description    *string         `json:"description,omitempty"`
	ProfilePicture *string         `json:"profilePicture,omitempty"`
	HealthInfo     json.RawMessage `json:"healthInfo,omitempty"`
}

// UpdatePetRequest carries a partial update; nil fields are left unchanged.
type UpdatePetRequest struct {
	Name           *string         `json:"name,omitempty" validate:"omitempty,min=1"`
	Type           *string         `json:"type,omitempty" validate:"omitempty,min=1"`
	Breed          *string         `json:"breed,omitempty"`
	Age            *int            `json:"age,omitempty" validate:"omitempty,gte=0"`
	AgeUnit        *string         `json:"ageUnit,omitempty" validate:"omitempty,oneof=years months weeks"`
	Gender         *string         `json:"gender,omitempty"`
	Weight         *int            `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Description    *string         `json:"description,omitempty"`
	ProfilePicture *string         `json:"profilePicture,omitempty"`
	HealthInfo     json.RawMessage `json:"healthInfo,omitempty"`
}

func (req *UpdatePetRequest) Apply(p *Pet) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Type != nil {
		p.Type = *req.Type
	}
	if req.Breed != nil {
		p.Breed = req.Breed
	}
	if req.Age != nil {
		p.Age = req.Age
	}
	if req.AgeUnit != nil {
		p.AgeUnit = *req.AgeUnit
	}
	if req.Gender != nil {
		p.Gender = req.Gender
	}
	if req.Weight != nil {
		p.Weight = req.Weight
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.ProfilePicture != nil {
		p.ProfilePicture = req.ProfilePicture
	}
	if len(req.HealthInfo) > 0 {
		p.HealthInfo = req.HealthInfo
	}
}
