package content

import (
	"encoding/json"
	"time"
)

// FreshnessWindow is how long a memoized answer is served without re-querying upstream.
const FreshnessWindow = 24 * time.Hour

const (
	// AllCategories is the services sentinel for an unfiltered category.
	AllCategories = "all"
	// GeneralLocation is the pet care sentinel when no city is supplied.
	GeneralLocation = "general"
)

// Kind names a family of memoized answers; each kind has its own store.
type Kind string

const (
	KindServices Kind = "services"
	KindPetCare  Kind = "pet_care"
)

// Key addresses one memoized answer.
type Key struct {
	Location string `json:"location"`
	Topic    string `json:"topic"`
}

func (k Key) Validate() error {
	if k.Location == "" {
		return &InvalidKeyError{Field: "location"}
	}
	if k.Topic == "" {
		return &InvalidKeyError{Field: "topic"}
	}
	return nil
}

func (k Key) String() string { return k.Location + "/" + k.Topic }

// Record is one memoized AI answer. Content holds the validated, canonical JSON payload.
type Record struct {
	Location  string          `json:"location" db:"location"`
	Topic     string          `json:"topic" db:"topic"`
	Content   json.RawMessage `json:"content" db:"content"`
	FetchedAt time.Time       `json:"fetched_at" db:"fetched_at"`
}

func (r *Record) Key() Key { return Key{Location: r.Location, Topic: r.Topic} }

// IsFresh reports whether the record is younger than the freshness window at now.
func (r *Record) IsFresh(now time.Time) bool {
	return now.Sub(r.FetchedAt) < FreshnessWindow
}

// ServiceListing is the structured answer for a (city, category) services query.
type ServiceListing struct {
	Services []ServiceProvider `json:"services" validate:"required,dive"`
}

type ServiceProvider struct {
	Name         string   `json:"name" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Address      string   `json:"address" validate:"required"`
	Phone        string   `json:"phone,omitempty"`
	Website      string   `json:"website,omitempty"`
	OpeningHours string   `json:"openingHours,omitempty"`
	Rating       *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	ReviewCount  *int     `json:"reviewCount,omitempty" validate:"omitempty,gte=0"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Description  string   `json:"description,omitempty"`
	Animals      []string `json:"animals" validate:"required,dive,required"`
}

// PetCareGuide is the structured answer for a (city, topic) pet care query.
type PetCareGuide struct {
	Summary   string         `json:"summary" validate:"required"`
	Sections  []GuideSection `json:"sections" validate:"required,min=1,dive"`
	Tips      []string       `json:"tips" validate:"required,dive,required"`
	Resources []Resource     `json:"resources" validate:"required,dive"`
}

type GuideSection struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

type Resource struct {
	Name        string `json:"name" validate:"required"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}
