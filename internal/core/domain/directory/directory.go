package directory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AllCategories is the category sentinel meaning "no category filter".
const AllCategories = "all"

// Provider is a curated local business listing.
type Provider struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Category     string    `json:"category" db:"category"`
	Address      string    `json:"address" db:"address"`
	City         string    `json:"city" db:"city"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Website      *string   `json:"website,omitempty" db:"website"`
	OpeningHours *string   `json:"openingHours,omitempty" db:"opening_hours"`
	Description  *string   `json:"description,omitempty" db:"description"`
	ImageURL     *string   `json:"imageUrl,omitempty" db:"image_url"`
	// Rating is stored in tenths of a star (45 == 4.5).
	Rating      *int      `json:"rating,omitempty" db:"rating"`
	ReviewCount int       `json:"reviewCount" db:"review_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// CityInfo is an editorial article about pet life in a city.
type CityInfo struct {
	ID        uuid.UUID `json:"id" db:"id"`
	City      string    `json:"city" db:"city"`
	Category  string    `json:"category" db:"category"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	ImageURL  *string   `json:"imageUrl,omitempty" db:"image_url"`
	Source    *string   `json:"source,omitempty" db:"source"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Filter selects rows by city and optional category, both case-insensitive.
type Filter struct {
	City     string
	Category string
}

// NewFilter normalizes raw query parameters. An empty category or the "all"
// sentinel yields an unfiltered category.
func NewFilter(city, category string) Filter {
	f := Filter{City: strings.ToLower(strings.TrimSpace(city)), Category: strings.ToLower(strings.TrimSpace(category))}
	if f.Category == AllCategories {
		f.Category = ""
	}
	return f
}

// CacheKey is a stable identifier for the filter, used by read-through caches.
func (f Filter) CacheKey() string {
	category := f.Category
	if category == "" {
		category = AllCategories
	}
	return f.City + ":" + category
}
