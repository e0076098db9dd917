package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/content"
	"github.com/labstack/echo/v4"
)

type servicesContentResponse struct {
	City      string          `json:"city"`
	Category  string          `json:"category"`
	Content   json.RawMessage `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
}

type petCareContentResponse struct {
	Topic     string          `json:"topic"`
	City      string          `json:"city"`
	Content   json.RawMessage `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
}

// queryOr returns the trimmed query parameter, or def when it is blank.
func queryOr(c echo.Context, name, def string) string {
	if v := strings.TrimSpace(c.QueryParam(name)); v != "" {
		return v
	}
	return def
}

// getAIServices serves the memoized services listing for ?city=&category=.
func (s *Server) getAIServices(c echo.Context) error {
	city := queryOr(c, "city", "")
	if city == "" {
		return &content.InvalidKeyError{Field: "city"}
	}
	category := queryOr(c, "category", content.AllCategories)

	rec, err := s.contentSvc.GetServiceListing(c.Request().Context(), city, category)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, servicesContentResponse{
		City:      rec.Location,
		Category:  rec.Topic,
		Content:   rec.Content,
		Timestamp: rec.FetchedAt,
	})
}

// getAIPetCare serves the memoized pet care guide for ?topic=&city=.
func (s *Server) getAIPetCare(c echo.Context) error {
	topic := queryOr(c, "topic", "")
	if topic == "" {
		return &content.InvalidKeyError{Field: "topic"}
	}
	city := queryOr(c, "city", content.GeneralLocation)

	rec, err := s.contentSvc.GetPetCareGuide(c.Request().Context(), topic, city)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, petCareContentResponse{
		Topic:     rec.Topic,
		City:      rec.Location,
		Content:   rec.Content,
		Timestamp: rec.FetchedAt,
	})
}
