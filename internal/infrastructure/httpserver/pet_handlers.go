package httpserver

import (
	"net/http"
	"time"

	"github.com/avatarctic/petpal/internal/core/domain/pet"
	"github.com/avatarctic/petpal/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
)

func (s *Server) listPets(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	pets, err := s.petSvc.ListPets(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pets)
}

func (s *Server) createPet(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req pet.CreatePetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := s.petSvc.CreatePet(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) getPet(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	petID, err := helpers.GetUUIDParam(c, "id")
	if err != nil {
		return err
	}

	p, err := s.petSvc.GetPet(c.Request().Context(), userID, petID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) updatePet(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	petID, err := helpers.GetUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req pet.UpdatePetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := s.petSvc.UpdatePet(c.Request().Context(), userID, petID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deletePet(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	petID, err := helpers.GetUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.petSvc.DeletePet(c.Request().Context(), userID, petID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// listEvents accepts optional petId plus start/end calendar days; end is inclusive.
func (s *Server) listEvents(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var filter pet.EventFilter
	petID, ok, err := helpers.GetUUIDQuery(c, "petId")
	if err != nil {
		return err
	}
	if ok {
		filter.PetID = &petID
	}
	if raw := c.QueryParam("start"); raw != "" {
		from, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "start must be YYYY-MM-DD")
		}
		filter.From = from
	}
	if raw := c.QueryParam("end"); raw != "" {
		to, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end must be YYYY-MM-DD")
		}
		filter.To = to.AddDate(0, 0, 1)
	}

	events, err := s.eventSvc.ListEvents(c.Request().Context(), userID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

func (s *Server) createEvent(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req pet.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := s.eventSvc.CreateEvent(c.Request().Context(), userID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) updateEvent(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	eventID, err := helpers.GetUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req pet.UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := s.eventSvc.UpdateEvent(c.Request().Context(), userID, eventID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteEvent(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	eventID, err := helpers.GetUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.eventSvc.DeleteEvent(c.Request().Context(), userID, eventID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
