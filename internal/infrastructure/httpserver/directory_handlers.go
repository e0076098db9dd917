package httpserver

import (
	"net/http"
	"strings"

	"github.com/avatarctic/petpal/internal/infrastructure/httpserver/helpers"
	"github.com/labstack/echo/v4"
)

func requiredQuery(c echo.Context, name string) (string, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, name+" is required")
	}
	return v, nil
}

func (s *Server) listServices(c echo.Context) error {
	city, err := requiredQuery(c, "city")
	if err != nil {
		return err
	}
	providers, err := s.directorySvc.ListProviders(c.Request().Context(), city, c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, providers)
}

func (s *Server) getService(c echo.Context) error {
	id, err := helpers.GetUUIDParam(c, "id")
	if err != nil {
		return err
	}
	provider, err := s.directorySvc.GetProvider(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, provider)
}

func (s *Server) listCityInfo(c echo.Context) error {
	city, err := requiredQuery(c, "city")
	if err != nil {
		return err
	}
	info, err := s.directorySvc.ListCityInfo(c.Request().Context(), city, c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}
