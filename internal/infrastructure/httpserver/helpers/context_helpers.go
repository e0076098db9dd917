package helpers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	id, ok := GetUserIDRaw(c)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid user context")
	}
	return id, nil
}

// GetJWTTokenFromContext returns the bearer token stored by the JWT middleware,
// falling back to the Authorization header.
func GetJWTTokenFromContext(c echo.Context) (string, error) {
	if token, ok := GetAccessTokenRaw(c); ok {
		return token, nil
	}
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}
	return token, nil
}

// GetUUIDParam parses the named path parameter as a UUID.
func GetUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// GetUUIDQuery parses the named query parameter as a UUID. ok=false when it is absent.
func GetUUIDQuery(c echo.Context, name string) (id uuid.UUID, ok bool, err error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return uuid.Nil, false, nil
	}
	id, err = uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, true, nil
}
