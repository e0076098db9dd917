package helpers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ctxKey string

const (
	keyUserID   ctxKey = "user_id"
	keyUsername ctxKey = "username"
	keyToken    ctxKey = "access_token"
)

func SetUserID(c echo.Context, id uuid.UUID) { c.Set(string(keyUserID), id) }
func GetUserIDRaw(c echo.Context) (uuid.UUID, bool) {
	v := c.Get(string(keyUserID))
	id, ok := v.(uuid.UUID)
	return id, ok
}

func SetUsername(c echo.Context, username string) { c.Set(string(keyUsername), username) }
func GetUsernameRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyUsername))
	s, ok := v.(string)
	return s, ok
}

func SetAccessToken(c echo.Context, token string) { c.Set(string(keyToken), token) }
func GetAccessTokenRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyToken))
	s, ok := v.(string)
	return s, ok && s != ""
}
