package helpers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Keys under which the JWT middleware stores the authenticated caller.
const (
	UserIDKey = "finance.user_id"
	TokenKey  = "finance.token"
)

func lookup[T any](c echo.Context, key string) (T, bool) {
	v, ok := c.Get(key).(T)
	return v, ok
}

func SetUserID(c echo.Context, id uuid.UUID) { c.Set(UserIDKey, id) }

func GetUserIDRaw(c echo.Context) (uuid.UUID, bool) {
	id, ok := lookup[uuid.UUID](c, UserIDKey)
	return id, ok && id != uuid.Nil
}

func SetToken(c echo.Context, token string) { c.Set(TokenKey, token) }

func GetTokenRaw(c echo.Context) (string, bool) {
	return lookup[string](c, TokenKey)
}
