package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/productr/catalog-system/internal/api/middleware"
	"github.com/productr/catalog-system/internal/core/domain"
)

// ownerID returns the user id injected by the Auth middleware. An empty value
// means the middleware did not run and the request is rejected.
func ownerID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.UserIDKey).(string)
	if id == "" {
		return "", domain.ErrUnauthorized
	}
	return id, nil
}
