package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seismo-watch/seismic-api/internal/api/middleware"
)

// ctxUserID extracts the authenticated user id. Its absence means the route
// was registered without the Auth middleware.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
