package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// RBAC enforces role-based access control against the role claim set by Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrAdminRequired
			}
			return next(c)
		}
	}
}
