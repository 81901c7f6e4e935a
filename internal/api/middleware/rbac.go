package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/nsqtech/record-tracker/internal/core/authz"
	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
	"github.com/nsqtech/record-tracker/internal/core/service"
)

// RequireAdmin rejects principals without the Admin role. It must run after
// Auth. A denial is counted and published to audit like the ones UserService
// makes itself.
func RequireAdmin(audit ports.AuditPublisher) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, _ := c.Get(PrincipalKey).(domain.Principal)
			if err := authz.RequireAdmin(p); err != nil {
				return service.DeniedUserAccess(audit, p, c.Param("user_id"), err)
			}
			return next(c)
		}
	}
}
