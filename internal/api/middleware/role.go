package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mb-platform/user-service/internal/core/ports"
)

// RequireRole enforces role-based access. Tokens carry only the subject name,
// so the caller's current role is resolved through the service on every
// request; a role change takes effect immediately, without re-issuing tokens.
func RequireRole(svc ports.UserService, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject, _ := c.Get(SubjectKey).(string)
			if subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			user, err := svc.GetByName(c.Request().Context(), subject)
			if err != nil {
				// The subject may have been deleted since the token was issued.
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown subject")
			}

			if _, ok := allowed[user.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
