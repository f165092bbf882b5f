package middleware

import (
	"net/http"

	"condoparcel/internal/common"
	"condoparcel/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through only when the caller holds one of roles. Behind
// TenancyGuard the role comes from the user record loaded for this request, so a role
// change applies immediately; elsewhere the token's role is used.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := callerRole(c)
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if !allowed[role] {
				return c.JSON(http.StatusForbidden, common.CreateErrorResponse("FORBIDDEN", "Insufficient permissions", nil))
			}
			return next(c)
		}
	}
}

func callerRole(c echo.Context) (models.Role, bool) {
	if tc := Tenant(c); tc != nil && tc.User != nil {
		return tc.User.Role, true
	}
	role, ok := common.GetRoleFromContext(c.Request().Context())
	return models.Role(role), ok
}
