package middleware

import (
	"condoparcel/internal/common"
	"condoparcel/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	CondominiumParam = "condominiumId"
	tenantContextKey = "tenant"
)

// TenancyGuard resolves the :condominiumId route parameter against the authenticated
// user on every request. Handlers behind it read the result with Tenant.
func TenancyGuard(tenancy services.TenancyService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			condominiumID, err := common.ValidateUUID(c.Param(CondominiumParam), "condominium_id")
			if err != nil {
				return common.RespondError(c, err)
			}
			userID, _ := common.GetUserIDFromContext(c.Request().Context())

			tc, err := tenancy.ResolveContext(c.Request().Context(), condominiumID, userID)
			if err != nil {
				return common.RespondError(c, err)
			}

			SetTenant(c, tc)
			return next(c)
		}
	}
}

func SetTenant(c echo.Context, tc *services.TenantContext) {
	c.Set(tenantContextKey, tc)
}

// Tenant returns the context resolved by TenancyGuard, or nil outside guarded routes.
func Tenant(c echo.Context) *services.TenantContext {
	tc, _ := c.Get(tenantContextKey).(*services.TenantContext)
	return tc
}
