package handlers

import (
	"net/http"
	"strconv"

	"condoparcel/internal/caching"
	"condoparcel/internal/common"
	"condoparcel/internal/middleware"
	"condoparcel/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ScopeVersionHeader carries the revalidation counter of the listing being returned.
// Clients refetch when it changes.
const ScopeVersionHeader = "X-Scope-Version"

// RequestValidator plugs the shared validator into echo's c.Validate.
type RequestValidator struct{}

func (RequestValidator) Validate(i interface{}) error {
	return common.ValidateStruct(i)
}

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return common.NewValidationError("body", "malformed request body")
	}
	return nil
}

func tenant(c echo.Context) (*services.TenantContext, error) {
	tc := middleware.Tenant(c)
	if tc == nil {
		return nil, common.ErrUnauthorized
	}
	return tc, nil
}

func setScopeVersion(c echo.Context, cache caching.ViewCache, scope caching.Scope) {
	v, err := cache.Version(c.Request().Context(), scope)
	if err != nil {
		log.Debug().Err(err).Str("scope", string(scope)).Msg("scope version unavailable")
		return
	}
	c.Response().Header().Set(ScopeVersionHeader, strconv.FormatInt(v, 10))
}

func created(c echo.Context, body interface{}) error {
	return c.JSON(http.StatusCreated, body)
}
