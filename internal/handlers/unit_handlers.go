package handlers

import (
	"net/http"

	"condoparcel/internal/caching"
	"condoparcel/internal/common"
	"condoparcel/internal/models"
	"condoparcel/internal/services"

	"github.com/labstack/echo/v4"
)

// UnitHandlers serves the unit registry and the administrator dashboard
type UnitHandlers struct {
	unitService   services.UnitService
	pickupService services.PickupService
	cache         caching.ViewCache
}

func NewUnitHandlers(unitService services.UnitService, pickupService services.PickupService, cache caching.ViewCache) *UnitHandlers {
	return &UnitHandlers{
		unitService:   unitService,
		pickupService: pickupService,
		cache:         cache,
	}
}

func (h *UnitHandlers) AddUnit(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req services.AddUnitRequest
	if err := bind(c, &req); err != nil {
		return common.RespondError(c, err)
	}
	req.CondominiumID = tc.Condominium.ID
	req.RequestingUserID = tc.User.ID

	unit, err := h.unitService.AddUnit(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return created(c, unit)
}

// ListUnits returns every unit to staff and only the caller's own units to residents.
func (h *UnitHandlers) ListUnits(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	ctx := c.Request().Context()

	var units []*models.Unit
	if tc.User.Role == models.RoleResident {
		units, err = h.unitService.ListResidentUnits(ctx, tc.User.ID)
	} else {
		units, err = h.unitService.ListUnits(ctx, tc.Condominium.ID)
		setScopeVersion(c, h.cache, caching.UnitsScope(tc.Condominium.ID))
	}
	if err != nil {
		return common.RespondError(c, err)
	}
	if units == nil {
		units = []*models.Unit{}
	}
	return c.JSON(http.StatusOK, units)
}

func (h *UnitHandlers) Dashboard(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	dashboard, err := h.unitService.Dashboard(c.Request().Context(), tc.Condominium.ID)
	if err != nil {
		return common.RespondError(c, err)
	}
	setScopeVersion(c, h.cache, caching.UnitsScope(tc.Condominium.ID))
	return c.JSON(http.StatusOK, dashboard)
}

func (h *UnitHandlers) ListResidents(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	unitID, err := common.ValidateUUID(c.Param("unitId"), "unit_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	residents, err := h.pickupService.ListResidentsOfUnit(c.Request().Context(), unitID, tc.Condominium.ID)
	if err != nil {
		return common.RespondError(c, err)
	}
	if residents == nil {
		residents = []models.UserRef{}
	}
	return c.JSON(http.StatusOK, residents)
}
