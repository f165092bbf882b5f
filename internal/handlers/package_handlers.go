package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"condoparcel/internal/caching"
	"condoparcel/internal/common"
	"condoparcel/internal/models"
	"condoparcel/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PackageHandlers serves package registration, cancellation and the listings
type PackageHandlers struct {
	packageService services.PackageService
	cache          caching.ViewCache
}

func NewPackageHandlers(packageService services.PackageService, cache caching.ViewCache) *PackageHandlers {
	return &PackageHandlers{
		packageService: packageService,
		cache:          cache,
	}
}

type RegisterPackageRequest struct {
	UnitID string `json:"unit_id"`
	services.PackageDetailsRequest
}

func bindRegistration(c echo.Context) (*RegisterPackageRequest, uuid.UUID, error) {
	var req RegisterPackageRequest
	if err := bind(c, &req); err != nil {
		return nil, uuid.Nil, err
	}
	unitID, err := common.ValidateUUID(req.UnitID, "unit_id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	return &req, unitID, nil
}

// RegisterByResident pre-registers a package for one of the caller's units.
func (h *PackageHandlers) RegisterByResident(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	req, unitID, err := bindRegistration(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	pkg, err := h.packageService.RegisterByResident(c.Request().Context(), tc.User.ID, unitID, req.Details())
	if err != nil {
		return common.RespondError(c, err)
	}
	return created(c, pkg)
}

// RegisterByDoorstaff logs a package received at the front desk.
func (h *PackageHandlers) RegisterByDoorstaff(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	req, unitID, err := bindRegistration(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	pkg, err := h.packageService.RegisterByDoorstaff(c.Request().Context(), tc.User.ID, unitID, tc.Condominium.ID, req.Details())
	if err != nil {
		return common.RespondError(c, err)
	}
	return created(c, pkg)
}

func (h *PackageHandlers) Cancel(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	packageID, err := common.ValidateUUID(c.Param("packageId"), "package_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.packageService.Cancel(c.Request().Context(), packageID, tc.User.ID); err != nil {
		return common.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// scopeFor narrows residents to their own units; staff see the whole condominium.
func scopeFor(tc *services.TenantContext) models.PackageScope {
	if tc.User.Role == models.RoleResident {
		return models.ResidentScope(tc.Condominium.ID, tc.User.ID)
	}
	return models.CondominiumScope(tc.Condominium.ID)
}

func (h *PackageHandlers) ListPending(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	packages, err := h.packageService.ListPending(c.Request().Context(), scopeFor(tc))
	if err != nil {
		return common.RespondError(c, err)
	}
	if packages == nil {
		packages = []*models.PackageView{}
	}
	setScopeVersion(c, h.cache, caching.PackagesScope(tc.Condominium.ID))
	return c.JSON(http.StatusOK, packages)
}

// ListHistory returns closed packages. Query parameters: mine=true keeps packages the
// calling doorstaff received, status=DELIVERED|CANCELLED keeps one end state.
func (h *PackageHandlers) ListHistory(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	filter, err := historyFilter(c, tc)
	if err != nil {
		return common.RespondError(c, err)
	}

	records, err := h.packageService.ListHistory(c.Request().Context(), scopeFor(tc))
	if err != nil {
		return common.RespondError(c, err)
	}
	setScopeVersion(c, h.cache, caching.PackagesScope(tc.Condominium.ID))
	return c.JSON(http.StatusOK, services.FilterHistory(records, filter))
}

func historyFilter(c echo.Context, tc *services.TenantContext) (services.HistoryFilter, error) {
	filter := services.HistoryFilter{DoorstaffID: tc.User.ID}

	if raw := c.QueryParam("mine"); raw != "" {
		mine, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, common.NewValidationError("mine", "must be true or false")
		}
		filter.MineOnly = mine
	}

	if raw := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); raw != "" {
		status := models.PackageStatus(raw)
		if !status.Valid() || !status.Terminal() {
			return filter, common.NewValidationError("status", "must be DELIVERED or CANCELLED")
		}
		filter.Status = &status
	}
	return filter, nil
}
