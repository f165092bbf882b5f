package handlers

import (
	"net/http"

	"condoparcel/internal/common"
	"condoparcel/internal/repositories"

	"github.com/labstack/echo/v4"
)

type PlanHandlers struct {
	planRepo repositories.PlanRepository
}

func NewPlanHandlers(planRepo repositories.PlanRepository) *PlanHandlers {
	return &PlanHandlers{planRepo: planRepo}
}

func (h *PlanHandlers) ListPlans(c echo.Context) error {
	plans, err := h.planRepo.List(c.Request().Context())
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, plans)
}
