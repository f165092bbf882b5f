package handlers

import (
	"condoparcel/internal/common"
	"condoparcel/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers manages staff accounts inside a condominium
type UserHandlers struct {
	signupService services.SignupService
}

func NewUserHandlers(signupService services.SignupService) *UserHandlers {
	return &UserHandlers{signupService: signupService}
}

func (h *UserHandlers) CreateDoorstaff(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}

	var req services.AccountRequest
	if err := bind(c, &req); err != nil {
		return common.RespondError(c, err)
	}

	user, err := h.signupService.RegisterDoorstaff(c.Request().Context(), tc.Condominium.ID, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return created(c, user)
}
