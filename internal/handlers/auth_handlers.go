package handlers

import (
	"net/http"

	"condoparcel/internal/common"
	"condoparcel/internal/models"
	"condoparcel/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles login and self-service signup
type AuthHandlers struct {
	authService   services.AuthService
	signupService services.SignupService
}

func NewAuthHandlers(authService services.AuthService, signupService services.SignupService) *AuthHandlers {
	return &AuthHandlers{
		authService:   authService,
		signupService: signupService,
	}
}

// LoginRequest accepts an email address or a CPF as the login
type LoginRequest struct {
	Login    string `json:"login" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type CondominiumSignupResponse struct {
	*services.CondominiumSignup
	Token *models.TokenResponse `json:"token"`
}

type ResidentSignupResponse struct {
	*services.ResidentSignup
	Token *models.TokenResponse `json:"token"`
}

func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return common.RespondError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return common.RespondError(c, err)
	}

	token, err := h.authService.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, token)
}

// SignupCondominium registers a condominium with its administrator and logs the
// administrator in.
func (h *AuthHandlers) SignupCondominium(c echo.Context) error {
	var req services.RegisterCondominiumRequest
	if err := bind(c, &req); err != nil {
		return common.RespondError(c, err)
	}

	result, err := h.signupService.RegisterCondominium(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	token, err := h.authService.GenerateToken(result.Admin)
	if err != nil {
		return common.RespondError(c, err)
	}
	return created(c, CondominiumSignupResponse{CondominiumSignup: result, Token: token})
}

func (h *AuthHandlers) SignupResident(c echo.Context) error {
	var req services.RegisterResidentRequest
	if err := bind(c, &req); err != nil {
		return common.RespondError(c, err)
	}

	result, err := h.signupService.RegisterResident(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	token, err := h.authService.GenerateToken(result.User)
	if err != nil {
		return common.RespondError(c, err)
	}
	return created(c, ResidentSignupResponse{ResidentSignup: result, Token: token})
}

// Me echoes the identity carried by the bearer token.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	condominiumID, _ := common.GetCondominiumIDFromContext(ctx)
	role, _ := common.GetRoleFromContext(ctx)

	return c.JSON(http.StatusOK, map[string]string{
		"user_id":        userID.String(),
		"condominium_id": condominiumID.String(),
		"role":           role,
	})
}
