package handlers

import (
	"net/http"

	"condoparcel/internal/common"
	"condoparcel/internal/services"

	"github.com/labstack/echo/v4"
)

// PickupHandlers records withdrawals and serves their proof documents
type PickupHandlers struct {
	pickupService services.PickupService
}

func NewPickupHandlers(pickupService services.PickupService) *PickupHandlers {
	return &PickupHandlers{pickupService: pickupService}
}

func (h *PickupHandlers) RecordWithdrawal(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	packageID, err := common.ValidateUUID(c.Param("packageId"), "package_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req services.RecordWithdrawalRequest
	if err := bind(c, &req); err != nil {
		return common.RespondError(c, err)
	}
	req.PackageID = packageID
	req.CondominiumID = tc.Condominium.ID
	req.ActingDoorstaffID = tc.User.ID

	withdrawal, err := h.pickupService.RecordWithdrawal(c.Request().Context(), &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return created(c, withdrawal)
}

// UploadProof accepts a multipart "file" field and returns the reference to send as
// proof_reference when recording the withdrawal.
func (h *PickupHandlers) UploadProof(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	packageID, err := common.ValidateUUID(c.Param("packageId"), "package_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return common.RespondError(c, common.NewValidationError("file", "is required"))
	}
	file, err := fh.Open()
	if err != nil {
		return common.RespondError(c, err)
	}
	defer file.Close()

	ref, err := h.pickupService.UploadProof(c.Request().Context(), tc.Condominium.ID, packageID, file, fh.Size, fh.Header.Get(echo.HeaderContentType))
	if err != nil {
		return common.RespondError(c, err)
	}
	return created(c, map[string]string{"proof_reference": ref})
}

func (h *PickupHandlers) ProofURL(c echo.Context) error {
	tc, err := tenant(c)
	if err != nil {
		return common.RespondError(c, err)
	}
	packageID, err := common.ValidateUUID(c.Param("packageId"), "package_id")
	if err != nil {
		return common.RespondError(c, err)
	}

	url, err := h.pickupService.ProofURL(c.Request().Context(), tc.Condominium.ID, packageID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
