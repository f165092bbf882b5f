package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"condoparcel/internal/caching"
	"condoparcel/internal/common"
	"condoparcel/internal/models"
	"condoparcel/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxProofSize bounds uploaded proof documents.
const MaxProofSize = 10 << 20

var allowedProofTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// PickupService records the handover of a pending package to a resident.
type PickupService interface {
	RecordWithdrawal(ctx context.Context, req *RecordWithdrawalRequest) (*models.Withdrawal, error)
	ListResidentsOfUnit(ctx context.Context, unitID, condominiumID uuid.UUID) ([]models.UserRef, error)
	UploadProof(ctx context.Context, condominiumID, packageID uuid.UUID, file io.Reader, size int64, contentType string) (string, error)
	ProofURL(ctx context.Context, condominiumID, packageID uuid.UUID) (string, error)
}

type RecordWithdrawalRequest struct {
	PackageID         uuid.UUID                 `json:"-"`
	CondominiumID     uuid.UUID                 `json:"-"`
	ActingDoorstaffID uuid.UUID                 `json:"-"`
	WithdrawingUserID uuid.UUID                 `json:"withdrawing_user_id" validate:"required"`
	Method            models.ConfirmationMethod `json:"method" validate:"omitempty,oneof=DOCUMENT SIGNATURE"`
	ProofReference    *string                   `json:"proof_reference" validate:"omitempty,max=255"`
}

type pickupService struct {
	packageRepo    repositories.PackageRepository
	unitRepo       repositories.UnitRepository
	residentRepo   repositories.ResidentUnitRepository
	withdrawalRepo repositories.WithdrawalRepository
	userRepo       repositories.UserRepository
	storage        ProofStorage
	cache          caching.ViewCache
	proofURLExpiry time.Duration
	now            func() time.Time
}

func NewPickupService(
	packageRepo repositories.PackageRepository,
	unitRepo repositories.UnitRepository,
	residentRepo repositories.ResidentUnitRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	userRepo repositories.UserRepository,
	storage ProofStorage,
	cache caching.ViewCache,
	proofURLExpiry time.Duration,
) PickupService {
	return &pickupService{
		packageRepo:    packageRepo,
		unitRepo:       unitRepo,
		residentRepo:   residentRepo,
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
		storage:        storage,
		cache:          cache,
		proofURLExpiry: proofURLExpiry,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// RecordWithdrawal flips the package to DELIVERED and stores the withdrawal in one
// transaction. When a concurrent cancel or withdrawal wins, the caller gets InvalidState.
func (s *pickupService) RecordWithdrawal(ctx context.Context, req *RecordWithdrawalRequest) (*models.Withdrawal, error) {
	if req.Method == "" {
		req.Method = models.ConfirmByDocument
	}
	req.ProofReference = common.TrimOptional(req.ProofReference)
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Method == models.ConfirmByDocument && (req.ProofReference == nil || len(*req.ProofReference) < 5) {
		return nil, common.NewValidationError("proof_reference", "document confirmation needs a document reference of at least 5 characters")
	}

	pkg, err := s.packageRepo.GetInCondominium(ctx, req.CondominiumID, req.PackageID)
	if err != nil {
		return nil, err
	}
	if !pkg.Status.CanTransitionTo(models.PackageDelivered) {
		return nil, fmt.Errorf("package %s is %s: %w", pkg.ID, pkg.Status, common.ErrInvalidState)
	}
	if err := s.checkWithdrawingUser(ctx, req.WithdrawingUserID, req.CondominiumID); err != nil {
		return nil, err
	}

	withdrawal := &models.Withdrawal{
		ID:             uuid.New(),
		PackageID:      pkg.ID,
		WithdrawnBy:    req.WithdrawingUserID,
		WithdrawnAt:    s.now(),
		Method:         req.Method,
		ProofReference: req.ProofReference,
	}
	if err := s.packageRepo.MarkDelivered(ctx, withdrawal); err != nil {
		return nil, err
	}

	log.Info().
		Str("package_id", pkg.ID.String()).
		Str("withdrawal_id", withdrawal.ID.String()).
		Str("withdrawn_by", withdrawal.WithdrawnBy.String()).
		Str("doorstaff_id", req.ActingDoorstaffID.String()).
		Str("method", string(withdrawal.Method)).
		Msg("package withdrawn")

	revalidate(ctx, s.cache, caching.PackagesScope(req.CondominiumID))
	return withdrawal, nil
}

// checkWithdrawingUser accepts any active user of the condominium, linked to the unit or not.
func (s *pickupService) checkWithdrawingUser(ctx context.Context, userID, condominiumID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	if err != nil || user.CondominiumID != condominiumID || !user.Active {
		return common.NewValidationError("withdrawing_user_id", "must be an active user of this condominium")
	}
	return nil
}

// ListResidentsOfUnit lists who may pick up a unit's packages, primary resident first.
func (s *pickupService) ListResidentsOfUnit(ctx context.Context, unitID, condominiumID uuid.UUID) ([]models.UserRef, error) {
	if _, err := s.unitRepo.GetInCondominium(ctx, condominiumID, unitID); err != nil {
		return nil, err
	}
	return s.residentRepo.ListResidentsOfUnit(ctx, unitID)
}

// UploadProof stores a proof document for a pending package and returns the reference
// to pass to RecordWithdrawal.
func (s *pickupService) UploadProof(ctx context.Context, condominiumID, packageID uuid.UUID, file io.Reader, size int64, contentType string) (string, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := allowedProofTypes[contentType]
	if !ok {
		return "", common.NewValidationError("file", "must be a JPEG, PNG or PDF document")
	}
	if size <= 0 || size > MaxProofSize {
		return "", common.NewValidationError("file", fmt.Sprintf("must be between 1 byte and %d bytes", MaxProofSize))
	}

	pkg, err := s.packageRepo.GetInCondominium(ctx, condominiumID, packageID)
	if err != nil {
		return "", err
	}
	if pkg.Status != models.PackagePending {
		return "", fmt.Errorf("package %s is %s: %w", pkg.ID, pkg.Status, common.ErrInvalidState)
	}

	objectName := path.Join(condominiumID.String(), packageID.String(), uuid.NewString()+ext)
	if err := s.storage.Upload(ctx, objectName, file, size, contentType); err != nil {
		return "", fmt.Errorf("failed to store proof: %w", err)
	}

	log.Info().Str("package_id", packageID.String()).Str("object", objectName).Msg("withdrawal proof stored")
	return objectName, nil
}

// ProofURL returns a short-lived download link for the proof attached to a withdrawal.
func (s *pickupService) ProofURL(ctx context.Context, condominiumID, packageID uuid.UUID) (string, error) {
	if _, err := s.packageRepo.GetInCondominium(ctx, condominiumID, packageID); err != nil {
		return "", err
	}
	withdrawal, err := s.withdrawalRepo.GetByPackageID(ctx, packageID)
	if err != nil {
		return "", err
	}
	if withdrawal.ProofReference == nil || !strings.HasPrefix(*withdrawal.ProofReference, condominiumID.String()+"/") {
		return "", fmt.Errorf("withdrawal has no stored proof: %w", common.ErrNotFound)
	}

	url, err := s.storage.PresignedURL(ctx, *withdrawal.ProofReference, s.proofURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign proof url: %w", err)
	}
	return url, nil
}

