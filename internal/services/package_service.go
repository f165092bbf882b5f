package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"condoparcel/internal/caching"
	"condoparcel/internal/common"
	"condoparcel/internal/models"
	"condoparcel/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PackageService drives the package lifecycle: PENDING -> DELIVERED through the pickup
// flow, PENDING -> CANCELLED through Cancel. Both end states are final.
type PackageService interface {
	RegisterByResident(ctx context.Context, residentID, unitID uuid.UUID, details models.PackageDetails) (*models.Package, error)
	RegisterByDoorstaff(ctx context.Context, doorstaffID, unitID, condominiumID uuid.UUID, details models.PackageDetails) (*models.Package, error)
	Cancel(ctx context.Context, packageID, requestingUserID uuid.UUID) error
	ListPending(ctx context.Context, scope models.PackageScope) ([]*models.PackageView, error)
	ListHistory(ctx context.Context, scope models.PackageScope) ([]*models.HistoryRecord, error)
}

// PackageDetailsRequest is the body shared by both registration routes.
type PackageDetailsRequest struct {
	Type         string  `json:"type" validate:"notblank,max=50"`
	Size         string  `json:"size" validate:"notblank,max=50"`
	Carrier      string  `json:"carrier" validate:"notblank,max=100"`
	TrackingCode *string `json:"tracking_code" validate:"omitempty,max=100"`
	Condition    *string `json:"condition" validate:"omitempty,max=500"`
}

func (r *PackageDetailsRequest) Details() models.PackageDetails {
	return models.PackageDetails{
		Type:         r.Type,
		Size:         r.Size,
		Carrier:      r.Carrier,
		TrackingCode: common.TrimOptional(r.TrackingCode),
		Condition:    common.TrimOptional(r.Condition),
	}
}

type packageService struct {
	packageRepo  repositories.PackageRepository
	unitRepo     repositories.UnitRepository
	residentRepo repositories.ResidentUnitRepository
	cache        caching.ViewCache
	now          func() time.Time
}

func NewPackageService(
	packageRepo repositories.PackageRepository,
	unitRepo repositories.UnitRepository,
	residentRepo repositories.ResidentUnitRepository,
	cache caching.ViewCache,
) PackageService {
	return &packageService{
		packageRepo:  packageRepo,
		unitRepo:     unitRepo,
		residentRepo: residentRepo,
		cache:        cache,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func validateDetails(details models.PackageDetails) error {
	req := PackageDetailsRequest{
		Type:         details.Type,
		Size:         details.Size,
		Carrier:      details.Carrier,
		TrackingCode: details.TrackingCode,
		Condition:    details.Condition,
	}
	return common.ValidateStruct(&req)
}

// RegisterByResident pre-registers a delivery the resident expects at one of their units.
func (s *packageService) RegisterByResident(ctx context.Context, residentID, unitID uuid.UUID, details models.PackageDetails) (*models.Package, error) {
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	linked, err := s.residentRepo.IsLinked(ctx, residentID, unitID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, fmt.Errorf("resident %s, unit %s: %w", residentID, unitID, common.ErrNotLinkedToUnit)
	}

	pkg := models.NewPackage(unitID, models.ResidentOrigin{ResidentID: residentID}, details)
	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}

	log.Info().
		Str("package_id", pkg.ID.String()).
		Str("unit_id", unitID.String()).
		Str("origin", "resident").
		Msg("package registered")

	s.revalidateUnit(ctx, unitID)
	return pkg, nil
}

// RegisterByDoorstaff logs a package physically received at the front desk.
func (s *packageService) RegisterByDoorstaff(ctx context.Context, doorstaffID, unitID, condominiumID uuid.UUID, details models.PackageDetails) (*models.Package, error) {
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	if _, err := s.unitRepo.GetInCondominium(ctx, condominiumID, unitID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("unit %s: %w", unitID, common.ErrCrossTenantUnit)
		}
		return nil, err
	}

	origin := models.DoorstaffOrigin{DoorstaffID: doorstaffID, ReceivedAt: s.now()}
	pkg := models.NewPackage(unitID, origin, details)
	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}

	log.Info().
		Str("package_id", pkg.ID.String()).
		Str("unit_id", unitID.String()).
		Str("doorstaff_id", doorstaffID.String()).
		Str("origin", "doorstaff").
		Msg("package registered")

	revalidate(ctx, s.cache, caching.PackagesScope(condominiumID))
	return pkg, nil
}

// Cancel withdraws a resident's own pre-registration. Doorstaff receipts have no
// registering resident and therefore cannot be cancelled by anyone.
func (s *packageService) Cancel(ctx context.Context, packageID, requestingUserID uuid.UUID) error {
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return err
	}
	if pkg.RegisteredBy == nil || *pkg.RegisteredBy != requestingUserID {
		return fmt.Errorf("package %s: %w", packageID, common.ErrForbidden)
	}
	if !pkg.Status.CanTransitionTo(models.PackageCancelled) {
		return fmt.Errorf("package %s is %s: %w", packageID, pkg.Status, common.ErrInvalidState)
	}

	if err := s.packageRepo.Cancel(ctx, packageID); err != nil {
		return err
	}

	log.Info().Str("package_id", packageID.String()).Msg("package cancelled")
	s.revalidateUnit(ctx, pkg.UnitID)
	return nil
}

func (s *packageService) ListPending(ctx context.Context, scope models.PackageScope) ([]*models.PackageView, error) {
	return s.packageRepo.ListPending(ctx, scope)
}

func (s *packageService) ListHistory(ctx context.Context, scope models.PackageScope) ([]*models.HistoryRecord, error) {
	return s.packageRepo.ListHistory(ctx, scope)
}

func (s *packageService) revalidateUnit(ctx context.Context, unitID uuid.UUID) {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		log.Warn().Err(err).Str("unit_id", unitID.String()).Msg("revalidation skipped, unit lookup failed")
		return
	}
	revalidate(ctx, s.cache, caching.PackagesScope(unit.CondominiumID))
}
