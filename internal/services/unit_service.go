package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"condoparcel/internal/caching"
	"condoparcel/internal/common"
	"condoparcel/internal/models"
	"condoparcel/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type UnitService interface {
	AddUnit(ctx context.Context, req *AddUnitRequest) (*models.Unit, error)
	ListUnits(ctx context.Context, condominiumID uuid.UUID) ([]*models.Unit, error)
	ListResidentUnits(ctx context.Context, userID uuid.UUID) ([]*models.Unit, error)
	Dashboard(ctx context.Context, condominiumID uuid.UUID) (*Dashboard, error)
}

type AddUnitRequest struct {
	Block            string    `json:"block" validate:"notblank,max=50"`
	Number           string    `json:"number" validate:"notblank,max=20"`
	CondominiumID    uuid.UUID `json:"-"`
	RequestingUserID uuid.UUID `json:"-"`
}

// Dashboard is the administrator's overview of a condominium.
type Dashboard struct {
	CondominiumName string         `json:"condominium_name"`
	UnitCount       int            `json:"unit_count"`
	BlockCount      int            `json:"block_count"`
	PlanName        string         `json:"plan_name,omitempty"`
	MaxUnits        int            `json:"max_units"`
	Units           []*models.Unit `json:"units"`
}

type unitService struct {
	unitRepo        repositories.UnitRepository
	userRepo        repositories.UserRepository
	condominiumRepo repositories.CondominiumRepository
	cache           caching.ViewCache
}

func NewUnitService(
	unitRepo repositories.UnitRepository,
	userRepo repositories.UserRepository,
	condominiumRepo repositories.CondominiumRepository,
	cache caching.ViewCache,
) UnitService {
	return &unitService{
		unitRepo:        unitRepo,
		userRepo:        userRepo,
		condominiumRepo: condominiumRepo,
		cache:           cache,
	}
}

// AddUnit registers a unit after checking the requester, the plan quota and the address.
// The counter increment and the insert commit together; losing a concurrent race on the
// last quota slot or on the same address surfaces as QuotaExceeded or DuplicateUnit.
func (s *unitService) AddUnit(ctx context.Context, req *AddUnitRequest) (*models.Unit, error) {
	req.Block = strings.TrimSpace(req.Block)
	req.Number = strings.TrimSpace(req.Number)
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	requester, err := s.userRepo.GetByID(ctx, req.RequestingUserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: requester not found", common.ErrUnauthorized)
		}
		return nil, err
	}
	if requester.Role != models.RoleAdmin || requester.CondominiumID != req.CondominiumID {
		return nil, fmt.Errorf("%w: only the condominium administrator can add units", common.ErrUnauthorized)
	}

	condominium, err := s.condominiumRepo.GetWithPlan(ctx, req.CondominiumID)
	if err != nil {
		return nil, err
	}
	if condominium.Plan == nil {
		return nil, fmt.Errorf("condominium has no plan: %w", common.ErrNotFound)
	}
	if condominium.UnitCount >= condominium.Plan.MaxUnits {
		return nil, &common.QuotaExceededError{Current: condominium.UnitCount, Limit: condominium.Plan.MaxUnits}
	}

	existing, err := s.unitRepo.FindByAddress(ctx, req.CondominiumID, req.Block, req.Number)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("unit %s: %w", existing.Label(), common.ErrDuplicateUnit)
	}

	unit := &models.Unit{
		ID:            uuid.New(),
		CondominiumID: req.CondominiumID,
		Block:         req.Block,
		Number:        req.Number,
	}
	if err := s.unitRepo.CreateWithCounter(ctx, unit, condominium.Plan.MaxUnits); err != nil {
		var quotaErr *common.QuotaExceededError
		if errors.As(err, &quotaErr) {
			quotaErr.Current = condominium.Plan.MaxUnits
		}
		return nil, err
	}

	log.Info().
		Str("condominium_id", unit.CondominiumID.String()).
		Str("unit_id", unit.ID.String()).
		Str("unit", unit.Label()).
		Msg("unit created")

	revalidate(ctx, s.cache, caching.UnitsScope(req.CondominiumID))
	return unit, nil
}

// ListUnits returns the condominium's units ordered by block then number.
func (s *unitService) ListUnits(ctx context.Context, condominiumID uuid.UUID) ([]*models.Unit, error) {
	cached, version, cacheErr := s.cache.GetUnits(ctx, condominiumID)
	if cacheErr != nil {
		log.Warn().Err(cacheErr).Str("condominium_id", condominiumID.String()).Msg("unit cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	units, err := s.unitRepo.ListByCondominium(ctx, condominiumID)
	if err != nil {
		return nil, err
	}

	// Without the version observed before the query the listing cannot be stored safely.
	if cacheErr == nil {
		if err := s.cache.SetUnits(ctx, condominiumID, version, units); err != nil {
			log.Warn().Err(err).Str("condominium_id", condominiumID.String()).Msg("unit cache write failed")
		}
	}
	return units, nil
}

func (s *unitService) ListResidentUnits(ctx context.Context, userID uuid.UUID) ([]*models.Unit, error) {
	return s.unitRepo.ListByResident(ctx, userID)
}

func (s *unitService) Dashboard(ctx context.Context, condominiumID uuid.UUID) (*Dashboard, error) {
	condominium, err := s.condominiumRepo.GetWithPlan(ctx, condominiumID)
	if err != nil {
		return nil, err
	}
	units, err := s.ListUnits(ctx, condominiumID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		CondominiumName: condominium.Name,
		UnitCount:       condominium.UnitCount,
		BlockCount:      condominium.BlockCount,
		Units:           units,
	}
	if condominium.Plan != nil {
		d.PlanName = condominium.Plan.Name
		d.MaxUnits = condominium.Plan.MaxUnits
	}
	return d, nil
}
