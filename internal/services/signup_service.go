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
	"github.com/labstack/gommon/random"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const accessCodeLength = 8

// SignupService onboards condominiums, residents and doorstaff accounts.
type SignupService interface {
	RegisterCondominium(ctx context.Context, req *RegisterCondominiumRequest) (*CondominiumSignup, error)
	RegisterResident(ctx context.Context, req *RegisterResidentRequest) (*ResidentSignup, error)
	RegisterDoorstaff(ctx context.Context, condominiumID uuid.UUID, req *AccountRequest) (*models.User, error)
}

// AccountRequest carries the personal data of any new user.
type AccountRequest struct {
	FullName string  `json:"full_name" validate:"notblank,min=3,max=150"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	TaxID    string  `json:"tax_id" validate:"required,cpf"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
}

type RegisterCondominiumRequest struct {
	Name       string         `json:"name" validate:"notblank,min=3,max=150"`
	TaxID      string         `json:"tax_id" validate:"required,cnpj"`
	Street     *string        `json:"street" validate:"omitempty,max=200"`
	Number     *string        `json:"number" validate:"omitempty,max=20"`
	District   *string        `json:"district" validate:"omitempty,max=100"`
	City       *string        `json:"city" validate:"omitempty,max=100"`
	State      *string        `json:"state" validate:"omitempty,len=2"`
	BlockCount int            `json:"block_count" validate:"omitempty,min=1,max=1000"`
	PlanID     *uuid.UUID     `json:"plan_id"`
	Admin      AccountRequest `json:"admin"`
}

type RegisterResidentRequest struct {
	AccessCode string         `json:"access_code" validate:"notblank"`
	Block      string         `json:"block" validate:"notblank"`
	Number     string         `json:"number" validate:"notblank"`
	Account    AccountRequest `json:"account"`
}

type CondominiumSignup struct {
	Condominium *models.Condominium `json:"condominium"`
	Admin       *models.User        `json:"admin"`
	AccessCode  string              `json:"access_code"`
}

type ResidentSignup struct {
	User      *models.User `json:"user"`
	Unit      *models.Unit `json:"unit"`
	IsPrimary bool         `json:"is_primary"`
}

type signupService struct {
	condominiumRepo repositories.CondominiumRepository
	planRepo        repositories.PlanRepository
	unitRepo        repositories.UnitRepository
	userRepo        repositories.UserRepository
	cache           caching.ViewCache
}

func NewSignupService(
	condominiumRepo repositories.CondominiumRepository,
	planRepo repositories.PlanRepository,
	unitRepo repositories.UnitRepository,
	userRepo repositories.UserRepository,
	cache caching.ViewCache,
) SignupService {
	return &signupService{
		condominiumRepo: condominiumRepo,
		planRepo:        planRepo,
		unitRepo:        unitRepo,
		userRepo:        userRepo,
		cache:           cache,
	}
}

func normalizeAccount(a *AccountRequest) {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.TaxID = common.OnlyDigits(a.TaxID)
	if a.Phone != nil {
		phone := common.OnlyDigits(*a.Phone)
		a.Phone = common.TrimOptional(&phone)
	}
}

func (s *signupService) newUser(ctx context.Context, condominiumID uuid.UUID, role models.Role, a *AccountRequest) (*models.User, error) {
	exists, err := s.userRepo.ExistsByEmailOrTaxID(ctx, a.Email, a.TaxID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &models.User{
		ID:            uuid.New(),
		CondominiumID: condominiumID,
		FullName:      a.FullName,
		Email:         a.Email,
		TaxID:         a.TaxID,
		Phone:         a.Phone,
		PasswordHash:  string(hash),
		Role:          role,
		Active:        true,
	}, nil
}

// RegisterCondominium creates a condominium and its administrator together.
func (s *signupService) RegisterCondominium(ctx context.Context, req *RegisterCondominiumRequest) (*CondominiumSignup, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.TaxID = common.OnlyDigits(req.TaxID)
	if req.State != nil {
		state := strings.ToUpper(strings.TrimSpace(*req.State))
		req.State = &state
	}
	normalizeAccount(&req.Admin)
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.BlockCount == 0 {
		req.BlockCount = 1
	}

	taken, err := s.condominiumRepo.ExistsByTaxID(ctx, req.TaxID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrDuplicateCondominium
	}

	plan, err := s.resolvePlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	condominium := &models.Condominium{
		ID:         uuid.New(),
		Name:       req.Name,
		TaxID:      req.TaxID,
		Street:     common.TrimOptional(req.Street),
		Number:     common.TrimOptional(req.Number),
		District:   common.TrimOptional(req.District),
		City:       common.TrimOptional(req.City),
		State:      common.TrimOptional(req.State),
		BlockCount: req.BlockCount,
		Active:     true,
		AccessCode: random.String(accessCodeLength, random.Uppercase, random.Numeric),
	}
	if plan != nil {
		condominium.PlanID = &plan.ID
	}

	admin, err := s.newUser(ctx, condominium.ID, models.RoleAdmin, &req.Admin)
	if err != nil {
		return nil, err
	}

	if err := s.condominiumRepo.CreateWithAdmin(ctx, condominium, admin); err != nil {
		return nil, err
	}

	log.Info().
		Str("condominium_id", condominium.ID.String()).
		Str("admin_id", admin.ID.String()).
		Msg("condominium registered")

	return &CondominiumSignup{Condominium: condominium, Admin: admin, AccessCode: condominium.AccessCode}, nil
}

func (s *signupService) resolvePlan(ctx context.Context, planID *uuid.UUID) (*models.Plan, error) {
	if planID != nil {
		plan, err := s.planRepo.GetByID(ctx, *planID)
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewValidationError("plan_id", "unknown plan")
		}
		return plan, err
	}

	plan, err := s.planRepo.GetDefault(ctx)
	if errors.Is(err, common.ErrNotFound) {
		log.Warn().Msg("no plans configured, condominium created without a plan")
		return nil, nil
	}
	return plan, err
}

// RegisterResident signs a resident up with the condominium's access code and links them
// to their unit. The first resident of a unit becomes its primary resident.
func (s *signupService) RegisterResident(ctx context.Context, req *RegisterResidentRequest) (*ResidentSignup, error) {
	req.AccessCode = strings.ToUpper(strings.TrimSpace(req.AccessCode))
	req.Block = strings.TrimSpace(req.Block)
	req.Number = strings.TrimSpace(req.Number)
	normalizeAccount(&req.Account)
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	condominium, err := s.condominiumRepo.GetByAccessCode(ctx, req.AccessCode)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("invalid access code: %w", common.ErrNotFound)
		}
		return nil, err
	}
	if !condominium.Active {
		return nil, fmt.Errorf("%w: condominium is inactive", common.ErrUnauthorized)
	}

	unit, err := s.unitRepo.FindByAddress(ctx, condominium.ID, req.Block, req.Number)
	if err != nil {
		return nil, err
	}

	user, err := s.newUser(ctx, condominium.ID, models.RoleResident, &req.Account)
	if err != nil {
		return nil, err
	}

	primary, err := s.userRepo.CreateResidentWithLink(ctx, user, unit.ID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("condominium_id", condominium.ID.String()).
		Str("user_id", user.ID.String()).
		Str("unit_id", unit.ID.String()).
		Bool("primary", primary).
		Msg("resident registered")

	revalidate(ctx, s.cache, caching.UnitsScope(condominium.ID))
	return &ResidentSignup{User: user, Unit: unit, IsPrimary: primary}, nil
}

// RegisterDoorstaff creates a front-desk account inside the condominium.
func (s *signupService) RegisterDoorstaff(ctx context.Context, condominiumID uuid.UUID, req *AccountRequest) (*models.User, error) {
	normalizeAccount(req)
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.newUser(ctx, condominiumID, models.RoleDoorstaff, req)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().
		Str("condominium_id", condominiumID.String()).
		Str("user_id", user.ID.String()).
		Msg("doorstaff registered")
	return user, nil
}
