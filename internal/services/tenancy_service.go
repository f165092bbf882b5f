package services

import (
	"context"
	"errors"
	"fmt"

	"condoparcel/internal/common"
	"condoparcel/internal/models"
	"condoparcel/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TenantContext is the verified caller of a tenant-scoped request.
type TenantContext struct {
	Condominium *models.Condominium
	User        *models.User
}

// TenancyService gates every tenant-scoped request. Results are never cached: a
// suspension or an overdue invoice takes effect on the next request.
type TenancyService interface {
	ResolveContext(ctx context.Context, condominiumID, userID uuid.UUID) (*TenantContext, error)
}

type tenancyService struct {
	userRepo        repositories.UserRepository
	condominiumRepo repositories.CondominiumRepository
	invoiceRepo     repositories.InvoiceRepository
}

func NewTenancyService(
	userRepo repositories.UserRepository,
	condominiumRepo repositories.CondominiumRepository,
	invoiceRepo repositories.InvoiceRepository,
) TenancyService {
	return &tenancyService{
		userRepo:        userRepo,
		condominiumRepo: condominiumRepo,
		invoiceRepo:     invoiceRepo,
	}
}

func (s *tenancyService) ResolveContext(ctx context.Context, condominiumID, userID uuid.UUID) (*TenantContext, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: no authenticated user", common.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("%w: user is inactive", common.ErrUnauthorized)
	}
	if user.CondominiumID != condominiumID {
		log.Warn().
			Str("user_id", userID.String()).
			Str("condominium_id", condominiumID.String()).
			Msg("cross-tenant access attempt")
		return nil, fmt.Errorf("%w: user does not belong to this condominium", common.ErrUnauthorized)
	}

	condominium, err := s.condominiumRepo.GetByID(ctx, condominiumID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: condominium not found", common.ErrUnauthorized)
		}
		return nil, err
	}
	if !condominium.Active {
		return nil, fmt.Errorf("%w: condominium is inactive", common.ErrUnauthorized)
	}

	invoice, err := s.invoiceRepo.FindBlocking(ctx, condominiumID)
	if err != nil {
		return nil, err
	}
	if invoice != nil && invoice.Blocking() {
		log.Info().
			Str("condominium_id", condominiumID.String()).
			Str("invoice_id", invoice.ID.String()).
			Str("invoice_status", string(invoice.Status)).
			Msg("condominium blocked by billing")
		return nil, fmt.Errorf("%w: condominium access suspended by billing", common.ErrUnauthorized)
	}

	return &TenantContext{Condominium: condominium, User: user}, nil
}
