package services

import (
	"context"
	"io"
	"time"

	"condoparcel/internal/caching"
	"condoparcel/internal/models"
	"condoparcel/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByTaxID(ctx context.Context, taxID string) (*models.User, error) {
	args := m.Called(ctx, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailOrTaxID(ctx context.Context, email, taxID string) (bool, error) {
	args := m.Called(ctx, email, taxID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CreateResidentWithLink(ctx context.Context, user *models.User, unitID uuid.UUID) (bool, error) {
	args := m.Called(ctx, user, unitID)
	return args.Bool(0), args.Error(1)
}

type MockCondominiumRepository struct {
	mock.Mock
}

func (m *MockCondominiumRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Condominium, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Condominium), args.Error(1)
}

func (m *MockCondominiumRepository) GetWithPlan(ctx context.Context, id uuid.UUID) (*models.CondominiumWithPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CondominiumWithPlan), args.Error(1)
}

func (m *MockCondominiumRepository) GetByAccessCode(ctx context.Context, accessCode string) (*models.Condominium, error) {
	args := m.Called(ctx, accessCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Condominium), args.Error(1)
}

func (m *MockCondominiumRepository) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	args := m.Called(ctx, taxID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCondominiumRepository) CreateWithAdmin(ctx context.Context, condominium *models.Condominium, admin *models.User) error {
	args := m.Called(ctx, condominium, admin)
	return args.Error(0)
}

func (m *MockCondominiumRepository) ReconcileUnitCounts(ctx context.Context) ([]repositories.UnitCountDrift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.UnitCountDrift), args.Error(1)
}

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *MockPlanRepository) GetDefault(ctx context.Context) (*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *MockPlanRepository) List(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Plan), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindBlocking(ctx context.Context, condominiumID uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, condominiumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) GetInCondominium(ctx context.Context, condominiumID, id uuid.UUID) (*models.Unit, error) {
	args := m.Called(ctx, condominiumID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByAddress(ctx context.Context, condominiumID uuid.UUID, block, number string) (*models.Unit, error) {
	args := m.Called(ctx, condominiumID, block, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) ListByCondominium(ctx context.Context, condominiumID uuid.UUID) ([]*models.Unit, error) {
	args := m.Called(ctx, condominiumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) ListByResident(ctx context.Context, userID uuid.UUID) ([]*models.Unit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Unit), args.Error(1)
}

func (m *MockUnitRepository) CreateWithCounter(ctx context.Context, unit *models.Unit, maxUnits int) error {
	args := m.Called(ctx, unit, maxUnits)
	return args.Error(0)
}

type MockResidentUnitRepository struct {
	mock.Mock
}

func (m *MockResidentUnitRepository) IsLinked(ctx context.Context, userID, unitID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, unitID)
	return args.Bool(0), args.Error(1)
}

func (m *MockResidentUnitRepository) ListResidentsOfUnit(ctx context.Context, unitID uuid.UUID) ([]models.UserRef, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserRef), args.Error(1)
}

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *models.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}

func (m *MockPackageRepository) GetInCondominium(ctx context.Context, condominiumID, id uuid.UUID) (*models.PackageView, error) {
	args := m.Called(ctx, condominiumID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PackageView), args.Error(1)
}

func (m *MockPackageRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPackageRepository) MarkDelivered(ctx context.Context, withdrawal *models.Withdrawal) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}

func (m *MockPackageRepository) ListPending(ctx context.Context, scope models.PackageScope) ([]*models.PackageView, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PackageView), args.Error(1)
}

func (m *MockPackageRepository) ListHistory(ctx context.Context, scope models.PackageScope) ([]*models.HistoryRecord, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HistoryRecord), args.Error(1)
}

type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) GetByPackageID(ctx context.Context, packageID uuid.UUID) (*models.Withdrawal, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

type MockViewCache struct {
	mock.Mock
}

func (m *MockViewCache) GetUnits(ctx context.Context, condominiumID uuid.UUID) ([]*models.Unit, int64, error) {
	args := m.Called(ctx, condominiumID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Unit), args.Get(1).(int64), args.Error(2)
}

func (m *MockViewCache) SetUnits(ctx context.Context, condominiumID uuid.UUID, version int64, units []*models.Unit) error {
	args := m.Called(ctx, condominiumID, version, units)
	return args.Error(0)
}

func (m *MockViewCache) Invalidate(ctx context.Context, scopes ...caching.Scope) error {
	args := m.Called(ctx, scopes)
	return args.Error(0)
}

func (m *MockViewCache) Version(ctx context.Context, scope caching.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockViewCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockViewCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProofStorage struct {
	mock.Mock
}

func (m *MockProofStorage) Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockProofStorage) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockProofStorage) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
