package handlers

import (
	"context"
	"io"
	"time"

	"condoparcel/internal/caching"
	"condoparcel/internal/models"
	"condoparcel/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, login, password string) (*models.TokenResponse, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) GenerateToken(user *models.User) (*models.TokenResponse, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

type MockSignupService struct {
	mock.Mock
}

func (m *MockSignupService) RegisterCondominium(ctx context.Context, req *services.RegisterCondominiumRequest) (*services.CondominiumSignup, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CondominiumSignup), args.Error(1)
}

func (m *MockSignupService) RegisterResident(ctx context.Context, req *services.RegisterResidentRequest) (*services.ResidentSignup, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ResidentSignup), args.Error(1)
}

func (m *MockSignupService) RegisterDoorstaff(ctx context.Context, condominiumID uuid.UUID, req *services.AccountRequest) (*models.User, error) {
	args := m.Called(ctx, condominiumID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockUnitService struct {
	mock.Mock
}

func (m *MockUnitService) AddUnit(ctx context.Context, req *services.AddUnitRequest) (*models.Unit, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Unit), args.Error(1)
}

func (m *MockUnitService) ListUnits(ctx context.Context, condominiumID uuid.UUID) ([]*models.Unit, error) {
	args := m.Called(ctx, condominiumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Unit), args.Error(1)
}

func (m *MockUnitService) ListResidentUnits(ctx context.Context, userID uuid.UUID) ([]*models.Unit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Unit), args.Error(1)
}

func (m *MockUnitService) Dashboard(ctx context.Context, condominiumID uuid.UUID) (*services.Dashboard, error) {
	args := m.Called(ctx, condominiumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Dashboard), args.Error(1)
}

type MockPackageService struct {
	mock.Mock
}

func (m *MockPackageService) RegisterByResident(ctx context.Context, residentID, unitID uuid.UUID, details models.PackageDetails) (*models.Package, error) {
	args := m.Called(ctx, residentID, unitID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}

func (m *MockPackageService) RegisterByDoorstaff(ctx context.Context, doorstaffID, unitID, condominiumID uuid.UUID, details models.PackageDetails) (*models.Package, error) {
	args := m.Called(ctx, doorstaffID, unitID, condominiumID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}

func (m *MockPackageService) Cancel(ctx context.Context, packageID, requestingUserID uuid.UUID) error {
	args := m.Called(ctx, packageID, requestingUserID)
	return args.Error(0)
}

func (m *MockPackageService) ListPending(ctx context.Context, scope models.PackageScope) ([]*models.PackageView, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PackageView), args.Error(1)
}

func (m *MockPackageService) ListHistory(ctx context.Context, scope models.PackageScope) ([]*models.HistoryRecord, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HistoryRecord), args.Error(1)
}

type MockPickupService struct {
	mock.Mock
}

func (m *MockPickupService) RecordWithdrawal(ctx context.Context, req *services.RecordWithdrawalRequest) (*models.Withdrawal, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *MockPickupService) ListResidentsOfUnit(ctx context.Context, unitID, condominiumID uuid.UUID) ([]models.UserRef, error) {
	args := m.Called(ctx, unitID, condominiumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserRef), args.Error(1)
}

func (m *MockPickupService) UploadProof(ctx context.Context, condominiumID, packageID uuid.UUID, file io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, condominiumID, packageID, file, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockPickupService) ProofURL(ctx context.Context, condominiumID, packageID uuid.UUID) (string, error) {
	args := m.Called(ctx, condominiumID, packageID)
	return args.String(0), args.Error(1)
}

type MockTenancyService struct {
	mock.Mock
}

func (m *MockTenancyService) ResolveContext(ctx context.Context, condominiumID, userID uuid.UUID) (*services.TenantContext, error) {
	args := m.Called(ctx, condominiumID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TenantContext), args.Error(1)
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

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
