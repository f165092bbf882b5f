package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"condoparcel/internal/caching"
	"condoparcel/internal/common"
	"condoparcel/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type UnitServiceTestSuite struct {
	suite.Suite
	unitRepo        *MockUnitRepository
	userRepo        *MockUserRepository
	condominiumRepo *MockCondominiumRepository
	cache           *MockViewCache
	service         UnitService

	condominium *models.CondominiumWithPlan
	admin       *models.User
}

func (suite *UnitServiceTestSuite) SetupTest() {
	suite.unitRepo = &MockUnitRepository{}
	suite.userRepo = &MockUserRepository{}
	suite.condominiumRepo = &MockCondominiumRepository{}
	suite.cache = &MockViewCache{}
	suite.service = NewUnitService(suite.unitRepo, suite.userRepo, suite.condominiumRepo, suite.cache)

	condominiumID := uuid.New()
	suite.condominium = &models.CondominiumWithPlan{
		Condominium: models.Condominium{ID: condominiumID, Name: "Residencial Aurora", UnitCount: 1, BlockCount: 2, Active: true},
		Plan:        &models.Plan{ID: uuid.New(), Name: "Básico", MaxUnits: 2},
	}
	suite.admin = &models.User{ID: uuid.New(), CondominiumID: condominiumID, Role: models.RoleAdmin, Active: true}
}

func (suite *UnitServiceTestSuite) TearDownTest() {
	suite.unitRepo.AssertExpectations(suite.T())
	suite.userRepo.AssertExpectations(suite.T())
	suite.condominiumRepo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestUnitServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UnitServiceTestSuite))
}

func (suite *UnitServiceTestSuite) request() *AddUnitRequest {
	return &AddUnitRequest{
		Block:            " A ",
		Number:           "101",
		CondominiumID:    suite.condominium.ID,
		RequestingUserID: suite.admin.ID,
	}
}

func (suite *UnitServiceTestSuite) TestAddUnit_Success() {
	ctx := context.Background()
	suite.userRepo.On("GetByID", ctx, suite.admin.ID).Return(suite.admin, nil)
	suite.condominiumRepo.On("GetWithPlan", ctx, suite.condominium.ID).Return(suite.condominium, nil)
	suite.unitRepo.On("FindByAddress", ctx, suite.condominium.ID, "A", "101").Return(nil, common.ErrNotFound)
	suite.unitRepo.On("CreateWithCounter", ctx, mock.MatchedBy(func(u *models.Unit) bool {
		return u.CondominiumID == suite.condominium.ID && u.Block == "A" && u.Number == "101"
	}), 2).Return(nil)
	suite.cache.On("Invalidate", ctx, []caching.Scope{caching.UnitsScope(suite.condominium.ID)}).Return(nil)

	unit, err := suite.service.AddUnit(ctx, suite.request())

	suite.Require().NoError(err)
	suite.Equal("A", unit.Block)
	suite.NotEqual(uuid.Nil, unit.ID)
}

func (suite *UnitServiceTestSuite) TestAddUnit_RevalidationFailureDoesNotFailRequest() {
	ctx := context.Background()
	suite.userRepo.On("GetByID", ctx, suite.admin.ID).Return(suite.admin, nil)
	suite.condominiumRepo.On("GetWithPlan", ctx, suite.condominium.ID).Return(suite.condominium, nil)
	suite.unitRepo.On("FindByAddress", ctx, suite.condominium.ID, "A", "101").Return(nil, common.ErrNotFound)
	suite.unitRepo.On("CreateWithCounter", ctx, mock.Anything, 2).Return(nil)
	suite.cache.On("Invalidate", ctx, mock.Anything).Return(errors.New("redis down"))

	_, err := suite.service.AddUnit(ctx, suite.request())

	suite.NoError(err)
}

// Plan limit 2 with 2 units already registered.
func (suite *UnitServiceTestSuite) TestAddUnit_QuotaExceeded() {
	ctx := context.Background()
	suite.condominium.UnitCount = 2
	suite.userRepo.On("GetByID", ctx, suite.admin.ID).Return(suite.admin, nil)
	suite.condominiumRepo.On("GetWithPlan", ctx, suite.condominium.ID).Return(suite.condominium, nil)

	_, err := suite.service.AddUnit(ctx, suite.request())

	suite.ErrorIs(err, common.ErrQuotaExceeded)
	var quotaErr *common.QuotaExceededError
	suite.Require().ErrorAs(err, &quotaErr)
	suite.Equal(2, quotaErr.Current)
	suite.Equal(2, quotaErr.Limit)
	suite.unitRepo.AssertNotCalled(suite.T(), "CreateWithCounter", mock.Anything, mock.Anything, mock.Anything)
	suite.cache.AssertNotCalled(suite.T(), "Invalidate", mock.Anything, mock.Anything)
}

func (suite *UnitServiceTestSuite) TestAddUnit_QuotaLostToConcurrentInsert() {
	ctx := context.Background()
	suite.userRepo.On("GetByID", ctx, suite.admin.ID).Return(suite.admin, nil)
	suite.condominiumRepo.On("GetWithPlan", ctx, suite.condominium.ID).Return(suite.condominium, nil)
	suite.unitRepo.On("FindByAddress", ctx, suite.condominium.ID, "A", "101").Return(nil, common.ErrNotFound)
	suite.unitRepo.On("CreateWithCounter", ctx, mock.Anything, 2).
		Return(&common.QuotaExceededError{Limit: 2})

	_, err := suite.service.AddUnit(ctx, suite.request())

	var quotaErr *common.QuotaExceededError
	suite.Require().ErrorAs(err, &quotaErr)
	suite.Equal(2, quotaErr.Current)
}

func (suite *UnitServiceTestSuite) TestAddUnit_Duplicate() {
	ctx := context.Background()
	existing := &models.Unit{ID: uuid.New(), CondominiumID: suite.condominium.ID, Block: "A", Number: "101"}
	suite.userRepo.On("GetByID", ctx, suite.admin.ID).Return(suite.admin, nil)
	suite.condominiumRepo.On("GetWithPlan", ctx, suite.condominium.ID).Return(suite.condominium, nil)
	suite.unitRepo.On("FindByAddress", ctx, suite.condominium.ID, "A", "101").Return(existing, nil)

	_, err := suite.service.AddUnit(ctx, suite.request())

	suite.ErrorIs(err, common.ErrDuplicateUnit)
	suite.unitRepo.AssertNotCalled(suite.T(), "CreateWithCounter", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UnitServiceTestSuite) TestAddUnit_RequiresAdminOfCondominium() {
	ctx := context.Background()
	resident := &models.User{ID: uuid.New(), CondominiumID: suite.condominium.ID, Role: models.RoleResident}
	foreignAdmin := &models.User{ID: uuid.New(), CondominiumID: uuid.New(), Role: models.RoleAdmin}

	for _, requester := range []*models.User{resident, foreignAdmin} {
		suite.userRepo.On("GetByID", ctx, requester.ID).Return(requester, nil).Once()
		req := suite.request()
		req.RequestingUserID = requester.ID

		_, err := suite.service.AddUnit(ctx, req)

		suite.ErrorIs(err, common.ErrUnauthorized)
	}
	suite.condominiumRepo.AssertNotCalled(suite.T(), "GetWithPlan", mock.Anything, mock.Anything)
}

func (suite *UnitServiceTestSuite) TestAddUnit_BlankFields() {
	req := suite.request()
	req.Number = "   "

	_, err := suite.service.AddUnit(context.Background(), req)

	suite.ErrorIs(err, common.ErrValidationFailed)
	var validationErr *common.ValidationError
	suite.Require().ErrorAs(err, &validationErr)
	suite.Equal("number", validationErr.Field)
}

func (suite *UnitServiceTestSuite) TestListUnits_CacheHit() {
	ctx := context.Background()
	cached := []*models.Unit{{ID: uuid.New(), Block: "A", Number: "101"}}
	suite.cache.On("GetUnits", ctx, suite.condominium.ID).Return(cached, int64(3), nil)

	units, err := suite.service.ListUnits(ctx, suite.condominium.ID)

	suite.NoError(err)
	suite.Equal(cached, units)
	suite.unitRepo.AssertNotCalled(suite.T(), "ListByCondominium", mock.Anything, mock.Anything)
}

func (suite *UnitServiceTestSuite) TestListUnits_CacheMissFillsCache() {
	ctx := context.Background()
	units := []*models.Unit{
		{ID: uuid.New(), Block: "A", Number: "101"},
		{ID: uuid.New(), Block: "A", Number: "102"},
	}
	suite.cache.On("GetUnits", ctx, suite.condominium.ID).Return(nil, int64(4), nil)
	suite.unitRepo.On("ListByCondominium", ctx, suite.condominium.ID).Return(units, nil)
	suite.cache.On("SetUnits", ctx, suite.condominium.ID, int64(4), units).Return(nil)

	result, err := suite.service.ListUnits(ctx, suite.condominium.ID)

	suite.NoError(err)
	suite.Equal(units, result)
}

func (suite *UnitServiceTestSuite) TestListUnits_CacheErrorFallsBackToDatabase() {
	ctx := context.Background()
	units := []*models.Unit{{ID: uuid.New(), Block: "B", Number: "1"}}
	suite.cache.On("GetUnits", ctx, suite.condominium.ID).Return(nil, int64(0), errors.New("redis down"))
	suite.unitRepo.On("ListByCondominium", ctx, suite.condominium.ID).Return(units, nil)

	result, err := suite.service.ListUnits(ctx, suite.condominium.ID)

	suite.NoError(err)
	suite.Equal(units, result)
	suite.cache.AssertNotCalled(suite.T(), "SetUnits", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UnitServiceTestSuite) TestDashboard() {
	ctx := context.Background()
	units := []*models.Unit{{ID: uuid.New(), Block: "A", Number: "101"}}
	suite.condominiumRepo.On("GetWithPlan", ctx, suite.condominium.ID).Return(suite.condominium, nil)
	suite.cache.On("GetUnits", ctx, suite.condominium.ID).Return(units, int64(1), nil)

	d, err := suite.service.Dashboard(ctx, suite.condominium.ID)

	suite.Require().NoError(err)
	suite.Equal("Residencial Aurora", d.CondominiumName)
	suite.Equal(1, d.UnitCount)
	suite.Equal(2, d.BlockCount)
	suite.Equal("Básico", d.PlanName)
	suite.Equal(2, d.MaxUnits)
	suite.Len(d.Units, 1)
}

func TestListUnits_InvalidationDuringQueryIsNotOverwritten(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()
	cache := caching.NewRedisViewCache(client, time.Minute)

	ctx := context.Background()
	condominiumID := uuid.New()
	first := &models.Unit{ID: uuid.New(), CondominiumID: condominiumID, Block: "A", Number: "101"}
	second := &models.Unit{ID: uuid.New(), CondominiumID: condominiumID, Block: "A", Number: "102"}

	unitRepo := &MockUnitRepository{}
	unitRepo.On("ListByCondominium", ctx, condominiumID).
		Run(func(mock.Arguments) {
			// A unit commits and signals while this listing is being read.
			require.NoError(t, cache.Invalidate(ctx, caching.UnitsScope(condominiumID)))
		}).
		Return([]*models.Unit{first}, nil).Once()
	unitRepo.On("ListByCondominium", ctx, condominiumID).Return([]*models.Unit{first, second}, nil).Once()

	service := NewUnitService(unitRepo, &MockUserRepository{}, &MockCondominiumRepository{}, cache)

	stale, err := service.ListUnits(ctx, condominiumID)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	fresh, err := service.ListUnits(ctx, condominiumID)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)

	cached, err := service.ListUnits(ctx, condominiumID)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
	unitRepo.AssertExpectations(t)
}
