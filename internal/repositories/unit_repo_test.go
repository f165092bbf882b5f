package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"condoparcel/internal/common"
	"condoparcel/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type UnitRepoTestSuite struct {
	suite.Suite
	mock          pgxmock.PgxPoolIface
	repo          UnitRepository
	condominiumID uuid.UUID
	ctx           context.Context
}

func (s *UnitRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(s.T(), err)
	s.mock = mock
	s.repo = NewUnitRepo(mock)
	s.condominiumID = uuid.New()
	s.ctx = context.Background()
}

func (s *UnitRepoTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func TestUnitRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UnitRepoTestSuite))
}

func (s *UnitRepoTestSuite) newUnit(block, number string) *models.Unit {
	return &models.Unit{ID: uuid.New(), CondominiumID: s.condominiumID, Block: block, Number: number}
}

func (s *UnitRepoTestSuite) TestCreateWithCounter_Success() {
	unit := s.newUnit("A", "101")
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`UPDATE condominiums SET unit_count = unit_count \+ 1`).
		WithArgs(s.condominiumID, 10).
		WillReturnRows(pgxmock.NewRows([]string{"unit_count"}).AddRow(4))
	s.mock.ExpectQuery(`INSERT INTO units`).
		WithArgs(unit.ID, s.condominiumID, "A", "101").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))
	s.mock.ExpectCommit()

	err := s.repo.CreateWithCounter(s.ctx, unit, 10)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created, unit.CreatedAt)
}

func (s *UnitRepoTestSuite) TestCreateWithCounter_LimitReachedRollsBack() {
	unit := s.newUnit("A", "102")

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`UPDATE condominiums SET unit_count = unit_count \+ 1`).
		WithArgs(s.condominiumID, 1).
		WillReturnRows(pgxmock.NewRows([]string{"unit_count"}))
	s.mock.ExpectRollback()

	err := s.repo.CreateWithCounter(s.ctx, unit, 1)
	assert.ErrorIs(s.T(), err, common.ErrQuotaExceeded)

	var quotaErr *common.QuotaExceededError
	require.True(s.T(), errors.As(err, &quotaErr))
	assert.Equal(s.T(), 1, quotaErr.Limit)
}

func (s *UnitRepoTestSuite) TestCreateWithCounter_DuplicateAddressRollsBackCounter() {
	unit := s.newUnit("A", "101")

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`UPDATE condominiums SET unit_count = unit_count \+ 1`).
		WithArgs(s.condominiumID, 10).
		WillReturnRows(pgxmock.NewRows([]string{"unit_count"}).AddRow(2))
	s.mock.ExpectQuery(`INSERT INTO units`).
		WithArgs(unit.ID, s.condominiumID, "A", "101").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintUnitAddress})
	s.mock.ExpectRollback()

	err := s.repo.CreateWithCounter(s.ctx, unit, 10)
	assert.ErrorIs(s.T(), err, common.ErrDuplicateUnit)
}

func (s *UnitRepoTestSuite) TestListByCondominium_OrderedByBlockAndNumber() {
	created := time.Now().UTC()
	a101, a102, b101 := uuid.New(), uuid.New(), uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY block COLLATE "C" ASC, number COLLATE "C" ASC`)).
		WithArgs(s.condominiumID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "condominium_id", "block", "number", "created_at"}).
			AddRow(a101, s.condominiumID, "A", "101", created).
			AddRow(a102, s.condominiumID, "A", "102", created).
			AddRow(b101, s.condominiumID, "B", "101", created))

	units, err := s.repo.ListByCondominium(s.ctx, s.condominiumID)
	require.NoError(s.T(), err)
	require.Len(s.T(), units, 3)
	assert.Equal(s.T(), []uuid.UUID{a101, a102, b101}, []uuid.UUID{units[0].ID, units[1].ID, units[2].ID})
}

func (s *UnitRepoTestSuite) TestListByCondominium_EmptyIsNotNil() {
	s.mock.ExpectQuery(`FROM units`).
		WithArgs(s.condominiumID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "condominium_id", "block", "number", "created_at"}))

	units, err := s.repo.ListByCondominium(s.ctx, s.condominiumID)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), units)
	assert.Empty(s.T(), units)
}

func (s *UnitRepoTestSuite) TestGetInCondominium_OtherCondominiumIsNotFound() {
	unitID := uuid.New()
	s.mock.ExpectQuery(`WHERE id = \$1 AND condominium_id = \$2`).
		WithArgs(unitID, s.condominiumID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "condominium_id", "block", "number", "created_at"}))

	unit, err := s.repo.GetInCondominium(s.ctx, s.condominiumID, unitID)
	assert.Nil(s.T(), unit)
	assert.ErrorIs(s.T(), err, common.ErrNotFound)
}

func (s *UnitRepoTestSuite) TestFindByAddress_Found() {
	unitID := uuid.New()
	s.mock.ExpectQuery(`WHERE condominium_id = \$1 AND block = \$2 AND number = \$3`).
		WithArgs(s.condominiumID, "Torre 1", "42").
		WillReturnRows(pgxmock.NewRows([]string{"id", "condominium_id", "block", "number", "created_at"}).
			AddRow(unitID, s.condominiumID, "Torre 1", "42", time.Now().UTC()))

	unit, err := s.repo.FindByAddress(s.ctx, s.condominiumID, "Torre 1", "42")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), unitID, unit.ID)
	assert.Equal(s.T(), "Torre 1 - 42", unit.Label())
}

func strPtr(s string) *string {
	return &s
}
