package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"condoparcel/internal/models"
	"condoparcel/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// BasicPlanID is the smallest plan seeded by the migrations.
var BasicPlanID = uuid.MustParse("7a1f9c1e-0b7e-4d7a-9f6e-2f1d3c4b5a01")

// TestDB holds a migrated PostgreSQL database for integration tests
type TestDB struct {
	Pool *pgxpool.Pool
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the migrations and empties every
// tenant table. The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, &database.PoolConfig{ConnString: connString, MaxConns: 5, MinConns: 1})
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(pool.Close)

	require.NoError(t, database.RunMigrations(ctx, pool), "failed to migrate test database")

	_, err = pool.Exec(ctx, `TRUNCATE withdrawals, packages, resident_units, invoices, units, users, condominiums`)
	require.NoError(t, err, "failed to reset test database")

	return &TestDB{Pool: pool}
}

// SeedCondominium creates an active condominium on the given plan.
func SeedCondominium(t *testing.T, db *TestDB, planID uuid.UUID) *models.Condominium {
	t.Helper()

	id := uuid.New()
	condominium := &models.Condominium{
		ID:         id,
		Name:       "Residencial Teste",
		TaxID:      fmt.Sprintf("%014d", id.ID()),
		BlockCount: 1,
		Active:     true,
		PlanID:     &planID,
		AccessCode: id.String()[:8],
	}

	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO condominiums (id, name, tax_id, block_count, active, plan_id, access_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, condominium.ID, condominium.Name, condominium.TaxID, condominium.BlockCount,
		condominium.Active, condominium.PlanID, condominium.AccessCode)
	require.NoError(t, err, "failed to seed condominium")

	return condominium
}

// SeedUnit inserts a unit without touching the condominium's unit counter, which leaves
// the counter drifted on purpose.
func SeedUnit(t *testing.T, db *TestDB, condominiumID uuid.UUID, block, number string) *models.Unit {
	t.Helper()

	unit := &models.Unit{ID: uuid.New(), CondominiumID: condominiumID, Block: block, Number: number, CreatedAt: time.Now().UTC()}
	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO units (id, condominium_id, block, number, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, unit.ID, unit.CondominiumID, unit.Block, unit.Number, unit.CreatedAt)
	require.NoError(t, err, "failed to seed unit")

	return unit
}

// NewUser builds an active user with unique email and tax id; it is not stored.
func NewUser(condominiumID uuid.UUID, role models.Role) *models.User {
	id := uuid.New()
	now := time.Now().UTC()
	return &models.User{
		ID:            id,
		CondominiumID: condominiumID,
		FullName:      "Usuário " + id.String()[:8],
		Email:         id.String() + "@example.com",
		TaxID:         fmt.Sprintf("%011d", id.ID()),
		PasswordHash:  "$2a$10$seededhashseededhashseededhashseededhashseededhashse",
		Role:          role,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SeedUser stores a user built by NewUser.
func SeedUser(t *testing.T, db *TestDB, condominiumID uuid.UUID, role models.Role) *models.User {
	t.Helper()

	user := NewUser(condominiumID, role)
	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO users (id, condominium_id, full_name, email, tax_id, password_hash, role, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.CondominiumID, user.FullName, user.Email, user.TaxID, user.PasswordHash, user.Role, user.Active)
	require.NoError(t, err, "failed to seed user")

	return user
}
