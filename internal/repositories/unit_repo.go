package repositories

import (
	"context"
	"errors"
	"fmt"

	"condoparcel/internal/common"
	"condoparcel/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UnitRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	GetInCondominium(ctx context.Context, condominiumID, id uuid.UUID) (*models.Unit, error)
	FindByAddress(ctx context.Context, condominiumID uuid.UUID, block, number string) (*models.Unit, error)
	ListByCondominium(ctx context.Context, condominiumID uuid.UUID) ([]*models.Unit, error)
	ListByResident(ctx context.Context, userID uuid.UUID) ([]*models.Unit, error)
	CreateWithCounter(ctx context.Context, unit *models.Unit, maxUnits int) error
}

type unitRepo struct {
	db Database
}

func NewUnitRepo(db Database) UnitRepository {
	return &unitRepo{db: db}
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	u := &models.Unit{}
	if err := row.Scan(&u.ID, &u.CondominiumID, &u.Block, &u.Number, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	query := `
		SELECT id, condominium_id, block, number, created_at
		FROM units
		WHERE id = $1
	`
	u, err := scanUnit(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPostgresError("get unit", err)
	}
	return u, nil
}

func (r *unitRepo) GetInCondominium(ctx context.Context, condominiumID, id uuid.UUID) (*models.Unit, error) {
	query := `
		SELECT id, condominium_id, block, number, created_at
		FROM units
		WHERE id = $1 AND condominium_id = $2
	`
	u, err := scanUnit(r.db.QueryRow(ctx, query, id, condominiumID))
	if err != nil {
		return nil, mapPostgresError("get unit in condominium", err)
	}
	return u, nil
}

func (r *unitRepo) FindByAddress(ctx context.Context, condominiumID uuid.UUID, block, number string) (*models.Unit, error) {
	query := `
		SELECT id, condominium_id, block, number, created_at
		FROM units
		WHERE condominium_id = $1 AND block = $2 AND number = $3
	`
	u, err := scanUnit(r.db.QueryRow(ctx, query, condominiumID, block, number))
	if err != nil {
		return nil, mapPostgresError("find unit by address", err)
	}
	return u, nil
}

func (r *unitRepo) ListByCondominium(ctx context.Context, condominiumID uuid.UUID) ([]*models.Unit, error) {
	query := `
		SELECT id, condominium_id, block, number, created_at
		FROM units
		WHERE condominium_id = $1
		ORDER BY block COLLATE "C" ASC, number COLLATE "C" ASC
	`
	return r.list(ctx, "list units", query, condominiumID)
}

func (r *unitRepo) ListByResident(ctx context.Context, userID uuid.UUID) ([]*models.Unit, error) {
	query := `
		SELECT u.id, u.condominium_id, u.block, u.number, u.created_at
		FROM units u
		JOIN resident_units ru ON ru.unit_id = u.id
		WHERE ru.user_id = $1
		ORDER BY u.block COLLATE "C" ASC, u.number COLLATE "C" ASC
	`
	return r.list(ctx, "list resident units", query, userID)
}

func (r *unitRepo) list(ctx context.Context, op, query string, args ...any) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPostgresError(op, err)
	}
	defer rows.Close()

	units := make([]*models.Unit, 0)
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// CreateWithCounter bumps the condominium's unit counter and inserts the unit in one
// transaction. The counter is only bumped while it is below maxUnits, so concurrent
// creations cannot overshoot the plan limit.
func (r *unitRepo) CreateWithCounter(ctx context.Context, unit *models.Unit, maxUnits int) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		var count int
		err := tx.QueryRow(ctx, `
			UPDATE condominiums
			SET unit_count = unit_count + 1, updated_at = NOW()
			WHERE id = $1 AND unit_count < $2
			RETURNING unit_count
		`, unit.CondominiumID, maxUnits).Scan(&count)
		if errors.Is(err, pgx.ErrNoRows) {
			return &common.QuotaExceededError{Current: maxUnits, Limit: maxUnits}
		}
		if err != nil {
			return mapPostgresError("increment unit counter", err)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO units (id, condominium_id, block, number, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING created_at
		`, unit.ID, unit.CondominiumID, unit.Block, unit.Number).Scan(&unit.CreatedAt)
		if err != nil {
			return mapPostgresError("create unit", err)
		}
		return nil
	})
}
