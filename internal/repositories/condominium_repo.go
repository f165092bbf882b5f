package repositories

import (
	"context"
	"fmt"

	"condoparcel/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CondominiumRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Condominium, error)
	GetWithPlan(ctx context.Context, id uuid.UUID) (*models.CondominiumWithPlan, error)
	GetByAccessCode(ctx context.Context, accessCode string) (*models.Condominium, error)
	ExistsByTaxID(ctx context.Context, taxID string) (bool, error)
	CreateWithAdmin(ctx context.Context, condominium *models.Condominium, admin *models.User) error
	ReconcileUnitCounts(ctx context.Context) ([]UnitCountDrift, error)
}

// UnitCountDrift is one condominium whose cached unit counter disagreed with its units table.
type UnitCountDrift struct {
	CondominiumID uuid.UUID
	Cached        int
	Counted       int
}

type condominiumRepo struct {
	db Database
}

func NewCondominiumRepo(db Database) CondominiumRepository {
	return &condominiumRepo{db: db}
}

const condominiumColumns = `c.id, c.name, c.tax_id, c.street, c.number, c.district, c.city, c.state,
		c.unit_count, c.block_count, c.active, c.plan_id, c.access_code, c.created_at, c.updated_at`

func condominiumDest(c *models.Condominium) []any {
	return []any{
		&c.ID, &c.Name, &c.TaxID, &c.Street, &c.Number, &c.District, &c.City, &c.State,
		&c.UnitCount, &c.BlockCount, &c.Active, &c.PlanID, &c.AccessCode, &c.CreatedAt, &c.UpdatedAt,
	}
}

func (r *condominiumRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Condominium, error) {
	c := &models.Condominium{}
	query := `SELECT ` + condominiumColumns + `
		FROM condominiums c
		WHERE c.id = $1`
	if err := r.db.QueryRow(ctx, query, id).Scan(condominiumDest(c)...); err != nil {
		return nil, mapPostgresError("get condominium", err)
	}
	return c, nil
}

func (r *condominiumRepo) GetWithPlan(ctx context.Context, id uuid.UUID) (*models.CondominiumWithPlan, error) {
	result := &models.CondominiumWithPlan{}
	var (
		planID                                   *uuid.UUID
		planName                                 *string
		planPrice                                *float64
		planMaxUnits, planMaxUsers, planMaxCondo *int
	)
	query := `SELECT ` + condominiumColumns + `,
		p.id, p.name, p.price, p.max_units, p.max_users, p.max_condominiums
		FROM condominiums c
		LEFT JOIN plans p ON p.id = c.plan_id
		WHERE c.id = $1`

	dest := append(condominiumDest(&result.Condominium),
		&planID, &planName, &planPrice, &planMaxUnits, &planMaxUsers, &planMaxCondo)
	if err := r.db.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		return nil, mapPostgresError("get condominium with plan", err)
	}

	if planID != nil {
		result.Plan = &models.Plan{ID: *planID}
		if planName != nil {
			result.Plan.Name = *planName
		}
		if planPrice != nil {
			result.Plan.Price = *planPrice
		}
		if planMaxUnits != nil {
			result.Plan.MaxUnits = *planMaxUnits
		}
		if planMaxUsers != nil {
			result.Plan.MaxUsers = *planMaxUsers
		}
		if planMaxCondo != nil {
			result.Plan.MaxCondominiums = *planMaxCondo
		}
	}
	return result, nil
}

func (r *condominiumRepo) GetByAccessCode(ctx context.Context, accessCode string) (*models.Condominium, error) {
	c := &models.Condominium{}
	query := `SELECT ` + condominiumColumns + `
		FROM condominiums c
		WHERE c.access_code = $1`
	if err := r.db.QueryRow(ctx, query, accessCode).Scan(condominiumDest(c)...); err != nil {
		return nil, mapPostgresError("get condominium by access code", err)
	}
	return c, nil
}

func (r *condominiumRepo) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM condominiums WHERE tax_id = $1)`
	if err := r.db.QueryRow(ctx, query, taxID).Scan(&exists); err != nil {
		return false, mapPostgresError("check condominium tax id", err)
	}
	return exists, nil
}

// CreateWithAdmin inserts the condominium and its first administrator atomically.
func (r *condominiumRepo) CreateWithAdmin(ctx context.Context, condominium *models.Condominium, admin *models.User) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO condominiums (id, name, tax_id, street, number, district, city, state,
				unit_count, block_count, active, plan_id, access_code, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, TRUE, $10, $11, NOW(), NOW())
		`
		_, err := tx.Exec(ctx, query,
			condominium.ID, condominium.Name, condominium.TaxID,
			condominium.Street, condominium.Number, condominium.District, condominium.City, condominium.State,
			condominium.BlockCount, condominium.PlanID, condominium.AccessCode)
		if err != nil {
			return mapPostgresError("create condominium", err)
		}

		return insertUser(ctx, tx, admin)
	})
}

// ReconcileUnitCounts rewrites every cached unit counter that disagrees with COUNT(units)
// and returns what it changed. The scan only nominates candidates; each one is recounted
// while its condominium row is locked, so a concurrent unit creation either commits
// before the recount or waits for the correction.
func (r *condominiumRepo) ReconcileUnitCounts(ctx context.Context) ([]UnitCountDrift, error) {
	candidates, err := r.driftCandidates(ctx)
	if err != nil {
		return nil, err
	}

	var drifts []UnitCountDrift
	for _, id := range candidates {
		d, err := r.reconcileOne(ctx, id)
		if err != nil {
			return drifts, err
		}
		if d != nil {
			drifts = append(drifts, *d)
		}
	}
	return drifts, nil
}

func (r *condominiumRepo) driftCandidates(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT c.id
		FROM condominiums c
		LEFT JOIN units u ON u.condominium_id = c.id
		GROUP BY c.id, c.unit_count
		HAVING c.unit_count <> COUNT(u.id)
		ORDER BY c.id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapPostgresError("find unit count drift", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan drift candidate: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// reconcileOne returns nil when the counter turned out to be right once locked.
func (r *condominiumRepo) reconcileOne(ctx context.Context, id uuid.UUID) (*UnitCountDrift, error) {
	var drift *UnitCountDrift
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var cached int
		err := tx.QueryRow(ctx, `SELECT unit_count FROM condominiums WHERE id = $1 FOR UPDATE`, id).Scan(&cached)
		if err != nil {
			return mapPostgresError("lock condominium", err)
		}

		var counted int
		err = tx.QueryRow(ctx, `SELECT COUNT(*)::int FROM units WHERE condominium_id = $1`, id).Scan(&counted)
		if err != nil {
			return mapPostgresError("count units", err)
		}
		if counted == cached {
			return nil
		}

		_, err = tx.Exec(ctx, `UPDATE condominiums SET unit_count = $2, updated_at = NOW() WHERE id = $1`, id, counted)
		if err != nil {
			return mapPostgresError("correct unit count", err)
		}
		drift = &UnitCountDrift{CondominiumID: id, Cached: cached, Counted: counted}
		return nil
	})
	return drift, err
}
