package repositories

import (
	"context"
	"fmt"

	"condoparcel/internal/models"

	"github.com/google/uuid"
)

type PlanRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	GetDefault(ctx context.Context) (*models.Plan, error)
	List(ctx context.Context) ([]*models.Plan, error)
}

type planRepo struct {
	db Database
}

func NewPlanRepo(db Database) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	p := &models.Plan{}
	query := `
		SELECT id, name, price, max_units, max_users, max_condominiums
		FROM plans
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.MaxUnits, &p.MaxUsers, &p.MaxCondominiums)
	if err != nil {
		return nil, mapPostgresError("get plan", err)
	}
	return p, nil
}

// GetDefault returns the cheapest plan, assigned to condominiums that sign up without choosing one.
func (r *planRepo) GetDefault(ctx context.Context) (*models.Plan, error) {
	p := &models.Plan{}
	query := `
		SELECT id, name, price, max_units, max_users, max_condominiums
		FROM plans
		ORDER BY price ASC, max_units ASC
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query).Scan(&p.ID, &p.Name, &p.Price, &p.MaxUnits, &p.MaxUsers, &p.MaxCondominiums)
	if err != nil {
		return nil, mapPostgresError("get default plan", err)
	}
	return p, nil
}

func (r *planRepo) List(ctx context.Context) ([]*models.Plan, error) {
	query := `
		SELECT id, name, price, max_units, max_users, max_condominiums
		FROM plans
		ORDER BY price ASC, max_units ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapPostgresError("list plans", err)
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		p := &models.Plan{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.MaxUnits, &p.MaxUsers, &p.MaxCondominiums); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
