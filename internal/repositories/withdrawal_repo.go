package repositories

import (
	"context"

	"condoparcel/internal/models"

	"github.com/google/uuid"
)

type WithdrawalRepository interface {
	GetByPackageID(ctx context.Context, packageID uuid.UUID) (*models.Withdrawal, error)
}

type withdrawalRepo struct {
	db Database
}

func NewWithdrawalRepo(db Database) WithdrawalRepository {
	return &withdrawalRepo{db: db}
}

func insertWithdrawal(ctx context.Context, q Querier, w *models.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (id, package_id, withdrawn_by, withdrawn_at, method, proof_reference)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.Exec(ctx, query, w.ID, w.PackageID, w.WithdrawnBy, w.WithdrawnAt, w.Method, w.ProofReference)
	return mapPostgresError("create withdrawal", err)
}

func (r *withdrawalRepo) GetByPackageID(ctx context.Context, packageID uuid.UUID) (*models.Withdrawal, error) {
	w := &models.Withdrawal{}
	query := `
		SELECT id, package_id, withdrawn_by, withdrawn_at, method, proof_reference
		FROM withdrawals
		WHERE package_id = $1
	`
	err := r.db.QueryRow(ctx, query, packageID).
		Scan(&w.ID, &w.PackageID, &w.WithdrawnBy, &w.WithdrawnAt, &w.Method, &w.ProofReference)
	if err != nil {
		return nil, mapPostgresError("get withdrawal", err)
	}
	return w, nil
}
