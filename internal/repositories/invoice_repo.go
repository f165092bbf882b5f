package repositories

import (
	"context"
	"errors"

	"condoparcel/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InvoiceRepository reads billing state owned by the billing system.
type InvoiceRepository interface {
	FindBlocking(ctx context.Context, condominiumID uuid.UUID) (*models.Invoice, error)
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

// FindBlocking returns the oldest overdue, cancelled or delinquent invoice of the
// condominium, or nil when billing is in good standing.
func (r *invoiceRepo) FindBlocking(ctx context.Context, condominiumID uuid.UUID) (*models.Invoice, error) {
	inv := &models.Invoice{}
	query := `
		SELECT id, condominium_id, status, delinquent, amount, due_date
		FROM invoices
		WHERE condominium_id = $1
		  AND (status IN ('OVERDUE', 'CANCELLED') OR delinquent)
		ORDER BY due_date ASC
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query, condominiumID).
		Scan(&inv.ID, &inv.CondominiumID, &inv.Status, &inv.Delinquent, &inv.Amount, &inv.DueDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPostgresError("find blocking invoice", err)
	}
	return inv, nil
}
