package repositories

import (
	"context"
	"fmt"
	"time"

	"condoparcel/internal/common"
	"condoparcel/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PackageRepository interface {
	Create(ctx context.Context, pkg *models.Package) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error)
	GetInCondominium(ctx context.Context, condominiumID, id uuid.UUID) (*models.PackageView, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	MarkDelivered(ctx context.Context, withdrawal *models.Withdrawal) error
	ListPending(ctx context.Context, scope models.PackageScope) ([]*models.PackageView, error)
	ListHistory(ctx context.Context, scope models.PackageScope) ([]*models.HistoryRecord, error)
}

type packageRepo struct {
	db Database
}

func NewPackageRepo(db Database) PackageRepository {
	return &packageRepo{db: db}
}

const packageColumns = `p.id, p.unit_id, p.registered_by, p.received_by, p.received_at, p.status,
		p.type, p.size, p.carrier, p.tracking_code, p.condition, p.created_at, p.updated_at`

func packageDest(p *models.Package) []any {
	return []any{
		&p.ID, &p.UnitID, &p.RegisteredBy, &p.ReceivedBy, &p.ReceivedAt, &p.Status,
		&p.Type, &p.Size, &p.Carrier, &p.TrackingCode, &p.Condition, &p.CreatedAt, &p.UpdatedAt,
	}
}

func packageViewDest(v *models.PackageView) []any {
	return append(packageDest(&v.Package), &v.UnitBlock, &v.UnitNumber)
}

// residentFilter restricts a listing to the units linked to $2 when it is not NULL.
const residentFilter = `($2::uuid IS NULL OR EXISTS (
			SELECT 1 FROM resident_units ru WHERE ru.unit_id = p.unit_id AND ru.user_id = $2
		))`

func (r *packageRepo) Create(ctx context.Context, pkg *models.Package) error {
	query := `
		INSERT INTO packages (id, unit_id, registered_by, received_by, received_at, status,
			type, size, carrier, tracking_code, condition, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		pkg.ID, pkg.UnitID, pkg.RegisteredBy, pkg.ReceivedBy, pkg.ReceivedAt, pkg.Status,
		pkg.Type, pkg.Size, pkg.Carrier, pkg.TrackingCode, pkg.Condition, pkg.CreatedAt, pkg.UpdatedAt)
	return mapPostgresError("create package", err)
}

func (r *packageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	p := &models.Package{}
	query := `SELECT ` + packageColumns + `
		FROM packages p
		WHERE p.id = $1`
	if err := r.db.QueryRow(ctx, query, id).Scan(packageDest(p)...); err != nil {
		return nil, mapPostgresError("get package", err)
	}
	return p, nil
}

func (r *packageRepo) GetInCondominium(ctx context.Context, condominiumID, id uuid.UUID) (*models.PackageView, error) {
	v := &models.PackageView{}
	query := `SELECT ` + packageColumns + `, u.block, u.number
		FROM packages p
		JOIN units u ON u.id = p.unit_id
		WHERE p.id = $1 AND u.condominium_id = $2`
	if err := r.db.QueryRow(ctx, query, id, condominiumID).Scan(packageViewDest(v)...); err != nil {
		return nil, mapPostgresError("get package in condominium", err)
	}
	return v, nil
}

// Cancel moves a PENDING package to CANCELLED. The status guard lives in the UPDATE itself,
// so a concurrent withdrawal or cancel that won the row leaves nothing to update.
func (r *packageRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE packages
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return mapPostgresError("cancel package", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cancel package %s: %w", id, common.ErrInvalidState)
	}
	return nil
}

// MarkDelivered flips the package to DELIVERED and records the withdrawal atomically.
func (r *packageRepo) MarkDelivered(ctx context.Context, withdrawal *models.Withdrawal) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE packages
			SET status = 'DELIVERED', updated_at = NOW()
			WHERE id = $1 AND status = 'PENDING'
		`, withdrawal.PackageID)
		if err != nil {
			return mapPostgresError("deliver package", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("deliver package %s: %w", withdrawal.PackageID, common.ErrInvalidState)
		}
		return insertWithdrawal(ctx, tx, withdrawal)
	})
}

// ListPending returns pending packages, most recently received first. Resident
// pre-registrations have no receipt time and sort after every received package.
func (r *packageRepo) ListPending(ctx context.Context, scope models.PackageScope) ([]*models.PackageView, error) {
	query := `SELECT ` + packageColumns + `, u.block, u.number
		FROM packages p
		JOIN units u ON u.id = p.unit_id
		WHERE u.condominium_id = $1
		  AND p.status = 'PENDING'
		  AND ` + residentFilter + `
		ORDER BY p.received_at DESC NULLS LAST, p.created_at DESC, p.id ASC`

	rows, err := r.db.Query(ctx, query, scope.CondominiumID, scope.ResidentID)
	if err != nil {
		return nil, mapPostgresError("list pending packages", err)
	}
	defer rows.Close()

	views := make([]*models.PackageView, 0)
	for rows.Next() {
		v := &models.PackageView{}
		if err := rows.Scan(packageViewDest(v)...); err != nil {
			return nil, fmt.Errorf("scan pending package: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// ListHistory returns closed packages with their withdrawal and receiving doorstaff,
// most recently closed first.
func (r *packageRepo) ListHistory(ctx context.Context, scope models.PackageScope) ([]*models.HistoryRecord, error) {
	query := `SELECT ` + packageColumns + `, u.block, u.number,
		w.id, w.withdrawn_by, w.withdrawn_at, w.method, w.proof_reference, wu.full_name,
		rs.id, rs.full_name
		FROM packages p
		JOIN units u ON u.id = p.unit_id
		LEFT JOIN withdrawals w ON w.package_id = p.id
		LEFT JOIN users wu ON wu.id = w.withdrawn_by
		LEFT JOIN users rs ON rs.id = p.received_by
		WHERE u.condominium_id = $1
		  AND p.status IN ('DELIVERED', 'CANCELLED')
		  AND ` + residentFilter + `
		ORDER BY COALESCE(w.withdrawn_at, p.updated_at) DESC, p.id ASC`

	rows, err := r.db.Query(ctx, query, scope.CondominiumID, scope.ResidentID)
	if err != nil {
		return nil, mapPostgresError("list package history", err)
	}
	defer rows.Close()

	records := make([]*models.HistoryRecord, 0)
	for rows.Next() {
		rec := &models.HistoryRecord{}
		var (
			withdrawalID, withdrawnBy *uuid.UUID
			withdrawnAt               *time.Time
			method, proof, byName     *string
			receiverID                *uuid.UUID
			receiverName              *string
		)
		dest := append(packageViewDest(&rec.PackageView),
			&withdrawalID, &withdrawnBy, &withdrawnAt, &method, &proof, &byName,
			&receiverID, &receiverName)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}

		if withdrawalID != nil && withdrawnBy != nil && withdrawnAt != nil {
			rec.Withdrawal = &models.WithdrawalView{
				Withdrawal: models.Withdrawal{
					ID:             *withdrawalID,
					PackageID:      rec.ID,
					WithdrawnBy:    *withdrawnBy,
					WithdrawnAt:    *withdrawnAt,
					Method:         models.ConfirmationMethod(common.SafeString(method)),
					ProofReference: proof,
				},
				WithdrawnByUser: models.UserRef{ID: *withdrawnBy, FullName: common.SafeString(byName)},
			}
		}
		if receiverID != nil {
			rec.ReceivedByUser = &models.UserRef{ID: *receiverID, FullName: common.SafeString(receiverName)}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
