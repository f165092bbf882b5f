package repositories

import (
	"context"

	"condoparcel/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByTaxID(ctx context.Context, taxID string) (*models.User, error)
	ExistsByEmailOrTaxID(ctx context.Context, email, taxID string) (bool, error)
	CreateResidentWithLink(ctx context.Context, user *models.User, unitID uuid.UUID) (bool, error)
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, condominium_id, full_name, email, tax_id, phone, password_hash, role, active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.CondominiumID, &u.FullName, &u.Email, &u.TaxID, &u.Phone,
		&u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func insertUser(ctx context.Context, q Querier, user *models.User) error {
	query := `
		INSERT INTO users (id, condominium_id, full_name, email, tax_id, phone, password_hash, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := q.Exec(ctx, query, user.ID, user.CondominiumID, user.FullName, user.Email, user.TaxID,
		user.Phone, user.PasswordHash, user.Role, user.Active)
	return mapPostgresError("create user", err)
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return insertUser(ctx, r.db, user)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPostgresError("get user", err)
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, mapPostgresError("get user by email", err)
	}
	return u, nil
}

func (r *userRepo) GetByTaxID(ctx context.Context, taxID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tax_id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, taxID))
	if err != nil {
		return nil, mapPostgresError("get user by tax id", err)
	}
	return u, nil
}

func (r *userRepo) ExistsByEmailOrTaxID(ctx context.Context, email, taxID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1) OR tax_id = $2)`
	if err := r.db.QueryRow(ctx, query, email, taxID).Scan(&exists); err != nil {
		return false, mapPostgresError("check user uniqueness", err)
	}
	return exists, nil
}

// CreateResidentWithLink inserts a resident and links them to unitID in one transaction.
// It reports whether the resident became the unit's primary resident.
func (r *userRepo) CreateResidentWithLink(ctx context.Context, user *models.User, unitID uuid.UUID) (bool, error) {
	var primary bool
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		var err error
		primary, err = linkResident(ctx, tx, user.ID, unitID)
		return err
	})
	if err != nil {
		return false, err
	}
	return primary, nil
}
