package repositories

import (
	"errors"
	"fmt"

	"condoparcel/internal/common"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from pkg/database/migrations.
const (
	constraintUnitAddress      = "units_condominium_block_number_key"
	constraintUserEmail        = "users_email_key"
	constraintUserEmailLower   = "users_email_lower_idx"
	constraintUserTaxID        = "users_tax_id_key"
	constraintCondominiumTaxID = "condominiums_tax_id_key"
	constraintWithdrawalPkg    = "withdrawals_package_id_key"
)

// mapPostgresError maps driver errors to the shared sentinels and wraps the rest with
// the failing operation.
func mapPostgresError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case constraintUnitAddress:
			return fmt.Errorf("%s: %w", op, common.ErrDuplicateUnit)
		case constraintUserEmail, constraintUserEmailLower, constraintUserTaxID:
			return fmt.Errorf("%s: %w", op, common.ErrDuplicateUser)
		case constraintCondominiumTaxID:
			return fmt.Errorf("%s: %w", op, common.ErrDuplicateCondominium)
		case constraintWithdrawalPkg:
			return fmt.Errorf("%s: %w", op, common.ErrInvalidState)
		}
		return fmt.Errorf("%s: unique constraint violation: %s: %w", op, pgErr.ConstraintName, err)

	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%s: %w: %s", op, common.ErrNotFound, pgErr.Detail)

	case pgerrcode.CheckViolation:
		return fmt.Errorf("%s: check constraint violation: %s: %w", op, pgErr.ConstraintName, err)

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("%s: transaction conflict: %w", op, err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("%s: query canceled: %w", op, err)
	}

	return fmt.Errorf("%s: postgres error [%s]: %s: %w", op, pgErr.Code, pgErr.Message, err)
}
