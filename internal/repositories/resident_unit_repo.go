package repositories

import (
	"context"
	"fmt"

	"condoparcel/internal/models"

	"github.com/google/uuid"
)

// ResidentUnitRepository reads resident_units links. A unit has at most one primary resident.
type ResidentUnitRepository interface {
	IsLinked(ctx context.Context, userID, unitID uuid.UUID) (bool, error)
	ListResidentsOfUnit(ctx context.Context, unitID uuid.UUID) ([]models.UserRef, error)
}

type residentUnitRepo struct {
	db Database
}

func NewResidentUnitRepo(db Database) ResidentUnitRepository {
	return &residentUnitRepo{db: db}
}

// linkResident claims the primary slot of the unit when it is free and falls back to a
// plain link otherwise. The partial unique index on (unit_id) WHERE is_primary decides
// concurrent claims.
func linkResident(ctx context.Context, q Querier, userID, unitID uuid.UUID) (bool, error) {
	tag, err := q.Exec(ctx, `
		INSERT INTO resident_units (user_id, unit_id, is_primary, created_at)
		VALUES ($1, $2, TRUE, NOW())
		ON CONFLICT (unit_id) WHERE is_primary DO NOTHING
	`, userID, unitID)
	if err != nil {
		return false, mapPostgresError("link primary resident", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	_, err = q.Exec(ctx, `
		INSERT INTO resident_units (user_id, unit_id, is_primary, created_at)
		VALUES ($1, $2, FALSE, NOW())
	`, userID, unitID)
	if err != nil {
		return false, mapPostgresError("link resident", err)
	}
	return false, nil
}

func (r *residentUnitRepo) IsLinked(ctx context.Context, userID, unitID uuid.UUID) (bool, error) {
	var linked bool
	query := `SELECT EXISTS(SELECT 1 FROM resident_units WHERE user_id = $1 AND unit_id = $2)`
	if err := r.db.QueryRow(ctx, query, userID, unitID).Scan(&linked); err != nil {
		return false, mapPostgresError("check resident link", err)
	}
	return linked, nil
}

// ListResidentsOfUnit returns the active residents of a unit, primary resident first.
func (r *residentUnitRepo) ListResidentsOfUnit(ctx context.Context, unitID uuid.UUID) ([]models.UserRef, error) {
	query := `
		SELECT u.id, u.full_name
		FROM resident_units ru
		JOIN users u ON u.id = ru.user_id
		WHERE ru.unit_id = $1 AND u.active
		ORDER BY ru.is_primary DESC, u.full_name ASC
	`
	rows, err := r.db.Query(ctx, query, unitID)
	if err != nil {
		return nil, mapPostgresError("list unit residents", err)
	}
	defer rows.Close()

	residents := make([]models.UserRef, 0)
	for rows.Next() {
		var ref models.UserRef
		if err := rows.Scan(&ref.ID, &ref.FullName); err != nil {
			return nil, fmt.Errorf("scan resident: %w", err)
		}
		residents = append(residents, ref)
	}
	return residents, rows.Err()
}
