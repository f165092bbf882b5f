package models

import (
	"time"

	"github.com/google/uuid"
)

type Condominium struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	TaxID      string     `json:"tax_id" db:"tax_id"`
	Street     *string    `json:"street,omitempty" db:"street"`
	Number     *string    `json:"number,omitempty" db:"number"`
	District   *string    `json:"district,omitempty" db:"district"`
	City       *string    `json:"city,omitempty" db:"city"`
	State      *string    `json:"state,omitempty" db:"state"`
	UnitCount  int        `json:"unit_count" db:"unit_count"`
	BlockCount int        `json:"block_count" db:"block_count"`
	Active     bool       `json:"active" db:"active"`
	PlanID     *uuid.UUID `json:"plan_id,omitempty" db:"plan_id"`
	AccessCode string     `json:"-" db:"access_code"` // shared with residents out of band
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// CondominiumWithPlan is the condominium row joined with its plan limits.
// Plan is nil when the condominium has no plan assigned yet.
type CondominiumWithPlan struct {
	Condominium
	Plan *Plan `json:"plan,omitempty"`
}
