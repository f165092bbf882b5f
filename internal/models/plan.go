package models

import (
	"github.com/google/uuid"
)

// Plan is immutable reference data; limits are read on every quota check.
type Plan struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Price           float64   `json:"price" db:"price"`
	MaxUnits        int       `json:"max_units" db:"max_units"`
	MaxUsers        int       `json:"max_users" db:"max_users"`
	MaxCondominiums int       `json:"max_condominiums" db:"max_condominiums"`
}
