package models

import (
	"time"

	"github.com/google/uuid"
)

type Unit struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CondominiumID uuid.UUID `json:"condominium_id" db:"condominium_id"`
	Block         string    `json:"block" db:"block"`
	Number        string    `json:"number" db:"number"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Label renders the unit the way doorstaff read it on a package, e.g. "Bloco A - 101".
func (u *Unit) Label() string {
	return u.Block + " - " + u.Number
}
