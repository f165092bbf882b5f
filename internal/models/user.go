package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleResident  Role = "RESIDENT"
	RoleDoorstaff Role = "DOORSTAFF"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleResident, RoleDoorstaff:
		return true
	}
	return false
}

type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CondominiumID uuid.UUID `json:"condominium_id" db:"condominium_id"`
	FullName      string    `json:"full_name" db:"full_name"`
	Email         string    `json:"email" db:"email"`
	TaxID         string    `json:"tax_id" db:"tax_id"`
	Phone         *string   `json:"phone,omitempty" db:"phone"`
	PasswordHash  string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Role          Role      `json:"role" db:"role"`
	Active        bool      `json:"active" db:"active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// UserRef is the minimal identity shown next to packages and withdrawals.
type UserRef struct {
	ID       uuid.UUID `json:"id" db:"id"`
	FullName string    `json:"full_name" db:"full_name"`
}
