package models

import (
	"time"

	"github.com/google/uuid"
)

type ConfirmationMethod string

const (
	ConfirmByDocument  ConfirmationMethod = "DOCUMENT"
	ConfirmBySignature ConfirmationMethod = "SIGNATURE"
)

func (m ConfirmationMethod) Valid() bool {
	return m == ConfirmByDocument || m == ConfirmBySignature
}

// Withdrawal is written once, together with the PENDING -> DELIVERED flip.
type Withdrawal struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	PackageID      uuid.UUID          `json:"package_id" db:"package_id"`
	WithdrawnBy    uuid.UUID          `json:"withdrawn_by" db:"withdrawn_by"`
	WithdrawnAt    time.Time          `json:"withdrawn_at" db:"withdrawn_at"`
	Method         ConfirmationMethod `json:"method" db:"method"`
	ProofReference *string            `json:"proof_reference,omitempty" db:"proof_reference"`
}

type WithdrawalView struct {
	Withdrawal
	WithdrawnByUser UserRef `json:"withdrawn_by_user"`
}
