package models

import (
	"time"

	"github.com/google/uuid"
)

type PackageStatus string

const (
	PackagePending   PackageStatus = "PENDING"
	PackageDelivered PackageStatus = "DELIVERED"
	PackageCancelled PackageStatus = "CANCELLED"
)

// packageTransitions lists the legal next states; DELIVERED and CANCELLED are terminal.
var packageTransitions = map[PackageStatus][]PackageStatus{
	PackagePending:   {PackageDelivered, PackageCancelled},
	PackageDelivered: {},
	PackageCancelled: {},
}

func (s PackageStatus) Valid() bool {
	_, ok := packageTransitions[s]
	return ok
}

func (s PackageStatus) Terminal() bool {
	return len(packageTransitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is a legal package transition.
func (s PackageStatus) CanTransitionTo(next PackageStatus) bool {
	for _, allowed := range packageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PackageDetails are the free-text fields filled in by whoever registers the package.
type PackageDetails struct {
	Type         string  `json:"type" db:"type"`
	Size         string  `json:"size" db:"size"`
	Carrier      string  `json:"carrier" db:"carrier"`
	TrackingCode *string `json:"tracking_code,omitempty" db:"tracking_code"`
	Condition    *string `json:"condition,omitempty" db:"condition"`
}

type Package struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	UnitID       uuid.UUID     `json:"unit_id" db:"unit_id"`
	RegisteredBy *uuid.UUID    `json:"registered_by,omitempty" db:"registered_by"`
	ReceivedBy   *uuid.UUID    `json:"received_by,omitempty" db:"received_by"`
	ReceivedAt   *time.Time    `json:"received_at,omitempty" db:"received_at"`
	Status       PackageStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
	PackageDetails
}

// PackageOrigin records which actor created a package. Exactly one variant applies:
// a resident pre-registration or a doorstaff receipt.
type PackageOrigin interface {
	apply(p *Package)
}

// ResidentOrigin is a pre-registration: nothing has physically arrived yet.
type ResidentOrigin struct {
	ResidentID uuid.UUID
}

func (o ResidentOrigin) apply(p *Package) {
	id := o.ResidentID
	p.RegisteredBy = &id
	p.ReceivedBy = nil
	p.ReceivedAt = nil
}

// DoorstaffOrigin is a physical receipt logged at the front desk.
type DoorstaffOrigin struct {
	DoorstaffID uuid.UUID
	ReceivedAt  time.Time
}

func (o DoorstaffOrigin) apply(p *Package) {
	id := o.DoorstaffID
	at := o.ReceivedAt
	p.RegisteredBy = nil
	p.ReceivedBy = &id
	p.ReceivedAt = &at
}

// NewPackage builds a PENDING package for unitID from the given origin.
func NewPackage(unitID uuid.UUID, origin PackageOrigin, details PackageDetails) *Package {
	now := time.Now().UTC()
	p := &Package{
		ID:             uuid.New(),
		UnitID:         unitID,
		Status:         PackagePending,
		CreatedAt:      now,
		UpdatedAt:      now,
		PackageDetails: details,
	}
	origin.apply(p)
	return p
}

// PackageView is a package with the unit address it belongs to.
type PackageView struct {
	Package
	UnitBlock  string `json:"unit_block" db:"unit_block"`
	UnitNumber string `json:"unit_number" db:"unit_number"`
}

// HistoryRecord is a closed package with its withdrawal (DELIVERED only) and the
// doorstaff member who received it (doorstaff-originated only).
type HistoryRecord struct {
	PackageView
	Withdrawal     *WithdrawalView `json:"withdrawal,omitempty"`
	ReceivedByUser *UserRef        `json:"received_by_user,omitempty"`
}

// PackageScope selects which packages a listing may see. A nil ResidentID means the
// whole condominium; otherwise only units the resident is linked to.
type PackageScope struct {
	CondominiumID uuid.UUID
	ResidentID    *uuid.UUID
}

func CondominiumScope(condominiumID uuid.UUID) PackageScope {
	return PackageScope{CondominiumID: condominiumID}
}

func ResidentScope(condominiumID, residentID uuid.UUID) PackageScope {
	id := residentID
	return PackageScope{CondominiumID: condominiumID, ResidentID: &id}
}
