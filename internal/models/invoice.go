package models

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Invoice is owned by the billing system; this service only reads it to gate access.
type Invoice struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	CondominiumID uuid.UUID     `json:"condominium_id" db:"condominium_id"`
	Status        InvoiceStatus `json:"status" db:"status"`
	Delinquent    bool          `json:"delinquent" db:"delinquent"`
	Amount        float64       `json:"amount" db:"amount"`
	DueDate       time.Time     `json:"due_date" db:"due_date"`
}

// Blocking reports whether the invoice locks the condominium out.
func (i *Invoice) Blocking() bool {
	return i.Delinquent || i.Status == InvoiceOverdue || i.Status == InvoiceCancelled
}
