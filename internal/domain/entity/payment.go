package entity

import (
	"time"

	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is a monetary movement of a billing subject. A payback payment
// (returned deposit) gets its InvoiceID set exactly once, when the invoice
// accounting for it is generated; it is never reassigned afterwards.
type Payment struct {
	ID        uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	SubjectID uuid.UUID            `gorm:"type:uuid;not null;index" json:"subject_id"`
	Type      enum.PaymentType     `gorm:"default:0;index" json:"type"`
	Amount    decimal.Decimal      `gorm:"type:decimal(10,2);not null" json:"amount"`
	Approval  enum.PaymentApproval `gorm:"default:0;index" json:"approval"`
	InvoiceID *uuid.UUID           `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	DateAdd   time.Time            `gorm:"not null;index" json:"date_add"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	DeletedAt gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	Subject BillingSubject `gorm:"foreignKey:SubjectID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
