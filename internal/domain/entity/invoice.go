package entity

import (
	"time"

	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is one persisted document per billing subject and billing run.
// Invoice numbers are unique and strictly increasing within a subject kind
// and calendar year; the composite unique index is the concurrency guard
// for the number allocator. Invoices are immutable once created.
type Invoice struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	SubjectID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"subject_id"`
	SubjectKind   enum.SubjectKind `gorm:"not null;uniqueIndex:idx_invoice_kind_year_number,priority:1" json:"subject_kind"`
	Year          int              `gorm:"not null;uniqueIndex:idx_invoice_kind_year_number,priority:2" json:"year"`
	InvoiceNumber int              `gorm:"not null;uniqueIndex:idx_invoice_kind_year_number,priority:3" json:"invoice_number"`
	Filename      string           `gorm:"size:512;not null" json:"filename"`
	Created       time.Time        `gorm:"type:date;not null" json:"created"`
	PaidInCash    bool             `gorm:"default:false" json:"paid_in_cash"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// Relationships
	Subject BillingSubject `gorm:"foreignKey:SubjectID" json:"-"`
	Taxes   []InvoiceTax   `gorm:"foreignKey:InvoiceID" json:"taxes,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceTax is the per-tax-rate aggregate of an invoice, one row per
// distinct tax rate present in the covered order details.
type InvoiceTax struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	TaxRate           decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	TotalPriceTaxExcl decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price_tax_excl"`
	TotalPriceTaxIncl decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price_tax_incl"`
	TotalPriceTax     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price_tax"`
}

// BeforeCreate generates a UUID before creating a new invoice tax row
func (t *InvoiceTax) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceTax model
func (InvoiceTax) TableName() string {
	return "invoice_taxes"
}
