package entity

import (
	"time"

	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderDetail is one line item of an order. It belongs to exactly one
// billing subject and is mutated only by the invoicing workflow, which
// moves its state to Billed once it is covered by an invoice.
type OrderDetail struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SubjectID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"subject_id"`
	ProductName       string          `gorm:"size:255;not null" json:"product_name"`
	TotalPriceTaxExcl decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price_tax_excl"`
	TotalPriceTaxIncl decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price_tax_incl"`
	TaxRate           decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	Deposit           decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"deposit"`
	OrderState        enum.OrderState `gorm:"default:0;index" json:"order_state"`
	OrderDate         time.Time       `gorm:"type:date;not null;index" json:"order_date"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Subject BillingSubject `gorm:"foreignKey:SubjectID" json:"-"`
}

// Tax returns the tax amount of the line item.
func (od *OrderDetail) Tax() decimal.Decimal {
	return od.TotalPriceTaxIncl.Sub(od.TotalPriceTaxExcl)
}

// BeforeCreate generates a UUID before creating a new order detail
func (od *OrderDetail) BeforeCreate(tx *gorm.DB) error {
	if od.ID == uuid.Nil {
		od.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderDetail model
func (OrderDetail) TableName() string {
	return "order_details"
}
