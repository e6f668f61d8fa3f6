package entity

import (
	"time"

	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillingSubject is a member or a manufacturer eligible for invoicing.
// Only active subjects are enumerated by the invoice cronjob.
type BillingSubject struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Kind        enum.SubjectKind `gorm:"not null;index" json:"kind"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	Email       string           `gorm:"size:255" json:"email"`
	Active      bool             `gorm:"default:true;index" json:"active"`
	SendInvoice bool             `gorm:"default:true" json:"send_invoice"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new billing subject
func (s *BillingSubject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillingSubject model
func (BillingSubject) TableName() string {
	return "billing_subjects"
}
