package repository

import (
	"context"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/google/uuid"
)

// BillingSubjectRepository defines the interface for billing subject data operations
type BillingSubjectRepository interface {
	Create(ctx context.Context, subject *entity.BillingSubject) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BillingSubject, error)
	// ListActive returns all active subjects of the given kind; inactive
	// subjects are never enumerated by the invoice cronjob.
	ListActive(ctx context.Context, kind enum.SubjectKind) ([]entity.BillingSubject, error)
}
