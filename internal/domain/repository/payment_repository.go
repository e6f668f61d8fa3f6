package repository

import (
	"context"
	"time"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/pkg/pagination"
	"github.com/google/uuid"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	// FindUnlinkedPaybacks returns the subject's approved payback payments
	// that are not yet linked to an invoice, dated within [from, to].
	FindUnlinkedPaybacks(ctx context.Context, subjectID uuid.UUID, from, to time.Time) ([]entity.Payment, error)
	// LinkToInvoice sets invoice_id on the given payments. Only payments
	// with a NULL invoice_id are updated; an existing link is never
	// reassigned. Returns the number of payments actually linked.
	LinkToInvoice(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error)
	UpdateApproval(ctx context.Context, id uuid.UUID, approval enum.PaymentApproval) error
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.Payment, int64, error)
}

// PaymentFilterParams contains filtering parameters for payment queries
type PaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	SubjectID  *uuid.UUID
	Type       *enum.PaymentType
	Approval   *enum.PaymentApproval
}
