package repository

import (
	"context"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice data operations.
// Invoices are created exactly once and never updated or deleted.
type InvoiceRepository interface {
	// CreateWithTaxes persists the invoice and its tax rows in a single
	// transaction. A duplicate (subject_kind, year, invoice_number) returns
	// apperror.ErrInvoiceNumberConflict.
	CreateWithTaxes(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// LastInvoiceNumber returns the highest invoice number issued for the
	// given subject kind and calendar year, 0 if none.
	LastInvoiceNumber(ctx context.Context, kind enum.SubjectKind, year int) (int, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	SubjectID  *uuid.UUID
	Kind       *enum.SubjectKind
	Year       *int
}
