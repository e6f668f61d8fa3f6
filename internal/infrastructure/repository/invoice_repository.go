package repository

import (
	"context"
	"errors"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	domainRepo "github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/coopshop/billing-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) CreateWithTaxes(ctx context.Context, invoice *entity.Invoice) error {
	// Invoice and tax rows are one unit of work; gorm persists the Taxes
	// association inside the same transaction as the invoice row.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(invoice).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.ErrInvoiceNumberConflict
	}
	return err
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Taxes").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) LastInvoiceNumber(ctx context.Context, kind enum.SubjectKind, year int) (int, error) {
	var last int
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("subject_kind = ? AND year = ?", kind, year).
		Select("COALESCE(MAX(invoice_number), 0)").
		Scan(&last).Error
	return last, err
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{})

	if params.SubjectID != nil {
		query = query.Where("subject_id = ?", *params.SubjectID)
	}
	if params.Kind != nil {
		query = query.Where("subject_kind = ?", *params.Kind)
	}
	if params.Year != nil {
		query = query.Where("year = ?", *params.Year)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Taxes").
		Order("year DESC, invoice_number DESC").
		Find(&invoices).Error

	return invoices, total, err
}
