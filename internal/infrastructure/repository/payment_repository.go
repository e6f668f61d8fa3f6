package repository

import (
	"context"
	"errors"
	"time"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	domainRepo "github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) FindUnlinkedPaybacks(ctx context.Context, subjectID uuid.UUID, from, to time.Time) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Where("type = ?", enum.PaymentTypePayback).
		Where("approval = ?", enum.PaymentApprovalApproved).
		Where("invoice_id IS NULL").
		Where("date_add BETWEEN ? AND ?", from, to).
		Order("date_add ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) LinkToInvoice(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	// invoice_id is written exactly once; the NULL guard makes relinking
	// a no-op even if a retried job passes the same payment ids again.
	res := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("id IN ?", ids).
		Where("invoice_id IS NULL").
		Update("invoice_id", invoiceID)
	return res.RowsAffected, res.Error
}

func (r *paymentRepository) UpdateApproval(ctx context.Context, id uuid.UUID, approval enum.PaymentApproval) error {
	return r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("id = ?", id).
		Update("approval", approval).Error
}

func (r *paymentRepository) List(ctx context.Context, params *domainRepo.PaymentFilterParams) ([]entity.Payment, int64, error) {
	var payments []entity.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payment{})

	if params.SubjectID != nil {
		query = query.Where("subject_id = ?", *params.SubjectID)
	}
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Approval != nil {
		query = query.Where("approval = ?", *params.Approval)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("date_add DESC").
		Find(&payments).Error

	return payments, total, err
}
