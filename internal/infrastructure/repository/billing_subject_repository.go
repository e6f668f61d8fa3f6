package repository

import (
	"context"
	"errors"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	domainRepo "github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type billingSubjectRepository struct {
	db *gorm.DB
}

// NewBillingSubjectRepository creates a new billing subject repository
func NewBillingSubjectRepository(db *gorm.DB) domainRepo.BillingSubjectRepository {
	return &billingSubjectRepository{db: db}
}

func (r *billingSubjectRepository) Create(ctx context.Context, subject *entity.BillingSubject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *billingSubjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BillingSubject, error) {
	var subject entity.BillingSubject
	err := r.db.WithContext(ctx).First(&subject, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &subject, err
}

func (r *billingSubjectRepository) ListActive(ctx context.Context, kind enum.SubjectKind) ([]entity.BillingSubject, error) {
	var subjects []entity.BillingSubject
	err := r.db.WithContext(ctx).
		Where("kind = ? AND active = ?", kind, true).
		Order("name ASC").
		Find(&subjects).Error
	return subjects, err
}
