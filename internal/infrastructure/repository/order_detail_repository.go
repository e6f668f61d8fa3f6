package repository

import (
	"context"
	"time"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	domainRepo "github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderDetailRepository struct {
	db *gorm.DB
}

// NewOrderDetailRepository creates a new order detail repository
func NewOrderDetailRepository(db *gorm.DB) domainRepo.OrderDetailRepository {
	return &orderDetailRepository{db: db}
}

func (r *orderDetailRepository) Create(ctx context.Context, detail *entity.OrderDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

func (r *orderDetailRepository) CreateBatch(ctx context.Context, details []entity.OrderDetail) error {
	return r.db.WithContext(ctx).Create(&details).Error
}

func (r *orderDetailRepository) FindUnbilled(ctx context.Context, subjectID uuid.UUID, periodEnd time.Time) ([]entity.OrderDetail, error) {
	var details []entity.OrderDetail
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Where("order_state IN ?", enum.UnbilledOrderStates()).
		Where("order_date <= ?", periodEnd).
		Order("order_date ASC").
		Find(&details).Error
	return details, err
}

func (r *orderDetailRepository) MarkBilled(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	// The state filter keeps the transition monotonic; a detail that is
	// already billed is never touched again.
	return r.db.WithContext(ctx).Model(&entity.OrderDetail{}).
		Where("id IN ?", ids).
		Where("order_state IN ?", enum.UnbilledOrderStates()).
		Update("order_state", enum.OrderStateBilled).Error
}
