package repository

import (
	"context"
	"time"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/google/uuid"
)

// OrderDetailRepository defines the interface for order detail data operations
type OrderDetailRepository interface {
	Create(ctx context.Context, detail *entity.OrderDetail) error
	CreateBatch(ctx context.Context, details []entity.OrderDetail) error
	// FindUnbilled returns the subject's order details in an unbilled state
	// with an order date not after periodEnd, ordered by order date.
	FindUnbilled(ctx context.Context, subjectID uuid.UUID, periodEnd time.Time) ([]entity.OrderDetail, error)
	// MarkBilled transitions the given order details to the billed state.
	// The transition is monotonic; already billed details are not touched.
	MarkBilled(ctx context.Context, ids []uuid.UUID) error
}
