package repository

import (
	"context"

	"github.com/coopshop/billing-api/internal/domain/entity"
)

// AuditLogRepository defines the interface for audit log data operations
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
}
