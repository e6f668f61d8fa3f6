package service

import (
	"context"
	"time"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/coopshop/billing-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentInput contains data for recording a payment
type CreatePaymentInput struct {
	SubjectID uuid.UUID
	Type      enum.PaymentType
	Amount    decimal.Decimal
	DateAdd   time.Time
}

// PaymentService handles payment recording and approval
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	subjectRepo repository.BillingSubjectRepository
	audit       *AuditService
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repository.PaymentRepository, subjectRepo repository.BillingSubjectRepository, audit *AuditService) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		subjectRepo: subjectRepo,
		audit:       audit,
	}
}

// Create records a new payment. Payback payments start pending and only
// enter invoicing once approved.
func (s *PaymentService) Create(ctx context.Context, input *CreatePaymentInput) (*entity.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewBadRequestError("Payment amount must be positive")
	}

	subject, err := s.subjectRepo.GetByID(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, apperror.NewNotFoundError("Billing subject")
	}

	dateAdd := input.DateAdd
	if dateAdd.IsZero() {
		dateAdd = time.Now()
	}

	payment := &entity.Payment{
		SubjectID: input.SubjectID,
		Type:      input.Type,
		Amount:    input.Amount,
		Approval:  enum.PaymentApprovalPending,
		DateAdd:   dateAdd,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdateApproval sets the approval status of a payment. A payment already
// linked to an invoice is settled and cannot change approval anymore.
func (s *PaymentService) UpdateApproval(ctx context.Context, id uuid.UUID, approval enum.PaymentApproval, actorID uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	if payment.InvoiceID != nil {
		return nil, apperror.NewBadRequestError("Payment is already linked to an invoice")
	}

	if err := s.paymentRepo.UpdateApproval(ctx, id, approval); err != nil {
		return nil, err
	}
	payment.Approval = approval

	s.audit.Record(ctx, actorID, "update-payment-approval", "Payment", payment.ID, approval.String())
	return payment, nil
}

// List returns payments matching the given filters
func (s *PaymentService) List(ctx context.Context, params *repository.PaymentFilterParams) ([]entity.Payment, int64, error) {
	return s.paymentRepo.List(ctx, params)
}
