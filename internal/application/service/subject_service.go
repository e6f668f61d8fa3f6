package service

import (
	"context"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/coopshop/billing-api/pkg/apperror"
	"github.com/google/uuid"
)

// CreateSubjectInput contains data for creating a billing subject
type CreateSubjectInput struct {
	Kind        enum.SubjectKind
	Name        string
	Email       string
	SendInvoice bool
}

// SubjectService handles billing subject management
type SubjectService struct {
	subjectRepo repository.BillingSubjectRepository
}

// NewSubjectService creates a new subject service
func NewSubjectService(subjectRepo repository.BillingSubjectRepository) *SubjectService {
	return &SubjectService{subjectRepo: subjectRepo}
}

// Create registers a new billing subject
func (s *SubjectService) Create(ctx context.Context, input *CreateSubjectInput) (*entity.BillingSubject, error) {
	subject := &entity.BillingSubject{
		Kind:        input.Kind,
		Name:        input.Name,
		Email:       input.Email,
		Active:      true,
		SendInvoice: input.SendInvoice,
	}
	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// GetByID fetches a billing subject by ID
func (s *SubjectService) GetByID(ctx context.Context, id uuid.UUID) (*entity.BillingSubject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, apperror.NewNotFoundError("Billing subject")
	}
	return subject, nil
}

// ListActive returns all active subjects of the given kind
func (s *SubjectService) ListActive(ctx context.Context, kind enum.SubjectKind) ([]entity.BillingSubject, error) {
	return s.subjectRepo.ListActive(ctx, kind)
}
