package service

import (
	"context"
	"testing"
	"time"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPaymentFixture(t *testing.T) (*PaymentService, *fakePaymentRepo, *entity.BillingSubject) {
	t.Helper()
	subjectRepo := newFakeSubjectRepo()
	paymentRepo := &fakePaymentRepo{}
	audit := NewAuditService(&fakeAuditRepo{}, zap.NewNop().Sugar())

	subject := &entity.BillingSubject{
		Kind:   enum.SubjectKindCustomer,
		Name:   "Maria Huber",
		Active: true,
	}
	require.NoError(t, subjectRepo.Create(context.Background(), subject))

	return NewPaymentService(paymentRepo, subjectRepo, audit), paymentRepo, subject
}

func TestCreatePayment(t *testing.T) {
	svc, _, subject := newPaymentFixture(t)

	payment, err := svc.Create(context.Background(), &CreatePaymentInput{
		SubjectID: subject.ID,
		Type:      enum.PaymentTypePayback,
		Amount:    decimal.RequireFromString("3.50"),
		DateAdd:   time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentApprovalPending, payment.Approval)
	assert.Nil(t, payment.InvoiceID)
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	svc, _, subject := newPaymentFixture(t)

	_, err := svc.Create(context.Background(), &CreatePaymentInput{
		SubjectID: subject.ID,
		Type:      enum.PaymentTypePayback,
		Amount:    decimal.Zero,
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCreatePaymentUnknownSubject(t *testing.T) {
	svc, _, _ := newPaymentFixture(t)

	_, err := svc.Create(context.Background(), &CreatePaymentInput{
		SubjectID: uuid.New(),
		Type:      enum.PaymentTypePayback,
		Amount:    decimal.RequireFromString("1.00"),
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestUpdateApproval(t *testing.T) {
	svc, paymentRepo, subject := newPaymentFixture(t)
	actorID := uuid.New()

	payment, err := svc.Create(context.Background(), &CreatePaymentInput{
		SubjectID: subject.ID,
		Type:      enum.PaymentTypePayback,
		Amount:    decimal.RequireFromString("3.50"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateApproval(context.Background(), payment.ID, enum.PaymentApprovalApproved, actorID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentApprovalApproved, updated.Approval)

	stored, err := paymentRepo.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentApprovalApproved, stored.Approval)
}

func TestUpdateApprovalRefusedOnceLinked(t *testing.T) {
	svc, paymentRepo, subject := newPaymentFixture(t)

	payment, err := svc.Create(context.Background(), &CreatePaymentInput{
		SubjectID: subject.ID,
		Type:      enum.PaymentTypePayback,
		Amount:    decimal.RequireFromString("3.50"),
	})
	require.NoError(t, err)

	linked, err := paymentRepo.LinkToInvoice(context.Background(), []uuid.UUID{payment.ID}, uuid.New())
	require.NoError(t, err)
	require.EqualValues(t, 1, linked)

	_, err = svc.UpdateApproval(context.Background(), payment.ID, enum.PaymentApprovalRejected, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}
