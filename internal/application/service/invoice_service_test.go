package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/coopshop/billing-api/internal/config"
	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/pkg/apperror"
	"github.com/coopshop/billing-api/pkg/pdfwriter"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type invoiceServiceFixture struct {
	svc         *InvoiceService
	subjectRepo *fakeSubjectRepo
	detailRepo  *fakeOrderDetailRepo
	paymentRepo *fakePaymentRepo
	invoiceRepo *fakeInvoiceRepo
	auditRepo   *fakeAuditRepo
	notifier    *fakeNotifier
	subject     *entity.BillingSubject
	billingCfg  *config.BillingConfig
}

func newInvoiceServiceFixture(t *testing.T, writer pdfwriter.Writer) *invoiceServiceFixture {
	t.Helper()

	subjectRepo := newFakeSubjectRepo()
	detailRepo := &fakeOrderDetailRepo{}
	paymentRepo := &fakePaymentRepo{}
	invoiceRepo := &fakeInvoiceRepo{}
	auditRepo := &fakeAuditRepo{}
	notifier := &fakeNotifier{}

	subject := &entity.BillingSubject{
		Kind:        enum.SubjectKindCustomer,
		Name:        "Maria Huber",
		Email:       "maria@example.com",
		Active:      true,
		SendInvoice: true,
	}
	require.NoError(t, subjectRepo.Create(context.Background(), subject))

	billingCfg := &config.BillingConfig{
		DateFormat:               "02.01.2006",
		DepositCashlessStartDate: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		InvoiceHeaderText:        "Thank you",
		VATForDeposit:            decimal.NewFromInt(20),
	}

	log := zap.NewNop().Sugar()
	audit := NewAuditService(auditRepo, log)
	billing := NewBillingService(detailRepo, paymentRepo, billingCfg)

	if writer == nil {
		writer = pdfwriter.NewNullWriter()
	}

	svc := NewInvoiceService(
		subjectRepo, invoiceRepo, detailRepo, paymentRepo,
		billing, writer, notifier, audit,
		t.TempDir(), billingCfg, log,
	)

	return &invoiceServiceFixture{
		svc:         svc,
		subjectRepo: subjectRepo,
		detailRepo:  detailRepo,
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		auditRepo:   auditRepo,
		notifier:    notifier,
		subject:     subject,
		billingCfg:  billingCfg,
	}
}

func (f *invoiceServiceFixture) addDetail(t *testing.T, priceExcl, priceIncl, rate string, day time.Time) {
	t.Helper()
	require.NoError(t, f.detailRepo.Create(context.Background(), &entity.OrderDetail{
		SubjectID:         f.subject.ID,
		ProductName:       "Bread",
		TotalPriceTaxExcl: decimal.RequireFromString(priceExcl),
		TotalPriceTaxIncl: decimal.RequireFromString(priceIncl),
		TaxRate:           decimal.RequireFromString(rate),
		OrderState:        enum.OrderStateOrderListSent,
		OrderDate:         day,
	}))
}

func (f *invoiceServiceFixture) addApprovedPayback(t *testing.T, amount string, day time.Time) uuid.UUID {
	t.Helper()
	payment := &entity.Payment{
		SubjectID: f.subject.ID,
		Type:      enum.PaymentTypePayback,
		Amount:    decimal.RequireFromString(amount),
		Approval:  enum.PaymentApprovalApproved,
		DateAdd:   day,
	}
	require.NoError(t, f.paymentRepo.Create(context.Background(), payment))
	return payment.ID
}

func generateInput(subjectID uuid.UUID, runDay time.Time) GenerateInput {
	return GenerateInput{
		SubjectID:     subjectID,
		RunDay:        runDay,
		ActorID:       uuid.New(),
		CorrelationID: uuid.New().String(),
	}
}

func TestGenerateCreatesInvoiceWithTaxRows(t *testing.T) {
	f := newInvoiceServiceFixture(t, nil)
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	f.addDetail(t, "10.00", "11.00", "10", runDay.AddDate(0, 0, -3))
	f.addDetail(t, "20.00", "22.00", "10", runDay.AddDate(0, 0, -2))
	f.addDetail(t, "5.00", "6.00", "20", runDay.AddDate(0, 0, -1))
	paybackID := f.addApprovedPayback(t, "2.50", runDay.AddDate(0, 0, -1))

	invoice, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.NoError(t, err)
	require.NotNil(t, invoice)

	assert.Equal(t, 1, invoice.InvoiceNumber)
	assert.Equal(t, 2026, invoice.Year)
	assert.Equal(t, enum.SubjectKindCustomer, invoice.SubjectKind)
	assert.Equal(t, fmt.Sprintf("2026-08-31_maria-huber_%s_invoice_1.pdf", f.subject.ID), invoice.Filename)

	require.Len(t, invoice.Taxes, 2)
	assert.True(t, invoice.Taxes[0].TaxRate.Equal(decimal.NewFromInt(10)))
	assert.True(t, invoice.Taxes[0].TotalPriceTaxExcl.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, invoice.Taxes[0].TotalPriceTaxIncl.Equal(decimal.RequireFromString("33.00")))
	assert.True(t, invoice.Taxes[0].TotalPriceTax.Equal(decimal.RequireFromString("3.00")))
	assert.True(t, invoice.Taxes[1].TaxRate.Equal(decimal.NewFromInt(20)))
	assert.True(t, invoice.Taxes[1].TotalPriceTax.Equal(decimal.RequireFromString("1.00")))

	// Returned deposit is linked to this invoice.
	payment, err := f.paymentRepo.GetByID(context.Background(), paybackID)
	require.NoError(t, err)
	require.NotNil(t, payment.InvoiceID)
	assert.Equal(t, invoice.ID, *payment.InvoiceID)

	// All covered order details are billed.
	for _, d := range f.detailRepo.details {
		assert.Equal(t, enum.OrderStateBilled, d.OrderState)
	}

	assert.Equal(t, []string{"maria@example.com"}, f.notifier.sent)
}

func TestGenerateSkipsWhenNothingBillable(t *testing.T) {
	f := newInvoiceServiceFixture(t, nil)
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	invoice, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.NoError(t, err)
	assert.Nil(t, invoice)
	assert.Empty(t, f.invoiceRepo.invoices)
	assert.Empty(t, f.notifier.sent)
}

func TestGenerateDepositOnlyInvoice(t *testing.T) {
	f := newInvoiceServiceFixture(t, nil)
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	f.addApprovedPayback(t, "4.00", runDay.AddDate(0, 0, -1))

	invoice, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.NoError(t, err)
	require.NotNil(t, invoice)
	assert.Empty(t, invoice.Taxes)
}

func TestGenerateIgnoresPaybacksOutsideWindow(t *testing.T) {
	f := newInvoiceServiceFixture(t, nil)
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// Before the cashless start date; must never be invoiced.
	f.addApprovedPayback(t, "4.00", time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC))

	invoice, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.NoError(t, err)
	assert.Nil(t, invoice)
}

func TestGenerateRetriesOnNumberConflict(t *testing.T) {
	f := newInvoiceServiceFixture(t, nil)
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	f.addDetail(t, "10.00", "11.00", "10", runDay.AddDate(0, 0, -1))

	f.invoiceRepo.conflicts = 1

	invoice, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.NoError(t, err)
	require.NotNil(t, invoice)

	// The competitor took number 1, the retried allocation got number 2.
	assert.Equal(t, 2, invoice.InvoiceNumber)
	last, err := f.invoiceRepo.LastInvoiceNumber(context.Background(), enum.SubjectKindCustomer, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, last)
}

func TestGenerateGivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newInvoiceServiceFixture(t, nil)
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	f.addDetail(t, "10.00", "11.00", "10", runDay.AddDate(0, 0, -1))

	f.invoiceRepo.conflicts = maxNumberAttempts

	_, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvoiceNumberConflict))
}

func TestGenerateRenderFailureLeavesNoInvoice(t *testing.T) {
	f := newInvoiceServiceFixture(t, failingWriter{})
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	f.addDetail(t, "10.00", "11.00", "10", runDay.AddDate(0, 0, -1))
	paybackID := f.addApprovedPayback(t, "2.50", runDay.AddDate(0, 0, -1))

	_, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.Error(t, err)
	assert.True(t, apperror.IsRenderError(err))

	// Nothing was persisted or mutated.
	assert.Empty(t, f.invoiceRepo.invoices)
	for _, d := range f.detailRepo.details {
		assert.NotEqual(t, enum.OrderStateBilled, d.OrderState)
	}
	payment, err := f.paymentRepo.GetByID(context.Background(), paybackID)
	require.NoError(t, err)
	assert.Nil(t, payment.InvoiceID)
}

func TestGenerateNotificationFailureIsNotFatal(t *testing.T) {
	f := newInvoiceServiceFixture(t, nil)
	f.notifier.err = errors.New("smtp unreachable")
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	f.addDetail(t, "10.00", "11.00", "10", runDay.AddDate(0, 0, -1))

	invoice, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.NoError(t, err)
	require.NotNil(t, invoice)
	assert.Len(t, f.invoiceRepo.invoices, 1)
}

func TestGenerateSkipsNotificationWhenOptedOut(t *testing.T) {
	f := newInvoiceServiceFixture(t, nil)
	f.subject.SendInvoice = false
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	f.addDetail(t, "10.00", "11.00", "10", runDay.AddDate(0, 0, -1))

	invoice, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.NoError(t, err)
	require.NotNil(t, invoice)
	assert.Empty(t, f.notifier.sent)
}

func TestGenerateUnknownSubject(t *testing.T) {
	f := newInvoiceServiceFixture(t, nil)
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Generate(context.Background(), generateInput(uuid.New(), runDay))
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestGenerateRerunIsIdempotent(t *testing.T) {
	f := newInvoiceServiceFixture(t, nil)
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	f.addDetail(t, "10.00", "11.00", "10", runDay.AddDate(0, 0, -1))
	f.addApprovedPayback(t, "2.50", runDay.AddDate(0, 0, -1))

	first, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.NoError(t, err)
	require.NotNil(t, first)

	// Everything is billed and linked now; a re-run finds nothing.
	second, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.NoError(t, err)
	assert.Nil(t, second)
	assert.Len(t, f.invoiceRepo.invoices, 1)
}

func TestGenerateNumbersAreContiguousAcrossSubjects(t *testing.T) {
	f := newInvoiceServiceFixture(t, nil)
	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	f.addDetail(t, "10.00", "11.00", "10", runDay.AddDate(0, 0, -1))

	other := &entity.BillingSubject{
		Kind:        enum.SubjectKindCustomer,
		Name:        "Josef Bauer",
		Active:      true,
		SendInvoice: false,
	}
	require.NoError(t, f.subjectRepo.Create(context.Background(), other))
	require.NoError(t, f.detailRepo.Create(context.Background(), &entity.OrderDetail{
		SubjectID:         other.ID,
		ProductName:       "Milk",
		TotalPriceTaxExcl: decimal.RequireFromString("3.00"),
		TotalPriceTaxIncl: decimal.RequireFromString("3.30"),
		TaxRate:           decimal.NewFromInt(10),
		OrderState:        enum.OrderStateOrderPlaced,
		OrderDate:         runDay.AddDate(0, 0, -1),
	}))

	first, err := f.svc.Generate(context.Background(), generateInput(f.subject.ID, runDay))
	require.NoError(t, err)
	second, err := f.svc.Generate(context.Background(), generateInput(other.ID, runDay))
	require.NoError(t, err)

	assert.Equal(t, 1, first.InvoiceNumber)
	assert.Equal(t, 2, second.InvoiceNumber)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "maria-huber", slugify("Maria Huber"))
	assert.Equal(t, "bio-hof-21", slugify("Bio-Hof 21"))
	assert.Equal(t, "mller", slugify("Müller"))
}
