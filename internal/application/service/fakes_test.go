package service

import (
	"context"
	"errors"
	"time"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	domainRepo "github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/coopshop/billing-api/pkg/apperror"
	"github.com/coopshop/billing-api/pkg/pdfwriter"
	"github.com/google/uuid"
)

type fakeSubjectRepo struct {
	subjects map[uuid.UUID]*entity.BillingSubject
	listErr  error
}

func newFakeSubjectRepo() *fakeSubjectRepo {
	return &fakeSubjectRepo{subjects: make(map[uuid.UUID]*entity.BillingSubject)}
}

func (f *fakeSubjectRepo) Create(ctx context.Context, subject *entity.BillingSubject) error {
	if subject.ID == uuid.Nil {
		subject.ID = uuid.New()
	}
	f.subjects[subject.ID] = subject
	return nil
}

func (f *fakeSubjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.BillingSubject, error) {
	return f.subjects[id], nil
}

func (f *fakeSubjectRepo) ListActive(ctx context.Context, kind enum.SubjectKind) ([]entity.BillingSubject, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []entity.BillingSubject
	for _, s := range f.subjects {
		if s.Active && s.Kind == kind {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeOrderDetailRepo struct {
	details []entity.OrderDetail
}

func (f *fakeOrderDetailRepo) Create(ctx context.Context, detail *entity.OrderDetail) error {
	if detail.ID == uuid.Nil {
		detail.ID = uuid.New()
	}
	f.details = append(f.details, *detail)
	return nil
}

func (f *fakeOrderDetailRepo) CreateBatch(ctx context.Context, details []entity.OrderDetail) error {
	for i := range details {
		if err := f.Create(ctx, &details[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeOrderDetailRepo) FindUnbilled(ctx context.Context, subjectID uuid.UUID, periodEnd time.Time) ([]entity.OrderDetail, error) {
	var out []entity.OrderDetail
	for _, d := range f.details {
		if d.SubjectID != subjectID || d.OrderDate.After(periodEnd) {
			continue
		}
		if d.OrderState == enum.OrderStateBilled {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeOrderDetailRepo) MarkBilled(ctx context.Context, ids []uuid.UUID) error {
	idSet := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	for i := range f.details {
		if idSet[f.details[i].ID] {
			f.details[i].OrderState = enum.OrderStateBilled
		}
	}
	return nil
}

type fakePaymentRepo struct {
	payments []entity.Payment
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments = append(f.payments, *payment)
	return nil
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	for i := range f.payments {
		if f.payments[i].ID == id {
			p := f.payments[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) FindUnlinkedPaybacks(ctx context.Context, subjectID uuid.UUID, from, to time.Time) ([]entity.Payment, error) {
	var out []entity.Payment
	for _, p := range f.payments {
		if p.SubjectID != subjectID || p.Type != enum.PaymentTypePayback {
			continue
		}
		if p.Approval != enum.PaymentApprovalApproved || p.InvoiceID != nil {
			continue
		}
		if p.DateAdd.Before(from) || p.DateAdd.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePaymentRepo) LinkToInvoice(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error) {
	idSet := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var linked int64
	for i := range f.payments {
		if idSet[f.payments[i].ID] && f.payments[i].InvoiceID == nil {
			id := invoiceID
			f.payments[i].InvoiceID = &id
			linked++
		}
	}
	return linked, nil
}

func (f *fakePaymentRepo) UpdateApproval(ctx context.Context, id uuid.UUID, approval enum.PaymentApproval) error {
	for i := range f.payments {
		if f.payments[i].ID == id {
			f.payments[i].Approval = approval
			return nil
		}
	}
	return nil
}

func (f *fakePaymentRepo) List(ctx context.Context, params *domainRepo.PaymentFilterParams) ([]entity.Payment, int64, error) {
	return f.payments, int64(len(f.payments)), nil
}

// fakeInvoiceRepo simulates the unique index on (kind, year, number). When
// conflicts > 0 it lets a simulated competitor win the number first, so the
// caller has to retry with the next one.
type fakeInvoiceRepo struct {
	invoices  []*entity.Invoice
	conflicts int
}

func (f *fakeInvoiceRepo) CreateWithTaxes(ctx context.Context, invoice *entity.Invoice) error {
	if f.conflicts > 0 {
		f.conflicts--
		competitor := &entity.Invoice{
			ID:            uuid.New(),
			SubjectID:     uuid.New(),
			SubjectKind:   invoice.SubjectKind,
			Year:          invoice.Year,
			InvoiceNumber: invoice.InvoiceNumber,
		}
		f.invoices = append(f.invoices, competitor)
		return apperror.ErrInvoiceNumberConflict
	}
	for _, existing := range f.invoices {
		if existing.SubjectKind == invoice.SubjectKind &&
			existing.Year == invoice.Year &&
			existing.InvoiceNumber == invoice.InvoiceNumber {
			return apperror.ErrInvoiceNumberConflict
		}
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	stored := *invoice
	f.invoices = append(f.invoices, &stored)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			out := *inv
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) LastInvoiceNumber(ctx context.Context, kind enum.SubjectKind, year int) (int, error) {
	last := 0
	for _, inv := range f.invoices {
		if inv.SubjectKind == kind && inv.Year == year && inv.InvoiceNumber > last {
			last = inv.InvoiceNumber
		}
	}
	return last, nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	out := make([]entity.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

type fakeAuditRepo struct {
	entries []entity.AuditLog
}

func (f *fakeAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	f.entries = append(f.entries, *log)
	return nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendInvoiceNotification(to string, invoiceNumber int, period string, attachmentPath string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type failingWriter struct{}

func (failingWriter) Write(data *pdfwriter.InvoiceData, path string) error {
	return errors.New("disk full")
}

type fakeEnqueuer struct {
	jobs []InvoiceJob
	err  error
}

func (f *fakeEnqueuer) EnqueueInvoiceGeneration(ctx context.Context, job InvoiceJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}
