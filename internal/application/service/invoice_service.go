package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coopshop/billing-api/internal/config"
	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/coopshop/billing-api/pkg/apperror"
	"github.com/coopshop/billing-api/pkg/email"
	"github.com/coopshop/billing-api/pkg/pdfwriter"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxNumberAttempts bounds the allocate-render-persist retries within one
// job run when another job takes the same invoice number first.
const maxNumberAttempts = 3

// GenerateInput is the payload of one invoice generation run.
type GenerateInput struct {
	SubjectID     uuid.UUID
	RunDay        time.Time
	PaidInCash    bool
	ActorID       uuid.UUID
	CorrelationID string
}

// InvoiceService drives the invoice generation and reconciliation workflow
type InvoiceService struct {
	subjectRepo     repository.BillingSubjectRepository
	invoiceRepo     repository.InvoiceRepository
	orderDetailRepo repository.OrderDetailRepository
	paymentRepo     repository.PaymentRepository
	billing         *BillingService
	writer          pdfwriter.Writer
	notifier        email.Notifier
	audit           *AuditService
	storagePath     string
	billingCfg      *config.BillingConfig
	log             *zap.SugaredLogger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	subjectRepo repository.BillingSubjectRepository,
	invoiceRepo repository.InvoiceRepository,
	orderDetailRepo repository.OrderDetailRepository,
	paymentRepo repository.PaymentRepository,
	billing *BillingService,
	writer pdfwriter.Writer,
	notifier email.Notifier,
	audit *AuditService,
	storagePath string,
	billingCfg *config.BillingConfig,
	log *zap.SugaredLogger,
) *InvoiceService {
	return &InvoiceService{
		subjectRepo:     subjectRepo,
		invoiceRepo:     invoiceRepo,
		orderDetailRepo: orderDetailRepo,
		paymentRepo:     paymentRepo,
		billing:         billing,
		writer:          writer,
		notifier:        notifier,
		audit:           audit,
		storagePath:     storagePath,
		billingCfg:      billingCfg,
		log:             log,
	}
}

// Generate runs the full workflow for one subject: aggregate, skip when
// nothing is billable, allocate the next invoice number, render the PDF,
// persist invoice and tax rows, link returned deposits, mark order details
// billed and send the best-effort notification. A nil invoice with a nil
// error means there was nothing to invoice.
//
// The PDF is rendered before anything is written to the database, so a
// render failure leaves no partial invoice. The unique index on
// (subject_kind, year, invoice_number) guards the number allocation; on a
// conflict the rendered file is discarded and the whole allocate-render-
// persist step retries with a freshly read number.
func (s *InvoiceService) Generate(ctx context.Context, input GenerateInput) (*entity.Invoice, error) {
	subject, err := s.subjectRepo.GetByID(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, apperror.NewNotFoundError("Billing subject")
	}

	snapshot, err := s.billing.Aggregate(ctx, subject, input.RunDay)
	if err != nil {
		return nil, err
	}
	if !snapshot.NewInvoiceNecessary {
		s.log.Infow("no billable activity, skipping invoice",
			"subject_id", subject.ID, "correlation_id", input.CorrelationID)
		return nil, nil
	}

	invoice, err := s.allocateAndPersist(ctx, subject, snapshot, input)
	if err != nil {
		return nil, err
	}

	if err := s.reconcileDeposits(ctx, invoice, snapshot, input.ActorID); err != nil {
		return nil, err
	}

	if err := s.markDetailsBilled(ctx, invoice, snapshot, input.ActorID); err != nil {
		return nil, err
	}

	s.notify(subject, invoice, input)

	s.audit.Record(ctx, input.ActorID, "generate-invoice", "Invoice", invoice.ID,
		fmt.Sprintf("invoice %d/%d generated for %s %s", invoice.Year, invoice.InvoiceNumber, subject.Kind, subject.Name))

	s.log.Infow("invoice generated",
		"subject_id", subject.ID,
		"invoice_id", invoice.ID,
		"invoice_number", invoice.InvoiceNumber,
		"year", invoice.Year,
		"correlation_id", input.CorrelationID)

	return invoice, nil
}

// List returns invoices matching the given filters
func (s *InvoiceService) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, params)
}

// GetByID fetches an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// DocumentPath returns the absolute path of the invoice document.
func (s *InvoiceService) DocumentPath(invoice *entity.Invoice) string {
	return filepath.Join(s.storagePath, invoice.Filename)
}

// allocateAndPersist runs the critical section: read the last persisted
// number, render the document under the candidate number and persist the
// invoice with its tax rows in one transaction.
func (s *InvoiceService) allocateAndPersist(ctx context.Context, subject *entity.BillingSubject, snapshot *BillingSnapshot, input GenerateInput) (*entity.Invoice, error) {
	year := input.RunDay.Year()

	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		last, err := s.invoiceRepo.LastInvoiceNumber(ctx, subject.Kind, year)
		if err != nil {
			return nil, err
		}
		number := nextInvoiceNumber(last)

		filename := invoiceFilename(subject.Name, subject.ID, input.RunDay, number)
		absPath := filepath.Join(s.storagePath, filename)

		if err := s.renderPDF(subject, snapshot, number, input, absPath); err != nil {
			return nil, err
		}

		invoice := &entity.Invoice{
			SubjectID:     subject.ID,
			SubjectKind:   subject.Kind,
			Year:          year,
			InvoiceNumber: number,
			Filename:      filename,
			Created:       input.RunDay,
			PaidInCash:    input.PaidInCash,
			Taxes:         buildTaxRows(snapshot),
		}

		err = s.invoiceRepo.CreateWithTaxes(ctx, invoice)
		if err == nil {
			return invoice, nil
		}

		// The rendered file belongs to the number that was lost; remove it
		// before retrying or giving up.
		if removeErr := os.Remove(absPath); removeErr != nil && !os.IsNotExist(removeErr) {
			s.log.Warnw("failed to remove orphaned invoice file", "path", absPath, "error", removeErr)
		}

		if errors.Is(err, apperror.ErrInvoiceNumberConflict) {
			s.log.Warnw("invoice number conflict, retrying allocation",
				"subject_id", subject.ID, "number", number, "year", year, "attempt", attempt)
			continue
		}
		return nil, err
	}

	return nil, apperror.ErrInvoiceNumberConflict
}

func (s *InvoiceService) renderPDF(subject *entity.BillingSubject, snapshot *BillingSnapshot, number int, input GenerateInput, absPath string) error {
	taxRows := make([]pdfwriter.TaxRow, 0, len(snapshot.TaxRates))
	for _, t := range snapshot.TaxRates {
		taxRows = append(taxRows, pdfwriter.TaxRow{
			TaxRate:      t.TaxRate,
			SumPriceExcl: t.SumPriceExcl,
			SumPriceIncl: t.SumPriceIncl,
			SumTax:       t.SumTax,
		})
	}

	data := &pdfwriter.InvoiceData{
		HeaderText:      s.billingCfg.InvoiceHeaderText,
		SubjectName:     subject.Name,
		InvoiceNumber:   number,
		InvoiceDate:     input.RunDay.Format(s.billingCfg.DateFormat),
		TaxRows:         taxRows,
		ReturnedDeposit: snapshot.ReturnedDepositSum(),
		TotalExcl:       snapshot.TotalExcl(),
		TotalIncl:       snapshot.TotalIncl(),
		PaidInCash:      input.PaidInCash,
		CreationDate:    input.RunDay,
	}

	if err := s.writer.Write(data, absPath); err != nil {
		return apperror.NewRenderError(absPath, err)
	}
	return nil
}

// reconcileDeposits links the snapshot's returned-deposit payments to the
// freshly created invoice. This runs only after the invoice row exists and
// is the only writer of payment.invoice_id.
func (s *InvoiceService) reconcileDeposits(ctx context.Context, invoice *entity.Invoice, snapshot *BillingSnapshot, actorID uuid.UUID) error {
	if len(snapshot.ReturnedDeposits) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(snapshot.ReturnedDeposits))
	for _, p := range snapshot.ReturnedDeposits {
		ids = append(ids, p.ID)
	}

	linked, err := s.paymentRepo.LinkToInvoice(ctx, ids, invoice.ID)
	if err != nil {
		return err
	}

	s.audit.Record(ctx, actorID, "link-returned-deposit", "Invoice", invoice.ID,
		fmt.Sprintf("%d returned deposit payment(s) linked to invoice %d/%d", linked, invoice.Year, invoice.InvoiceNumber))
	return nil
}

func (s *InvoiceService) markDetailsBilled(ctx context.Context, invoice *entity.Invoice, snapshot *BillingSnapshot, actorID uuid.UUID) error {
	if len(snapshot.OrderDetails) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(snapshot.OrderDetails))
	for _, d := range snapshot.OrderDetails {
		ids = append(ids, d.ID)
	}

	if err := s.orderDetailRepo.MarkBilled(ctx, ids); err != nil {
		return err
	}

	s.audit.Record(ctx, actorID, "bill-order-details", "Invoice", invoice.ID,
		fmt.Sprintf("%d order detail(s) transitioned to billed", len(ids)))
	return nil
}

// notify sends the invoice email when the subject opted in. Delivery
// failures are logged and never fail the job; the invoice is already
// persisted at this point.
func (s *InvoiceService) notify(subject *entity.BillingSubject, invoice *entity.Invoice, input GenerateInput) {
	if !subject.SendInvoice || subject.Email == "" {
		return
	}

	period := input.RunDay.Format(s.billingCfg.DateFormat)
	absPath := filepath.Join(s.storagePath, invoice.Filename)
	if err := s.notifier.SendInvoiceNotification(subject.Email, invoice.InvoiceNumber, period, absPath); err != nil {
		deliveryErr := apperror.NewDeliveryError(subject.Email, err)
		s.log.Errorw("invoice notification failed",
			"subject_id", subject.ID,
			"invoice_id", invoice.ID,
			"error", deliveryErr)
	}
}

// nextInvoiceNumber returns the successor of the last issued number for a
// (subject kind, year) scope; the scope is part of the lookup key, not of
// the arithmetic. 0 means no invoice has been issued yet.
func nextInvoiceNumber(lastInvoiceNumber int) int {
	return lastInvoiceNumber + 1
}

func buildTaxRows(snapshot *BillingSnapshot) []entity.InvoiceTax {
	taxes := make([]entity.InvoiceTax, 0, len(snapshot.TaxRates))
	for _, t := range snapshot.TaxRates {
		taxes = append(taxes, entity.InvoiceTax{
			TaxRate:           t.TaxRate,
			TotalPriceTaxExcl: t.SumPriceExcl,
			TotalPriceTaxIncl: t.SumPriceIncl,
			TotalPriceTax:     t.SumTax,
		})
	}
	return taxes
}

// invoiceFilename builds the relative path of the invoice document:
// <date>_<slug>_<subject-id>_invoice_<number>.pdf. Every job writes to a
// distinct file, so concurrent renders never collide.
func invoiceFilename(subjectName string, subjectID uuid.UUID, runDay time.Time, number int) string {
	return fmt.Sprintf("%s_%s_%s_invoice_%d.pdf",
		runDay.Format("2006-01-02"), slugify(subjectName), subjectID, number)
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	return b.String()
}
