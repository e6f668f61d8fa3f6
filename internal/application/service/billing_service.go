package service

import (
	"context"
	"sort"
	"time"

	"github.com/coopshop/billing-api/internal/config"
	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRateSum is the aggregate of all order details sharing one tax rate.
type TaxRateSum struct {
	TaxRate      decimal.Decimal
	SumPriceExcl decimal.Decimal
	SumPriceIncl decimal.Decimal
	SumTax       decimal.Decimal
}

// BillingSnapshot is the aggregated unbilled activity of one subject for
// a billing run. NewInvoiceNecessary is false when there is neither an
// unbilled order detail nor an unlinked returned deposit; callers must
// not create an invoice in that case.
type BillingSnapshot struct {
	SubjectID           uuid.UUID
	Kind                enum.SubjectKind
	PeriodEnd           time.Time
	OrderDetails        []entity.OrderDetail
	TaxRates            []TaxRateSum
	ReturnedDeposits    []entity.Payment
	NewInvoiceNecessary bool
}

// ReturnedDepositSum returns the total amount of unlinked returned deposits.
func (s *BillingSnapshot) ReturnedDepositSum() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range s.ReturnedDeposits {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// TotalExcl returns the invoice total excluding tax.
func (s *BillingSnapshot) TotalExcl() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range s.TaxRates {
		sum = sum.Add(t.SumPriceExcl)
	}
	return sum
}

// TotalIncl returns the invoice total including tax, minus returned deposits.
func (s *BillingSnapshot) TotalIncl() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range s.TaxRates {
		sum = sum.Add(t.SumPriceIncl)
	}
	return sum.Sub(s.ReturnedDepositSum())
}

// BillingService aggregates a subject's unbilled activity into a snapshot
type BillingService struct {
	orderDetailRepo repository.OrderDetailRepository
	paymentRepo     repository.PaymentRepository
	billingCfg      *config.BillingConfig
}

// NewBillingService creates a new billing service
func NewBillingService(
	orderDetailRepo repository.OrderDetailRepository,
	paymentRepo repository.PaymentRepository,
	billingCfg *config.BillingConfig,
) *BillingService {
	return &BillingService{
		orderDetailRepo: orderDetailRepo,
		paymentRepo:     paymentRepo,
		billingCfg:      billingCfg,
	}
}

// Aggregate collects the subject's unbilled order details up to periodEnd,
// groups them per tax rate with decimal sums, and collects the approved
// returned-deposit payments not yet linked to an invoice. Deposit payments
// before the cashless start date are never considered.
func (s *BillingService) Aggregate(ctx context.Context, subject *entity.BillingSubject, periodEnd time.Time) (*BillingSnapshot, error) {
	details, err := s.orderDetailRepo.FindUnbilled(ctx, subject.ID, periodEnd)
	if err != nil {
		return nil, err
	}

	deposits, err := s.paymentRepo.FindUnlinkedPaybacks(ctx, subject.ID, s.billingCfg.DepositCashlessStartDate, periodEnd)
	if err != nil {
		return nil, err
	}

	snapshot := &BillingSnapshot{
		SubjectID:           subject.ID,
		Kind:                subject.Kind,
		PeriodEnd:           periodEnd,
		OrderDetails:        details,
		TaxRates:            sumPerTaxRate(details),
		ReturnedDeposits:    deposits,
		NewInvoiceNecessary: len(details) > 0 || len(deposits) > 0,
	}
	return snapshot, nil
}

// sumPerTaxRate groups order details by tax rate, summing the tax-excl,
// tax-incl and tax amounts per rate. Rows are sorted by ascending rate so
// the invoice layout is stable.
func sumPerTaxRate(details []entity.OrderDetail) []TaxRateSum {
	byRate := make(map[string]*TaxRateSum)
	for i := range details {
		d := &details[i]
		key := d.TaxRate.StringFixed(2)
		sum, ok := byRate[key]
		if !ok {
			sum = &TaxRateSum{
				TaxRate:      d.TaxRate,
				SumPriceExcl: decimal.Zero,
				SumPriceIncl: decimal.Zero,
				SumTax:       decimal.Zero,
			}
			byRate[key] = sum
		}
		sum.SumPriceExcl = sum.SumPriceExcl.Add(d.TotalPriceTaxExcl)
		sum.SumPriceIncl = sum.SumPriceIncl.Add(d.TotalPriceTaxIncl)
		sum.SumTax = sum.SumTax.Add(d.Tax())
	}

	rates := make([]TaxRateSum, 0, len(byRate))
	for _, sum := range byRate {
		rates = append(rates, *sum)
	}
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].TaxRate.LessThan(rates[j].TaxRate)
	})
	return rates
}
