package pdfwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// TaxRow is one per-tax-rate aggregate line on an invoice document.
type TaxRow struct {
	TaxRate      decimal.Decimal
	SumPriceExcl decimal.Decimal
	SumPriceIncl decimal.Decimal
	SumTax       decimal.Decimal
}

// InvoiceData carries everything the writer needs to render one invoice.
type InvoiceData struct {
	HeaderText      string
	SubjectName     string
	InvoiceNumber   int
	InvoiceDate     string
	TaxRows         []TaxRow
	ReturnedDeposit decimal.Decimal
	TotalExcl       decimal.Decimal
	TotalIncl       decimal.Decimal
	PaidInCash      bool
	// CreationDate is embedded in the document metadata. Pinning it to the
	// invoice date keeps renders byte-for-byte reproducible.
	CreationDate time.Time
}

// Writer renders an invoice document to a filesystem path. The write is
// the only side effect; implementations never touch the database.
type Writer interface {
	Write(data *InvoiceData, path string) error
}

// --- PDF writer (go-pdf/fpdf) ---

type pdfWriter struct{}

// NewPDFWriter creates the default PDF invoice writer.
func NewPDFWriter() Writer {
	return &pdfWriter{}
}

func (w *pdfWriter) Write(data *InvoiceData, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("pdfwriter: failed to create output directory: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(data.CreationDate)
	pdf.SetTitle(fmt.Sprintf("Invoice %d", data.InvoiceNumber), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, data.HeaderText, "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("Invoice %d", data.InvoiceNumber), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, data.SubjectName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", data.InvoiceDate), "", 1, "L", false, 0, "")
	if data.PaidInCash {
		pdf.CellFormat(0, 6, "Paid in cash", "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Tax table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 7, "Tax rate", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 7, "Price excl.", "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 7, "Tax", "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 7, "Price incl.", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range data.TaxRows {
		pdf.CellFormat(40, 7, row.TaxRate.StringFixed(2)+" %", "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, row.SumPriceExcl.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, row.SumTax.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, row.SumPriceIncl.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	if !data.ReturnedDeposit.IsZero() {
		pdf.Ln(2)
		pdf.CellFormat(0, 6, fmt.Sprintf("Returned deposit: %s", data.ReturnedDeposit.StringFixed(2)), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total excl. tax: %s", data.TotalExcl.StringFixed(2)), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Total incl. tax: %s", data.TotalIncl.StringFixed(2)), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("pdfwriter: failed to write %s: %w", path, err)
	}
	return nil
}

// --- Null writer ---

type nullWriter struct{}

// NewNullWriter creates a writer that only touches the output file.
// Useful for environments without a document storage mount.
func NewNullWriter() Writer {
	return &nullWriter{}
}

func (w *nullWriter) Write(data *InvoiceData, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte{}, 0o644)
}
