package pdfwriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() *InvoiceData {
	return &InvoiceData{
		HeaderText:    "Thank you for shopping at your food coop.",
		SubjectName:   "Maria Huber",
		InvoiceNumber: 42,
		InvoiceDate:   "31.08.2026",
		TaxRows: []TaxRow{
			{
				TaxRate:      decimal.NewFromInt(10),
				SumPriceExcl: decimal.RequireFromString("30.00"),
				SumPriceIncl: decimal.RequireFromString("33.00"),
				SumTax:       decimal.RequireFromString("3.00"),
			},
			{
				TaxRate:      decimal.NewFromInt(20),
				SumPriceExcl: decimal.RequireFromString("5.00"),
				SumPriceIncl: decimal.RequireFromString("6.00"),
				SumTax:       decimal.RequireFromString("1.00"),
			},
		},
		ReturnedDeposit: decimal.RequireFromString("2.50"),
		TotalExcl:       decimal.RequireFromString("35.00"),
		TotalIncl:       decimal.RequireFromString("36.50"),
		CreationDate:    time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestWriteCreatesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "invoice.pdf")

	require.NoError(t, NewPDFWriter().Write(sampleData(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	head := make([]byte, 5)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Read(head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(head))
}

func TestWriteIsReproducible(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.pdf")
	second := filepath.Join(dir, "b.pdf")

	require.NoError(t, NewPDFWriter().Write(sampleData(), first))
	require.NoError(t, NewPDFWriter().Write(sampleData(), second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNullWriterTouchesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.pdf")
	require.NoError(t, NewNullWriter().Write(sampleData(), path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
