package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testCharge() Charge {
	return Charge{
		ID:            "ch_100",
		Amount:        39400,
		Currency:      "nok",
		Created:       time.Date(2024, 6, 21, 14, 30, 0, 0, time.UTC),
		Description:   "Workshop ticket",
		CustomerName:  "Kari Nordmann",
		CustomerEmail: "kari@example.com",
	}
}

func TestBuild_MapsChargeAndTaxDecision(t *testing.T) {
	builder := NewInvoiceBuilder("1960:10001")

	account := int64(3000)
	vat := TaxDecision{
		VATType:   VATTypeHigh,
		Account:   &account,
		NetAmount: 31520,
		VATAmount: 7880,
	}

	invoice := builder.Build(testCharge(), "42", vat)

	assert.Equal(t, "2024-06-21", invoice.Date)
	assert.Equal(t, "2024-06-21", invoice.PaymentDate)
	assert.Equal(t, "external_invoice", invoice.Kind)
	assert.Equal(t, "NOK", invoice.Currency)
	assert.Equal(t, "42", invoice.CustomerID)
	assert.Equal(t, "1960:10001", invoice.PaymentAccount)

	// totalPaid is always the gross amount, regardless of the VAT split
	assert.Equal(t, int64(39400), invoice.TotalPaid)

	if assert.Len(t, invoice.Lines, 1) {
		line := invoice.Lines[0]
		assert.Equal(t, "Workshop ticket", line.Description)
		assert.Equal(t, int64(31520), line.NetPrice)
		assert.Equal(t, VATTypeHigh, line.VATType)
		if assert.NotNil(t, line.VATAmount) {
			assert.Equal(t, int64(7880), *line.VATAmount)
		}
		if assert.NotNil(t, line.Account) {
			assert.Equal(t, int64(3000), *line.Account)
		}
	}
}

func TestBuild_OutsideScopeLineCarriesNoVAT(t *testing.T) {
	builder := NewInvoiceBuilder("1960:10001")

	vat := TaxDecision{VATType: VATTypeOutside, NetAmount: 39400}
	invoice := builder.Build(testCharge(), "42", vat)

	line := invoice.Lines[0]
	assert.Nil(t, line.VATAmount)
	assert.Nil(t, line.Account)
	assert.Equal(t, int64(39400), line.NetPrice)
}

func TestBuild_EmptyDescriptionFallsBack(t *testing.T) {
	builder := NewInvoiceBuilder("1960:10001")

	charge := testCharge()
	charge.Description = ""

	invoice := builder.Build(charge, "42", TaxDecision{VATType: VATTypeOutside, NetAmount: charge.Amount})

	assert.NotEmpty(t, invoice.Lines[0].Description)
}

func TestBuild_SaleNumbersUniqueWithinSameSecond(t *testing.T) {
	builder := NewInvoiceBuilder("1960:10001")
	frozen := time.Date(2024, 6, 21, 14, 30, 0, 0, time.UTC)
	builder.now = func() time.Time { return frozen }

	vat := TaxDecision{VATType: VATTypeOutside, NetAmount: 39400}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		invoice := builder.Build(testCharge(), "42", vat)
		assert.True(t, strings.HasPrefix(invoice.SaleNumber, "INV-20240621143000-"))
		assert.False(t, seen[invoice.SaleNumber], "duplicate sale number %s", invoice.SaleNumber)
		seen[invoice.SaleNumber] = true
	}
}
