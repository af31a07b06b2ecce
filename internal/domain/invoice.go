package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const invoiceKindExternal = "external_invoice"

const defaultLineDescription = "Card payment"

// InvoiceLine is one line item on a ledger sale. Field names follow the
// ledger API's sale schema.
type InvoiceLine struct {
	Description string  `json:"description"`
	NetPrice    int64   `json:"netPrice"`
	VATType     VATType `json:"vatType"`
	VATAmount   *int64  `json:"vat,omitempty"`
	Account     *int64  `json:"account,omitempty"`
}

// Invoice is the ledger system's representation of a sale. TotalPaid is
// always the gross charge amount, regardless of how the line splits net and
// VAT.
type Invoice struct {
	SaleNumber     string        `json:"saleNumber"`
	Date           string        `json:"date"`
	Kind           string        `json:"kind"`
	TotalPaid      int64         `json:"totalPaid"`
	Lines          []InvoiceLine `json:"lines"`
	Currency       string        `json:"currency"`
	CustomerID     string        `json:"customerId"`
	PaymentAccount string        `json:"paymentAccount"`
	PaymentDate    string        `json:"paymentDate"`
}

// InvoiceBuilder constructs ledger invoices from charges. Pure apart from
// sale-number generation.
type InvoiceBuilder struct {
	paymentAccount string
	now            func() time.Time
}

func NewInvoiceBuilder(paymentAccount string) *InvoiceBuilder {
	return &InvoiceBuilder{
		paymentAccount: paymentAccount,
		now:            time.Now,
	}
}

// Build assembles the invoice for one charge. The sale date and payment date
// are both the charge's creation date.
func (b *InvoiceBuilder) Build(charge Charge, customerID string, tax TaxDecision) Invoice {
	date := charge.Created.Format("2006-01-02")

	description := charge.Description
	if description == "" {
		description = defaultLineDescription
	}

	line := InvoiceLine{
		Description: description,
		NetPrice:    tax.NetAmount,
		VATType:     tax.VATType,
		Account:     tax.Account,
	}
	if tax.VATAmount > 0 {
		vat := tax.VATAmount
		line.VATAmount = &vat
	}

	return Invoice{
		SaleNumber:     b.nextSaleNumber(),
		Date:           date,
		Kind:           invoiceKindExternal,
		TotalPaid:      charge.Amount,
		Lines:          []InvoiceLine{line},
		Currency:       strings.ToUpper(charge.Currency),
		CustomerID:     customerID,
		PaymentAccount: b.paymentAccount,
		PaymentDate:    date,
	}
}

// nextSaleNumber generates a sale number unique within the process lifetime.
// The timestamp alone has second resolution and collides when several
// charges are invoiced in the same second; the ledger would silently
// overwrite on collision, so a random suffix disambiguates.
func (b *InvoiceBuilder) nextSaleNumber() string {
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("INV-%s-%s", b.now().Format("20060102150405"), suffix)
}
