package domain

// VATType is the tax treatment booked on an invoice line.
type VATType string

const (
	// VATTypeHigh is the standard-rate treatment.
	VATTypeHigh VATType = "HIGH"
	// VATTypeExempt marks sales that are inside the tax area but exempt.
	VATTypeExempt VATType = "EXEMPT"
	// VATTypeOutside marks sales below the VAT registration threshold.
	VATTypeOutside VATType = "OUTSIDE"
)

const (
	// DefaultSaleAccount books sales whose gross amount is not in the
	// product catalog.
	DefaultSaleAccount int64 = 3200
	// StandardRateAccount is the only account whose sales carry a VAT
	// split; all other accounts book the gross amount as net.
	StandardRateAccount int64 = 3000
)

type accountVAT struct {
	Account int64
	VAT     VATType
}

// productAccounts maps the known gross amounts (minor units) of the fixed
// product catalog to their sale account and VAT treatment.
var productAccounts = map[int64]accountVAT{
	39400: {3000, VATTypeHigh},
	41400: {3100, VATTypeExempt},
	43400: {3100, VATTypeExempt},
	23800: {3000, VATTypeHigh},
	25800: {3100, VATTypeExempt},
	27800: {3100, VATTypeExempt},
	43700: {3000, VATTypeHigh},
	45700: {3100, VATTypeExempt},
	48700: {3100, VATTypeExempt},
	63600: {3000, VATTypeHigh},
}

// TaxDecision is the resolved tax treatment for one charge. It is derived,
// never persisted on its own; the invoice builder embeds it in the line item.
type TaxDecision struct {
	VATType   VATType
	Account   *int64 // nil below the registration threshold
	NetAmount int64
	VATAmount int64
}

// Classifier determines the VAT treatment of charge amounts against a
// registration threshold and a standard rate. It is pure: no state, no I/O.
type Classifier struct {
	Threshold int64   // registration threshold, minor units
	Rate      float64 // standard VAT rate, e.g. 0.25
}

// Classify maps a gross amount to its tax treatment. runningTotal is the
// cumulative gross amount of every previously invoiced charge: while
// runningTotal+amount stays at or under the threshold the sale is outside
// the VAT scope. Above it, the product catalog decides account and
// treatment, and only standard-rate catalog sales get a net/VAT split.
func (c Classifier) Classify(amount, runningTotal int64) TaxDecision {
	if runningTotal+amount <= c.Threshold {
		return TaxDecision{VATType: VATTypeOutside, NetAmount: amount}
	}

	av, ok := productAccounts[amount]
	if !ok {
		av = accountVAT{Account: DefaultSaleAccount, VAT: VATTypeHigh}
	}

	account := av.Account
	decision := TaxDecision{VATType: av.VAT, Account: &account, NetAmount: amount}

	if av.VAT == VATTypeHigh && av.Account == StandardRateAccount {
		net := int64(float64(amount) / (1 + c.Rate))
		decision.NetAmount = net
		decision.VATAmount = amount - net
	}

	return decision
}
