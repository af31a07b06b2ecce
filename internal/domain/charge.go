package domain

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrMissingChargeID        = errors.New("charge id is required")
	ErrInvalidAmount          = errors.New("charge amount must not be negative")
	ErrMissingCustomerDetails = errors.New("charge has no customer name or email")
)

// Charge is a single payment transaction fetched from the payment processor.
// Amounts are in minor currency units. Charges are immutable once fetched.
type Charge struct {
	ID            string
	Amount        int64
	Currency      string
	Created       time.Time
	Description   string
	CustomerName  string
	CustomerEmail string
}

func (c Charge) Validate() error {
	if c.ID == "" {
		return ErrMissingChargeID
	}
	if c.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// HasCustomerDetails reports whether the charge carries enough billing
// information to resolve a ledger contact. A charge without both name and
// email cannot be invoiced and is skipped, not retried.
func (c Charge) HasCustomerDetails() bool {
	return c.CustomerName != "" && c.CustomerEmail != ""
}
