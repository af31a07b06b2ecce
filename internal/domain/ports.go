package domain

import (
	"context"
	"time"
)

// ChargeSource lists and expands charges from the payment processor.
type ChargeSource interface {
	// ListCharges returns every charge created in [from, to], oldest first.
	ListCharges(ctx context.Context, from, to time.Time) ([]Charge, error)
	// GetCharge fetches the full charge with its customer expanded, so
	// billing name and email are resolved when the charge itself lacks them.
	GetCharge(ctx context.Context, id string) (Charge, error)
}

// ContactDirectory is the ledger system's contact API.
type ContactDirectory interface {
	ListContacts(ctx context.Context) ([]Contact, error)
	// CreateContact registers a new customer contact and returns the
	// ledger-assigned id.
	CreateContact(ctx context.Context, name, email string) (string, error)
}

// InvoiceSubmitter posts invoices to the ledger system. A nil return means
// the ledger confirmed the invoice; implementations retry transient failures
// internally and never advance any state themselves.
type InvoiceSubmitter interface {
	SubmitSale(ctx context.Context, invoice Invoice) error
}

// ProgressStore persists the sync checkpoint between runs. Record is called
// once per confirmed charge, after submission and before the driver trusts
// the advanced running total.
type ProgressStore interface {
	Load(ctx context.Context) (SyncCheckpoint, error)
	Record(ctx context.Context, chargeID string, amount int64) error
}

// ChargeArchive keeps raw per-charge dumps for manual inspection. The dumps
// are informational and never read back.
type ChargeArchive interface {
	Save(charge Charge) error
}
