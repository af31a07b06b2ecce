package domain

// Contact is a customer record in the ledger system. LedgerID is assigned by
// the ledger and treated as an opaque string; Email is the lookup key, so at
// most one contact is ever created per distinct email.
type Contact struct {
	LedgerID string
	Name     string
	Email    string
}
