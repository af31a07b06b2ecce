package service

import (
	"context"
	"fmt"

	"github.com/nordbooks/fiken-sync/internal/domain"
	"go.uber.org/zap"
)

// CustomerResolver maps a charge's billing name and email to a ledger
// contact id, creating the contact when no existing one matches the email.
// Resolutions are cached for the lifetime of the resolver (one run), so a
// repeated email costs at most one lookup and at most one creation.
type CustomerResolver struct {
	directory domain.ContactDirectory
	logger    *zap.Logger
	cache     map[string]string // email -> ledger contact id
}

func NewCustomerResolver(directory domain.ContactDirectory, logger *zap.Logger) *CustomerResolver {
	return &CustomerResolver{
		directory: directory,
		logger:    logger,
		cache:     make(map[string]string),
	}
}

func (r *CustomerResolver) Resolve(ctx context.Context, name, email string) (string, error) {
	if id, ok := r.cache[email]; ok {
		return id, nil
	}

	contacts, err := r.directory.ListContacts(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list contacts: %w", err)
	}

	for _, contact := range contacts {
		if contact.Email == email {
			r.logger.Debug("contact found",
				zap.String("email", email),
				zap.String("contact_id", contact.LedgerID),
			)
			r.cache[email] = contact.LedgerID
			return contact.LedgerID, nil
		}
	}

	// Creation failures are non-transient: almost always a validation
	// problem with the name or email, so they are surfaced without retry.
	id, err := r.directory.CreateContact(ctx, name, email)
	if err != nil {
		return "", fmt.Errorf("failed to create contact for %s: %w", email, err)
	}

	r.cache[email] = id
	return id, nil
}
