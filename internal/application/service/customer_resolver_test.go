package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nordbooks/fiken-sync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestResolve_FindsExistingContactByEmail(t *testing.T) {
	ctx := context.Background()
	directory := new(MockContactDirectory)
	resolver := NewCustomerResolver(directory, zap.NewNop())

	directory.On("ListContacts", ctx).Return([]domain.Contact{
		{LedgerID: "5", Name: "Ola Nordmann", Email: "ola@example.com"},
		{LedgerID: "7", Name: "Kari Nordmann", Email: "kari@example.com"},
	}, nil)

	id, err := resolver.Resolve(ctx, "Kari Nordmann", "kari@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "7", id)
	directory.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_CreatesContactWhenMissing(t *testing.T) {
	ctx := context.Background()
	directory := new(MockContactDirectory)
	resolver := NewCustomerResolver(directory, zap.NewNop())

	directory.On("ListContacts", ctx).Return([]domain.Contact{}, nil)
	directory.On("CreateContact", ctx, "Kari Nordmann", "kari@example.com").Return("42", nil)

	id, err := resolver.Resolve(ctx, "Kari Nordmann", "kari@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "42", id)
	directory.AssertExpectations(t)
}

func TestResolve_CachesResolutions(t *testing.T) {
	ctx := context.Background()
	directory := new(MockContactDirectory)
	resolver := NewCustomerResolver(directory, zap.NewNop())

	directory.On("ListContacts", ctx).Return([]domain.Contact{
		{LedgerID: "7", Email: "kari@example.com"},
	}, nil).Once()

	first, err := resolver.Resolve(ctx, "Kari Nordmann", "kari@example.com")
	assert.NoError(t, err)

	second, err := resolver.Resolve(ctx, "Kari Nordmann", "kari@example.com")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	directory.AssertExpectations(t)
}

func TestResolve_CreationFailureSurfacesWithoutRetry(t *testing.T) {
	ctx := context.Background()
	directory := new(MockContactDirectory)
	resolver := NewCustomerResolver(directory, zap.NewNop())

	directory.On("ListContacts", ctx).Return([]domain.Contact{}, nil)
	directory.On("CreateContact", ctx, "Kari Nordmann", "not-an-email").
		Return("", errors.New("ledger API returned status 400")).Once()

	id, err := resolver.Resolve(ctx, "Kari Nordmann", "not-an-email")

	assert.Error(t, err)
	assert.Empty(t, id)
	assert.Contains(t, err.Error(), "failed to create contact")
	directory.AssertExpectations(t)
}

func TestResolve_LookupFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	directory := new(MockContactDirectory)
	resolver := NewCustomerResolver(directory, zap.NewNop())

	directory.On("ListContacts", ctx).Return(nil, errors.New("connection refused"))

	_, err := resolver.Resolve(ctx, "Kari Nordmann", "kari@example.com")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list contacts")
	directory.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything, mock.Anything)
}
