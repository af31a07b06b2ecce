package fiken

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nordbooks/fiken-sync/internal/domain"
	"go.uber.org/zap"
)

// StatusError is a non-2xx response from the ledger API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ledger API returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the response class is worth retrying. Validation
// failures will not change on retry.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= 500
}

type Config struct {
	BaseURL          string
	APIToken         string
	CompanySlug      string
	SubmitAttempts   int
	SubmitRetryDelay time.Duration
	HTTPClient       *http.Client
}

// Client talks to the ledger system's REST API: contact lookup and creation,
// and sale submission with bounded retry.
type Client struct {
	baseURL     string
	apiToken    string
	companySlug string
	httpClient  *http.Client
	logger      *zap.Logger

	submitAttempts int
	submitDelay    time.Duration
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	attempts := cfg.SubmitAttempts
	if attempts < 1 {
		attempts = 3
	}
	delay := cfg.SubmitRetryDelay
	if delay <= 0 {
		delay = 3 * time.Second
	}
	return &Client{
		baseURL:        cfg.BaseURL,
		apiToken:       cfg.APIToken,
		companySlug:    cfg.CompanySlug,
		httpClient:     httpClient,
		logger:         logger,
		submitAttempts: attempts,
		submitDelay:    delay,
	}
}

type contactPayload struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
}

// ListContacts returns the company's contacts. Email matching is left to the
// caller.
func (c *Client) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	resp, err := c.do(ctx, http.MethodGet, c.companyPath("/contacts"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var payload []contactPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}

	contacts := make([]domain.Contact, 0, len(payload))
	for _, p := range payload {
		contacts = append(contacts, domain.Contact{
			LedgerID: p.ID.String(),
			Name:     p.Name,
			Email:    p.Email,
		})
	}
	return contacts, nil
}

// CreateContact registers a customer contact. The ledger answers 201 with
// the new resource in the Location header; the id is its last path segment.
func (c *Client) CreateContact(ctx context.Context, name, email string) (string, error) {
	body := map[string]interface{}{
		"name":     name,
		"email":    email,
		"customer": true,
	}

	resp, err := c.do(ctx, http.MethodPost, c.companyPath("/contacts"), body)
	if err != nil {
		return "", fmt.Errorf("failed to create contact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", statusError(resp)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", errors.New("contact created without a Location header")
	}
	segments := strings.Split(strings.TrimRight(location, "/"), "/")
	id := segments[len(segments)-1]

	c.logger.Info("contact created",
		zap.String("email", email),
		zap.String("contact_id", id),
	)
	return id, nil
}

// SubmitSale posts the invoice, retrying transient failures up to the
// configured attempt count with a fixed delay. A 201 is the only success
// signal. No idempotency key is sent because the ledger API does not accept
// one; a timed-out write that actually landed can therefore produce a
// duplicate invoice on retry.
func (c *Client) SubmitSale(ctx context.Context, invoice domain.Invoice) error {
	var lastErr error

	for attempt := 1; attempt <= c.submitAttempts; attempt++ {
		err := c.postSale(ctx, invoice)
		if err == nil {
			if attempt > 1 {
				c.logger.Info("sale accepted after retry",
					zap.String("sale_number", invoice.SaleNumber),
					zap.Int("attempt", attempt),
				)
			}
			return nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			c.logger.Error("sale rejected",
				zap.Error(err),
				zap.String("sale_number", invoice.SaleNumber),
			)
			return err
		}

		c.logger.Warn("sale submission failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("sale_number", invoice.SaleNumber),
		)

		if attempt < c.submitAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.submitDelay):
			}
		}
	}

	return fmt.Errorf("sale not accepted after %d attempts: %w", c.submitAttempts, lastErr)
}

func (c *Client) postSale(ctx context.Context, invoice domain.Invoice) error {
	resp, err := c.do(ctx, http.MethodPost, c.companyPath("/sales"), invoice)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return statusError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) companyPath(suffix string) string {
	return "/companies/" + c.companySlug + suffix
}

func statusError(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
}
