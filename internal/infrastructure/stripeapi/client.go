package stripeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/nordbooks/fiken-sync/internal/domain"
	"go.uber.org/zap"
)

const pageLimit = 100

// Client talks to the payment processor's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

type chargePage struct {
	Data    []chargePayload `json:"data"`
	HasMore bool            `json:"has_more"`
}

type chargePayload struct {
	ID             string          `json:"id"`
	Amount         int64           `json:"amount"`
	Currency       string          `json:"currency"`
	Created        int64           `json:"created"`
	Description    string          `json:"description"`
	BillingDetails *billingDetails `json:"billing_details"`
	Customer       json.RawMessage `json:"customer"`
}

type billingDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type customerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p chargePayload) toDomain() domain.Charge {
	charge := domain.Charge{
		ID:          p.ID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Created:     time.Unix(p.Created, 0),
		Description: p.Description,
	}
	if p.BillingDetails != nil {
		charge.CustomerName = p.BillingDetails.Name
		charge.CustomerEmail = p.BillingDetails.Email
	}
	// Billing details may be blank. Fall back to the expanded customer
	// object; without expansion the customer field is a bare id string and
	// carries nothing useful.
	if len(p.Customer) > 0 && p.Customer[0] == '{' {
		var customer customerPayload
		if err := json.Unmarshal(p.Customer, &customer); err == nil {
			if charge.CustomerName == "" {
				charge.CustomerName = customer.Name
			}
			if charge.CustomerEmail == "" {
				charge.CustomerEmail = customer.Email
			}
		}
	}
	return charge
}

// ListCharges fetches every charge created in [from, to], following cursor
// pagination, and returns them oldest first. Order matters downstream: the
// running-total threshold computation is cumulative.
func (c *Client) ListCharges(ctx context.Context, from, to time.Time) ([]domain.Charge, error) {
	var charges []domain.Charge

	startingAfter := ""
	for {
		query := url.Values{}
		query.Set("created[gte]", strconv.FormatInt(from.Unix(), 10))
		query.Set("created[lte]", strconv.FormatInt(to.Unix(), 10))
		query.Set("limit", strconv.Itoa(pageLimit))
		if startingAfter != "" {
			query.Set("starting_after", startingAfter)
		}

		var page chargePage
		if err := c.get(ctx, "/charges?"+query.Encode(), &page); err != nil {
			return nil, fmt.Errorf("failed to list charges: %w", err)
		}

		for _, payload := range page.Data {
			charges = append(charges, payload.toDomain())
		}

		if !page.HasMore || len(page.Data) == 0 {
			break
		}
		startingAfter = page.Data[len(page.Data)-1].ID
	}

	sort.Slice(charges, func(i, j int) bool {
		return charges[i].Created.Before(charges[j].Created)
	})

	c.logger.Debug("charges listed",
		zap.Int("count", len(charges)),
		zap.Time("from", from),
		zap.Time("to", to),
	)

	return charges, nil
}

// GetCharge fetches one charge with its customer sub-resource expanded.
func (c *Client) GetCharge(ctx context.Context, id string) (domain.Charge, error) {
	query := url.Values{}
	query.Set("expand[]", "customer")

	var payload chargePayload
	if err := c.get(ctx, "/charges/"+id+"?"+query.Encode(), &payload); err != nil {
		return domain.Charge{}, fmt.Errorf("failed to retrieve charge %s: %w", id, err)
	}
	return payload.toDomain(), nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
