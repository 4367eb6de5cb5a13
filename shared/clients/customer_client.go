package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walter090/customer-transactions/shared/models"
)

// CustomerClient calls the customer service. Used by the transaction service
// for balance adjustment and for customer attribute lookups during export.
type CustomerClient struct {
	baseURL string
	client  *http.Client
}

func NewCustomerClient(baseURL string) *CustomerClient {
	return &CustomerClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type transferRequest struct {
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type transferResponse struct {
	Message string          `json:"message"`
	Balance decimal.Decimal `json:"balance"`
	Error   string          `json:"error"`
}

// Transfer asks the customer service to apply a signed balance change. The
// call both authorizes the movement and applies it; a non-2xx status is
// returned as a *RemoteError carrying the remote status code.
func (c *CustomerClient) Transfer(ctx context.Context, customerID string, amount decimal.Decimal, token string) (decimal.Decimal, error) {
	body, err := json.Marshal(transferRequest{CustomerID: customerID, Amount: amount})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to marshal transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transfer/", bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("transfer call failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed transferResponse
	respBody, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(respBody, &parsed); err != nil && resp.StatusCode == http.StatusOK {
		return decimal.Zero, fmt.Errorf("failed to decode transfer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, &RemoteError{StatusCode: resp.StatusCode, Message: parsed.Error}
	}
	return parsed.Balance, nil
}

// Basic fetches the minimal customer projection used by dataset export.
func (c *CustomerClient) Basic(ctx context.Context, customerID, token string) (*models.CustomerBasic, error) {
	url := fmt.Sprintf("%s/%s/basic/", c.baseURL, customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create basic request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("basic call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: "customer lookup failed"}
	}

	var basic models.CustomerBasic
	if err := json.NewDecoder(resp.Body).Decode(&basic); err != nil {
		return nil, fmt.Errorf("failed to decode basic response: %w", err)
	}
	return &basic, nil
}
