package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TransactionClient calls the transaction service. Used by the customer
// service to merge monthly activity into profile responses.
type TransactionClient struct {
	baseURL string
	client  *http.Client
}

func NewTransactionClient(baseURL string) *TransactionClient {
	return &TransactionClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type infoRequest struct {
	CustomerID string `json:"customer_id"`
}

// Info fetches the previous-month aggregation for a customer. The response
// body is returned untouched so the profile embeds exactly what the
// transaction service produced.
func (c *TransactionClient) Info(ctx context.Context, customerID, token string) (json.RawMessage, error) {
	body, err := json.Marshal(infoRequest{CustomerID: customerID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal info request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/info/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create info request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("info call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read info response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	return respBody, nil
}
