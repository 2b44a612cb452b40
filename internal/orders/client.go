package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Outcome values reported by the order service for a top-up reference.
const (
	OutcomeConfirmed = "CONFIRMED"
	OutcomePending   = "PENDING"
	OutcomeFailed    = "FAILED"
)

// HTTPClient talks to the order service's internal wallet top-up endpoints.
type HTTPClient struct {
	BaseURL     string
	InternalKey string
	httpClient  *http.Client
}

func NewHTTPClient(baseURL, internalKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		InternalKey: internalKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type ReferenceRequest struct {
	NetAmount   int64 `json:"netAmount"`
	GrossAmount int64 `json:"grossAmount"`
}

// Reference is a payment reference minted server-side and bound to GrossAmount.
type Reference struct {
	Reference     string `json:"reference"`
	GrossAmount   int64  `json:"grossAmount"`
	NetAmount     int64  `json:"netAmount"`
	PayerEmail    string `json:"payerEmail"`
	TransactionID string `json:"transactionId"`
}

type Verification struct {
	Outcome        string `json:"outcome"`
	CreditedAmount int64  `json:"creditedAmount,omitempty"`
	ReasonCode     string `json:"reasonCode,omitempty"`
}

// APIError is a non-2xx or status=false response from the order service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("order service %d: %s", e.StatusCode, e.Message)
}

func (c *HTTPClient) GenerateTopUpReference(ctx context.Context, userID string, req ReferenceRequest) (*Reference, error) {
	var ref Reference
	if err := c.post(ctx, userID, "/internal/wallet/topup/reference", req, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (c *HTTPClient) VerifyTopUpPayment(ctx context.Context, userID, reference string) (*Verification, error) {
	var v Verification
	if err := c.post(ctx, userID, "/internal/wallet/topup/verify", map[string]string{"reference": reference}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *HTTPClient) CheckPendingTopUp(ctx context.Context, userID, reference string) (*Verification, error) {
	var v Verification
	if err := c.post(ctx, userID, "/internal/wallet/topup/check-pending", map[string]string{"reference": reference}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *HTTPClient) post(ctx context.Context, userID, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", userID)
	if c.InternalKey != "" {
		req.Header.Set("X-Internal-Key", c.InternalKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("decode order service response: %w", err)
	}
	if !envelope.Status {
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}
