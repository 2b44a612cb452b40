package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_GenerateTopUpReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/wallet/topup/reference", r.URL.Path)
		assert.Equal(t, "svc-key", r.Header.Get("X-Internal-Key"))
		assert.Equal(t, "user-1", r.Header.Get("X-User-Id"))

		var body ReferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, ReferenceRequest{NetAmount: 3000, GrossAmount: 3148}, body)

		w.Write([]byte(`{"status":true,"message":"ok","data":{"reference":"TOP-1","grossAmount":3148,"netAmount":3000,"payerEmail":"a@b.io","transactionId":"tx-9"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "svc-key")
	ref, err := c.GenerateTopUpReference(context.Background(), "user-1", ReferenceRequest{NetAmount: 3000, GrossAmount: 3148})
	require.NoError(t, err)
	assert.Equal(t, &Reference{
		Reference:     "TOP-1",
		GrossAmount:   3148,
		NetAmount:     3000,
		PayerEmail:    "a@b.io",
		TransactionID: "tx-9",
	}, ref)
}

func TestHTTPClient_Verification(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "TOP-1", body["reference"])
		w.Write([]byte(`{"status":true,"data":{"outcome":"CONFIRMED","creditedAmount":3000}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	v, err := c.VerifyTopUpPayment(context.Background(), "user-1", "TOP-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, v.Outcome)
	assert.Equal(t, int64(3000), v.CreditedAmount)

	_, err = c.CheckPendingTopUp(context.Background(), "user-1", "TOP-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"/internal/wallet/topup/verify", "/internal/wallet/topup/check-pending"}, paths)
}

func TestHTTPClient_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "http error", status: http.StatusUnprocessableEntity, body: "gross mismatch", wantStatus: 422, wantMsg: "gross mismatch"},
		{name: "envelope error", status: http.StatusOK, body: `{"status":false,"message":"amount too low"}`, wantStatus: 200, wantMsg: "amount too low"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, "").GenerateTopUpReference(context.Background(), "u", ReferenceRequest{NetAmount: 1})
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}
