package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamehub/topup-service/internal/topup"
)

func TestInitializeTransaction(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"ref-1"}}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test", srv.URL+"/")
	auth, err := c.InitializeTransaction(context.Background(), InitializeRequest{
		Reference:   "ref-1",
		Email:       "ama@example.com",
		AmountMinor: 1016,
		Currency:    "NGN",
		Channels:    []string{"card", "bank"},
		Metadata:    map[string]string{"userId": "user-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", auth.AccessCode)
	assert.Equal(t, "https://checkout.paystack.com/abc", auth.AuthorizationURL)

	assert.Equal(t, "ref-1", got["reference"])
	assert.Equal(t, float64(1016), got["amount"])
	assert.Equal(t, "NGN", got["currency"])
	assert.Equal(t, []interface{}{"card", "bank"}, got["channels"])
	assert.NotContains(t, got, "callback_url")
}

func TestInitializeTransaction_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http error", status: http.StatusUnauthorized, body: `{"status":false,"message":"Invalid key"}`},
		{name: "envelope error", status: http.StatusOK, body: `{"status":false,"message":"Duplicate Transaction Reference"}`},
		{name: "malformed body", status: http.StatusOK, body: `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient("sk_test", srv.URL).InitializeTransaction(context.Background(), InitializeRequest{Reference: "ref-1", Email: "a@b.c", AmountMinor: 1})
			assert.Error(t, err)
		})
	}
}

func TestInitializeTransaction_Simulation(t *testing.T) {
	auth, err := NewClient("", "").InitializeTransaction(context.Background(), InitializeRequest{Reference: "ref-1"})
	require.NoError(t, err)
	assert.Equal(t, "ref-1", auth.Reference)
	assert.Equal(t, "SIM-ref-1", auth.AccessCode)
}

func TestCheckout_Begin(t *testing.T) {
	co := NewCheckout(NewClient("", ""), "NGN", "https://app.example/topup/return", []string{"card"})
	h, err := co.Begin(context.Background(), topup.CheckoutRequest{Reference: "ref-1", Amount: 1016})
	require.NoError(t, err)
	assert.Equal(t, "ref-1", h.Reference)
	assert.NotEmpty(t, h.AuthorizationURL)
}

func TestCheckout_Unavailable(t *testing.T) {
	var disabled *Checkout
	_, err := disabled.Begin(context.Background(), topup.CheckoutRequest{Reference: "ref-1"})
	assert.True(t, errors.Is(err, topup.ErrGatewayUnavailable))

	live := NewCheckout(NewClient("sk_live", "http://127.0.0.1:0"), "NGN", "", nil)
	_, err = live.Begin(context.Background(), topup.CheckoutRequest{Reference: "ref-1", Amount: 1016})
	assert.True(t, errors.Is(err, topup.ErrGatewayUnavailable), "payer email required")

	_, err = live.Begin(context.Background(), topup.CheckoutRequest{Reference: "ref-1", Amount: 1016, PayerEmail: "ama@example.com"})
	assert.True(t, errors.Is(err, topup.ErrGatewayUnavailable), "unreachable gateway")
}
