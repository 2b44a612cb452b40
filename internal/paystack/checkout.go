package paystack

import (
	"context"
	"fmt"

	"gamehub/topup-service/internal/topup"
)

// Checkout opens Paystack's hosted checkout for a top-up session.
type Checkout struct {
	client      *Client
	currency    string
	channels    []string
	callbackURL string
}

func NewCheckout(client *Client, currency, callbackURL string, channels []string) *Checkout {
	return &Checkout{
		client:      client,
		currency:    currency,
		channels:    channels,
		callbackURL: callbackURL,
	}
}

func (c *Checkout) Begin(ctx context.Context, req topup.CheckoutRequest) (*topup.Handoff, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("%w: paystack checkout disabled", topup.ErrGatewayUnavailable)
	}
	if req.PayerEmail == "" && c.client.secretKey != "" {
		return nil, fmt.Errorf("%w: payer email missing", topup.ErrGatewayUnavailable)
	}
	auth, err := c.client.InitializeTransaction(ctx, InitializeRequest{
		Reference:   req.Reference,
		Email:       req.PayerEmail,
		AmountMinor: req.Amount,
		Currency:    c.currency,
		Channels:    c.channels,
		CallbackURL: c.callbackURL,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", topup.ErrGatewayUnavailable, err)
	}
	return &topup.Handoff{
		Reference:        auth.Reference,
		AuthorizationURL: auth.AuthorizationURL,
		AccessCode:       auth.AccessCode,
	}, nil
}
