// Package verification asks the order service whether a top-up reference has
// been captured and credited, and reconciles locally cached financial reads
// whenever the answer is final.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gamehub/topup-service/internal/orders"
)

// ErrUnknownOutcome is returned when the order service reports an outcome this
// client does not understand.
var ErrUnknownOutcome = errors.New("unknown verification outcome")

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusPending   Status = "PENDING"
	StatusFailed    Status = "FAILED"
)

// Outcome is the backend's view of a payment reference.
type Outcome struct {
	Status         Status `json:"status"`
	CreditedAmount int64  `json:"creditedAmount,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

func (o Outcome) Terminal() bool {
	return o.Status == StatusConfirmed || o.Status == StatusFailed
}

// Backend is the subset of the order service used for verification.
//
//go:generate mockgen -destination=mocks/mock_client.go -source=client.go Backend,Invalidator
type Backend interface {
	VerifyTopUpPayment(ctx context.Context, userID, reference string) (*orders.Verification, error)
	CheckPendingTopUp(ctx context.Context, userID, reference string) (*orders.Verification, error)
}

// Invalidator drops a user's cached financial read queries. Invalidating an
// already invalidated cache must succeed.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

type Client struct {
	backend Backend
	cache   Invalidator
}

func NewClient(backend Backend, cache Invalidator) *Client {
	return &Client{backend: backend, cache: cache}
}

// Verify is the controller's automatic check after checkout returns.
func (c *Client) Verify(ctx context.Context, userID, reference string) (Outcome, error) {
	return c.resolve(ctx, userID, reference, "verify", c.backend.VerifyTopUpPayment)
}

// CheckPending is the user-initiated recheck of a reference still pending.
func (c *Client) CheckPending(ctx context.Context, userID, reference string) (Outcome, error) {
	return c.resolve(ctx, userID, reference, "check-pending", c.backend.CheckPendingTopUp)
}

func (c *Client) resolve(
	ctx context.Context,
	userID, reference, entry string,
	call func(context.Context, string, string) (*orders.Verification, error),
) (Outcome, error) {
	resp, err := call(ctx, userID, reference)
	if err != nil {
		log.Printf("[topup][verify][%s] %s unreachable: %v", reference, entry, err)
		return Outcome{}, err
	}
	outcome, err := toOutcome(resp)
	if err != nil {
		log.Printf("[topup][verify][%s] %s: %v", reference, entry, err)
		return Outcome{}, err
	}
	log.Printf("[topup][verify][%s] %s user=%s outcome=%s credited=%d", reference, entry, userID, outcome.Status, outcome.CreditedAmount)

	if outcome.Terminal() && c.cache != nil {
		if err := c.cache.Invalidate(ctx, userID); err != nil {
			log.Printf("[topup][verify][%s] cache invalidation failed user=%s: %v", reference, userID, err)
		}
	}
	return outcome, nil
}

func toOutcome(v *orders.Verification) (Outcome, error) {
	if v == nil {
		return Outcome{}, fmt.Errorf("%w: empty response", ErrUnknownOutcome)
	}
	switch strings.ToUpper(strings.TrimSpace(v.Outcome)) {
	case orders.OutcomeConfirmed:
		return Outcome{Status: StatusConfirmed, CreditedAmount: v.CreditedAmount}, nil
	case orders.OutcomePending:
		return Outcome{Status: StatusPending}, nil
	case orders.OutcomeFailed:
		return Outcome{Status: StatusFailed, Reason: v.ReasonCode}, nil
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownOutcome, v.Outcome)
	}
}
