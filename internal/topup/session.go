package topup

import (
	"context"
	"time"

	"gamehub/topup-service/internal/fees"
)

type CheckoutOutcome string

const (
	CheckoutSuccess CheckoutOutcome = "success"
	CheckoutCancel  CheckoutOutcome = "cancel"
	CheckoutError   CheckoutOutcome = "error"
)

// CheckoutRequest is handed to the gateway checkout.
type CheckoutRequest struct {
	Reference  string
	Amount     int64
	PayerEmail string
	Metadata   map[string]string
}

// Handoff is what the client needs to open the gateway's checkout.
type Handoff struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl,omitempty"`
	AccessCode       string `json:"accessCode,omitempty"`
}

// CheckoutResult is the gateway callback as reported back by the client.
// None of its outcomes mean the wallet was credited.
type CheckoutResult struct {
	Reference string          `json:"reference"`
	Outcome   CheckoutOutcome `json:"outcome"`
	Receipt   string          `json:"receipt,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type Action string

const (
	ActionStart        Action = "START"
	ActionOpenCheckout Action = "OPEN_CHECKOUT"
	ActionCheckAgain   Action = "CHECK_AGAIN"
	ActionDiscard      Action = "DISCARD"
)

// Session is a single top-up attempt. It lives only as long as its controller
// keeps it and is never persisted.
type Session struct {
	ID                 string
	UserID             string
	RequestedNetAmount int64
	Breakdown          fees.ChargeBreakdown
	PaymentReference   string
	TransactionID      string
	PayerEmail         string
	Handoff            *Handoff
	Receipt            string
	State              State
	StartedAt          time.Time
	LastTransitionAt   time.Time
	CreditedAmount     int64
	FailureReason      string
	Err                error
	Verifications      int

	cancelWait context.CancelFunc
}

func (s *Session) apply(ev Event, now time.Time) (State, error) {
	from := s.State
	to, err := Next(from, ev)
	if err != nil {
		return from, err
	}
	s.State = to
	s.LastTransitionAt = now
	return from, nil
}

// Snapshot is the read-only view of a session handed to the presentation layer.
type Snapshot struct {
	SessionID          string                `json:"sessionId,omitempty"`
	UserID             string                `json:"userId"`
	State              State                 `json:"state"`
	RequestedNetAmount int64                 `json:"requestedNetAmount,omitempty"`
	Breakdown          *fees.ChargeBreakdown `json:"breakdown,omitempty"`
	PaymentReference   string                `json:"paymentReference,omitempty"`
	TransactionID      string                `json:"transactionId,omitempty"`
	Checkout           *Handoff              `json:"checkout,omitempty"`
	CreditedAmount     int64                 `json:"creditedAmount,omitempty"`
	FailureReason      string                `json:"failureReason,omitempty"`
	Error              string                `json:"error,omitempty"`
	Retryable          bool                  `json:"retryable"`
	Actions            []Action              `json:"actions"`
	StartedAt          *time.Time            `json:"startedAt,omitempty"`
	LastTransitionAt   *time.Time            `json:"lastTransitionAt,omitempty"`

	Err error `json:"-"`
}

func (s *Session) Snapshot() Snapshot {
	breakdown := s.Breakdown
	started, last := s.StartedAt, s.LastTransitionAt
	snap := Snapshot{
		SessionID:          s.ID,
		UserID:             s.UserID,
		State:              s.State,
		RequestedNetAmount: s.RequestedNetAmount,
		Breakdown:          &breakdown,
		PaymentReference:   s.PaymentReference,
		TransactionID:      s.TransactionID,
		CreditedAmount:     s.CreditedAmount,
		FailureReason:      s.FailureReason,
		Retryable:          Retryable(s.Err),
		Actions:            actionsFor(s.State),
		StartedAt:          &started,
		LastTransitionAt:   &last,
		Err:                s.Err,
	}
	if s.Err != nil {
		snap.Error = s.Err.Error()
	}
	if s.State == StateCheckoutInProgress && s.Handoff != nil {
		h := *s.Handoff
		snap.Checkout = &h
	}
	return snap
}

func idleSnapshot(userID string) Snapshot {
	return Snapshot{
		UserID:  userID,
		State:   StateIdle,
		Actions: []Action{ActionStart},
	}
}

func actionsFor(s State) []Action {
	switch s {
	case StateIdle, StateConfirmed, StateVerificationFailed:
		return []Action{ActionStart, ActionDiscard}
	case StateCheckoutInProgress:
		return []Action{ActionOpenCheckout, ActionDiscard}
	case StateStillPending:
		return []Action{ActionCheckAgain, ActionDiscard}
	default:
		return []Action{ActionDiscard}
	}
}
