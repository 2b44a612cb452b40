package topup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"gamehub/topup-service/internal/fees"
	"gamehub/topup-service/internal/orders"
	"gamehub/topup-service/internal/verification"
)

// ReferenceIssuer mints payment references bound to a gross amount.
//
//go:generate mockgen -destination=mocks/mock_controller.go -source=controller.go ReferenceIssuer,Verifier
type ReferenceIssuer interface {
	GenerateTopUpReference(ctx context.Context, userID string, req orders.ReferenceRequest) (*orders.Reference, error)
}

// Verifier asks the backend whether a reference was captured and credited.
type Verifier interface {
	Verify(ctx context.Context, userID, reference string) (verification.Outcome, error)
	CheckPending(ctx context.Context, userID, reference string) (verification.Outcome, error)
}

// Checkout starts the gateway's checkout. Results come back only through
// Controller.HandleCheckout.
type Checkout interface {
	Begin(ctx context.Context, req CheckoutRequest) (*Handoff, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

type Notifier interface {
	Publish(ctx context.Context, snap Snapshot) error
}

// CalculatorSource supplies the fee calculator currently in force.
type CalculatorSource interface {
	Calculator() fees.Calculator
}

// StaticCalculator is a CalculatorSource that never changes.
type StaticCalculator fees.Calculator

func (s StaticCalculator) Calculator() fees.Calculator { return fees.Calculator(s) }

type Deps struct {
	Issuer        ReferenceIssuer
	Checkout      Checkout
	Verifier      Verifier
	Cache         Invalidator
	Notifier      Notifier
	Fees          CalculatorSource
	WaitPolicy    WaitPolicy
	VerifyTimeout time.Duration
	Now           func() time.Time
}

type StartRequest struct {
	NetAmount int64             `json:"netAmount"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Controller owns at most one top-up session for a single user.
type Controller struct {
	userID string
	deps   Deps

	mu       sync.Mutex
	current  *Session
	consumed map[string]struct{}
	inflight sync.WaitGroup
}

func newController(userID string, deps Deps) *Controller {
	return &Controller{
		userID:   userID,
		deps:     deps,
		consumed: make(map[string]struct{}),
	}
}

// Current returns the active session, or an idle snapshot when there is none.
func (c *Controller) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return idleSnapshot(c.userID)
	}
	return c.current.Snapshot()
}

// Start begins a new top-up for req.NetAmount. It is rejected while another
// session is still in flight. Amount and fee errors are returned without
// touching the current session.
func (c *Controller) Start(ctx context.Context, req StartRequest) (Snapshot, error) {
	c.mu.Lock()
	if c.current != nil && c.current.State.Busy() {
		snap := c.current.Snapshot()
		c.mu.Unlock()
		return snap, ErrSessionActive
	}
	breakdown, err := c.deps.Fees.Calculator().Compute(req.NetAmount)
	if err != nil {
		c.mu.Unlock()
		return Snapshot{}, err
	}
	now := c.deps.Now()
	sess := &Session{
		ID:                 uuid.NewString(),
		UserID:             c.userID,
		RequestedNetAmount: req.NetAmount,
		Breakdown:          breakdown,
		State:              StateIdle,
		StartedAt:          now,
		LastTransitionAt:   now,
	}
	c.current = sess
	c.transition(sess, EventRequestReference)
	c.mu.Unlock()

	log.Printf("[topup][%s] user=%s net=%d gross=%d fee=%d", sess.ID, c.userID, breakdown.NetAmount, breakdown.GrossAmount, breakdown.TotalFee)

	ref, err := c.deps.Issuer.GenerateTopUpReference(ctx, c.userID, orders.ReferenceRequest{
		NetAmount:   breakdown.NetAmount,
		GrossAmount: breakdown.GrossAmount,
	})

	c.mu.Lock()
	if c.current != sess {
		c.mu.Unlock()
		return idleSnapshot(c.userID), ErrSessionDiscarded
	}
	if err == nil {
		err = c.acceptReference(sess, ref)
	}
	if err != nil {
		sess.Err = fmt.Errorf("%w: %w", ErrReferenceIssuanceFailed, err)
		c.transition(sess, EventReferenceFailed)
		snap := sess.Snapshot()
		c.mu.Unlock()
		return snap, sess.Err
	}
	checkoutReq := CheckoutRequest{
		Reference:  sess.PaymentReference,
		Amount:     breakdown.GrossAmount,
		PayerEmail: sess.PayerEmail,
		Metadata:   checkoutMetadata(sess, req.Metadata),
	}
	c.mu.Unlock()

	handoff, err := c.beginCheckout(ctx, checkoutReq)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != sess {
		return idleSnapshot(c.userID), ErrSessionDiscarded
	}
	if err != nil {
		sess.Err = err
		c.transition(sess, EventGatewayUnavailable)
		return sess.Snapshot(), err
	}
	sess.Handoff = handoff
	c.transition(sess, EventCheckoutStarted)
	return sess.Snapshot(), nil
}

// acceptReference checks a freshly minted reference against the local quote
// and marks it consumed so it can never be handed to checkout twice.
func (c *Controller) acceptReference(sess *Session, ref *orders.Reference) error {
	switch {
	case ref == nil || ref.Reference == "":
		return errors.New("empty reference")
	case ref.GrossAmount != 0 && absDiff(ref.GrossAmount, sess.Breakdown.GrossAmount) > 1:
		return fmt.Errorf("backend gross %d disagrees with quoted gross %d", ref.GrossAmount, sess.Breakdown.GrossAmount)
	}
	if _, used := c.consumed[ref.Reference]; used {
		return fmt.Errorf("reference %s was already used", ref.Reference)
	}
	c.consumed[ref.Reference] = struct{}{}
	sess.PaymentReference = ref.Reference
	sess.TransactionID = ref.TransactionID
	sess.PayerEmail = ref.PayerEmail
	return nil
}

func (c *Controller) beginCheckout(ctx context.Context, req CheckoutRequest) (handoff *Handoff, err error) {
	if c.deps.Checkout == nil {
		return nil, fmt.Errorf("%w: checkout not initialised", ErrGatewayUnavailable)
	}
	defer func() {
		if r := recover(); r != nil {
			handoff, err = nil, fmt.Errorf("%w: checkout panicked: %v", ErrGatewayUnavailable, r)
		}
	}()
	handoff, err = c.deps.Checkout.Begin(ctx, req)
	if err != nil {
		if errors.Is(err, ErrGatewayUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	if handoff == nil {
		handoff = &Handoff{Reference: req.Reference}
	}
	return handoff, nil
}

// HandleCheckout feeds a gateway callback into the session. Success and
// cancellation both lead to verification: a cancelled checkout may still have
// been charged. A checkout error returns the session to IDLE.
func (c *Controller) HandleCheckout(ctx context.Context, res CheckoutResult) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess := c.current
	if sess == nil {
		return idleSnapshot(c.userID), ErrNoSession
	}
	if res.Reference != "" && res.Reference != sess.PaymentReference {
		return sess.Snapshot(), ErrStaleReference
	}

	var ev Event
	switch res.Outcome {
	case CheckoutSuccess:
		ev = EventCheckoutSucceeded
	case CheckoutCancel:
		ev = EventCheckoutCancelled
	case CheckoutError:
		ev = EventCheckoutFailed
	default:
		return sess.Snapshot(), fmt.Errorf("%w: unknown checkout outcome %q", ErrInvalidTransition, res.Outcome)
	}
	if err := c.transition(sess, ev); err != nil {
		return sess.Snapshot(), err
	}

	if ev == EventCheckoutFailed {
		reason := res.Error
		if reason == "" {
			reason = "gateway error"
		}
		sess.Err = fmt.Errorf("%w: %s", ErrCheckoutErrored, reason)
		c.transition(sess, EventErrorSurfaced)
		c.invalidate(ctx, sess)
		return sess.Snapshot(), nil
	}

	sess.Receipt = res.Receipt
	c.scheduleVerification(sess)
	return sess.Snapshot(), nil
}

// scheduleVerification runs the first verification in the background once the
// wait policy allows it. Callers hold c.mu.
func (c *Controller) scheduleVerification(sess *Session) {
	waitCtx, cancel := context.WithCancel(context.Background())
	sess.cancelWait = cancel

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer cancel()

		if err := c.deps.WaitPolicy.Wait(waitCtx); err != nil {
			log.Printf("[topup][%s] verification dropped: %v", sess.ID, err)
			return
		}

		c.mu.Lock()
		if c.current != sess {
			c.mu.Unlock()
			return
		}
		if err := c.transition(sess, EventVerificationStarted); err != nil {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		c.runVerification(context.Background(), sess, c.deps.Verifier.Verify)
	}()
}

// CheckAgain re-asks the backend about a STILL_PENDING session. It never
// re-runs checkout.
func (c *Controller) CheckAgain(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	sess := c.current
	if sess == nil {
		c.mu.Unlock()
		return idleSnapshot(c.userID), ErrNoSession
	}
	if sess.State != StateStillPending {
		snap := sess.Snapshot()
		c.mu.Unlock()
		return snap, fmt.Errorf("%w: cannot check again while %s", ErrInvalidTransition, snap.State)
	}
	c.transition(sess, EventVerificationStarted)
	c.mu.Unlock()

	return c.runVerification(ctx, sess, c.deps.Verifier.CheckPending), nil
}

func (c *Controller) runVerification(
	ctx context.Context,
	sess *Session,
	check func(context.Context, string, string) (verification.Outcome, error),
) Snapshot {
	ctx, cancel := context.WithTimeout(ctx, c.deps.VerifyTimeout)
	defer cancel()
	outcome, err := check(ctx, c.userID, sess.PaymentReference)

	c.mu.Lock()
	defer c.mu.Unlock()
	sess.Verifications++
	if c.current != sess {
		log.Printf("[topup][%s] outcome for discarded session ignored ref=%s", sess.ID, sess.PaymentReference)
		return sess.Snapshot()
	}

	switch {
	case err != nil:
		sess.Err = fmt.Errorf("%w: %w", ErrVerificationUnreachable, err)
		c.transition(sess, EventUnreachable)
	case outcome.Status == verification.StatusConfirmed:
		sess.Err = nil
		sess.CreditedAmount = outcome.CreditedAmount
		c.transition(sess, EventConfirmed)
	case outcome.Status == verification.StatusFailed:
		sess.FailureReason = outcome.Reason
		reason := outcome.Reason
		if reason == "" {
			reason = "declined"
		}
		sess.Err = fmt.Errorf("%w: %s", ErrVerificationFailed, reason)
		c.transition(sess, EventRejected)
	default:
		sess.Err = nil
		c.transition(sess, EventPending)
	}
	return sess.Snapshot()
}

// Discard drops the current session from any state. A submitted charge is left
// alone; only the pending pre-verification wait is cancelled.
func (c *Controller) Discard(ctx context.Context) Snapshot {
	c.mu.Lock()
	sess := c.current
	if sess == nil {
		c.mu.Unlock()
		return idleSnapshot(c.userID)
	}
	c.current = nil
	if sess.cancelWait != nil {
		sess.cancelWait()
	}
	snap := idleSnapshot(c.userID)
	c.publish(snap)
	state := sess.State
	handedOff := sess.Handoff != nil && !state.Terminal()
	c.mu.Unlock()

	log.Printf("[topup][%s] discarded in %s ref=%s", sess.ID, state, sess.PaymentReference)
	if handedOff {
		// a charge may have landed after the user walked away
		c.invalidate(ctx, sess)
	}
	return snap
}

// Wait blocks until background verifications have finished.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// transition applies ev and publishes the result. Callers hold c.mu.
func (c *Controller) transition(sess *Session, ev Event) error {
	from, err := sess.apply(ev, c.deps.Now())
	if err != nil {
		log.Printf("[topup][%s] rejected %s in %s", sess.ID, ev, from)
		return err
	}
	if sess.Err != nil {
		log.Printf("[topup][%s] %s -> %s ref=%s err=%v", sess.ID, from, sess.State, sess.PaymentReference, sess.Err)
	} else {
		log.Printf("[topup][%s] %s -> %s ref=%s", sess.ID, from, sess.State, sess.PaymentReference)
	}
	c.publish(sess.Snapshot())
	return nil
}

func (c *Controller) publish(snap Snapshot) {
	if c.deps.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.deps.Notifier.Publish(ctx, snap); err != nil {
		log.Printf("[topup] publish failed user=%s state=%s: %v", snap.UserID, snap.State, err)
	}
}

func (c *Controller) invalidate(ctx context.Context, sess *Session) {
	if c.deps.Cache == nil {
		return
	}
	if err := c.deps.Cache.Invalidate(ctx, c.userID); err != nil {
		log.Printf("[topup][%s] cache invalidation failed: %v", sess.ID, err)
	}
}

func checkoutMetadata(sess *Session, extra map[string]string) map[string]string {
	md := make(map[string]string, len(extra)+4)
	for k, v := range extra {
		md[k] = v
	}
	md["userId"] = sess.UserID
	md["sessionId"] = sess.ID
	md["netAmount"] = strconv.FormatInt(sess.Breakdown.NetAmount, 10)
	if sess.TransactionID != "" {
		md["transactionId"] = sess.TransactionID
	}
	return md
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
