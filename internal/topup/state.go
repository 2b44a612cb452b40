package topup

import "fmt"

type State string

const (
	StateIdle               State = "IDLE"
	StateAwaitingReference  State = "AWAITING_REFERENCE"
	StateCheckoutInProgress State = "CHECKOUT_IN_PROGRESS"
	StateCheckoutSucceeded  State = "CHECKOUT_SUCCEEDED"
	StateCheckoutCancelled  State = "CHECKOUT_CANCELLED"
	StateCheckoutErrored    State = "CHECKOUT_ERRORED"
	StateVerifying          State = "VERIFYING"
	StateConfirmed          State = "CONFIRMED"
	StateStillPending       State = "STILL_PENDING"
	StateVerificationFailed State = "VERIFICATION_FAILED"
)

// Terminal reports whether the state ends the session.
func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateVerificationFailed
}

// Busy reports whether a session in this state blocks a new top-up.
func (s State) Busy() bool {
	return s != StateIdle && !s.Terminal()
}

// Event drives the session state machine. Gateway callbacks and backend
// answers are translated into events before they touch a session.
type Event string

const (
	EventRequestReference    Event = "REQUEST_REFERENCE"
	EventReferenceFailed     Event = "REFERENCE_FAILED"
	EventGatewayUnavailable  Event = "GATEWAY_UNAVAILABLE"
	EventCheckoutStarted     Event = "CHECKOUT_STARTED"
	EventCheckoutSucceeded   Event = "CHECKOUT_SUCCEEDED"
	EventCheckoutCancelled   Event = "CHECKOUT_CANCELLED"
	EventCheckoutFailed      Event = "CHECKOUT_FAILED"
	EventErrorSurfaced       Event = "ERROR_SURFACED"
	EventVerificationStarted Event = "VERIFICATION_STARTED"
	EventConfirmed           Event = "CONFIRMED"
	EventPending             Event = "PENDING"
	EventUnreachable         Event = "UNREACHABLE"
	EventRejected            Event = "REJECTED"
)

var transitions = map[State]map[Event]State{
	StateIdle: {
		EventRequestReference: StateAwaitingReference,
	},
	StateAwaitingReference: {
		EventCheckoutStarted:    StateCheckoutInProgress,
		EventReferenceFailed:    StateIdle,
		EventGatewayUnavailable: StateIdle,
	},
	StateCheckoutInProgress: {
		EventCheckoutSucceeded: StateCheckoutSucceeded,
		EventCheckoutCancelled: StateCheckoutCancelled,
		EventCheckoutFailed:    StateCheckoutErrored,
	},
	StateCheckoutSucceeded: {
		EventVerificationStarted: StateVerifying,
	},
	StateCheckoutCancelled: {
		EventVerificationStarted: StateVerifying,
	},
	StateCheckoutErrored: {
		EventErrorSurfaced: StateIdle,
	},
	StateVerifying: {
		EventConfirmed:   StateConfirmed,
		EventPending:     StateStillPending,
		EventUnreachable: StateStillPending,
		EventRejected:    StateVerificationFailed,
	},
	StateStillPending: {
		EventVerificationStarted: StateVerifying,
	},
}

// Next returns the state reached by applying ev in from.
func Next(from State, ev Event) (State, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	return from, fmt.Errorf("%w: %s in %s", ErrInvalidTransition, ev, from)
}
