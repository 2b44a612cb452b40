package topup

import (
	"errors"

	"gamehub/topup-service/internal/fees"
)

var (
	ErrInvalidAmount     = fees.ErrInvalidAmount
	ErrUnreconcilableFee = fees.ErrUnreconcilableFee

	// ErrReferenceIssuanceFailed: the backend could not mint a usable reference.
	ErrReferenceIssuanceFailed = errors.New("payment reference issuance failed")
	// ErrGatewayUnavailable: the checkout could not be started.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrCheckoutErrored: the gateway reported a hard checkout failure.
	ErrCheckoutErrored = errors.New("checkout failed")
	// ErrVerificationUnreachable: the backend could not be asked about the reference.
	ErrVerificationUnreachable = errors.New("payment verification unreachable")
	// ErrVerificationFailed: the backend says the charge did not succeed.
	ErrVerificationFailed = errors.New("payment was not successful")

	ErrSessionActive     = errors.New("a top-up is already in progress")
	ErrNoSession         = errors.New("no top-up in progress")
	ErrSessionDiscarded  = errors.New("top-up was discarded")
	ErrStaleReference    = errors.New("checkout result is for another payment reference")
	ErrInvalidTransition = errors.New("invalid top-up transition")
)

// Retryable reports whether the user can act on err without changing the amount.
// A failed verification is final for its reference; only a new top-up helps.
func Retryable(err error) bool {
	switch {
	case errors.Is(err, ErrReferenceIssuanceFailed),
		errors.Is(err, ErrGatewayUnavailable),
		errors.Is(err, ErrCheckoutErrored),
		errors.Is(err, ErrVerificationUnreachable):
		return true
	}
	return false
}
