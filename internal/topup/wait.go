package topup

import (
	"context"
	"time"
)

// DefaultVerifyDelay is how long the controller waits after checkout returns
// before its first verification call.
const DefaultVerifyDelay = 5 * time.Second

// WaitPolicy holds off the first verification so the backend's webhook has time
// to land. It only narrows the race with the webhook; a session left in
// STILL_PENDING is resolved by CheckAgain.
type WaitPolicy interface {
	Wait(ctx context.Context) error
}

// FixedDelay waits for a constant duration or until ctx is done.
type FixedDelay time.Duration

// NoDelay verifies immediately.
const NoDelay = FixedDelay(0)

func (d FixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
