package topup

import (
	"context"
	"sync"
	"time"

	"gamehub/topup-service/internal/fees"
)

const defaultVerifyTimeout = 15 * time.Second

// Manager hands out one Controller per user, all sharing the same collaborators.
type Manager struct {
	deps Deps

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewManager(deps Deps) *Manager {
	if deps.WaitPolicy == nil {
		deps.WaitPolicy = FixedDelay(DefaultVerifyDelay)
	}
	if deps.VerifyTimeout <= 0 {
		deps.VerifyTimeout = defaultVerifyTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Manager{
		deps:        deps,
		controllers: make(map[string]*Controller),
	}
}

func (m *Manager) For(userID string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.controllers[userID]
	if !ok {
		c = newController(userID, m.deps)
		m.controllers[userID] = c
	}
	return c
}

// Calculator returns the fee calculator currently in force.
func (m *Manager) Calculator() fees.Calculator {
	return m.deps.Fees.Calculator()
}

// Quote prices a top-up without starting one.
func (m *Manager) Quote(net int64) (fees.ChargeBreakdown, error) {
	return m.Calculator().Compute(net)
}

// Shutdown waits for background verifications or until ctx is done.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	controllers := make([]*Controller, 0, len(m.controllers))
	for _, c := range m.controllers {
		controllers = append(controllers, c)
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for _, c := range controllers {
			c.Wait()
		}
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
