// Package poller implements the client-side polling discipline for PIX
// charges: a fixed interval, a bounded attempt count, stop on a terminal
// status, silent exhaustion.
package poller

import (
	"context"
	"time"

	"prively/internal/domain"
)

const (
	DefaultInterval    = 5 * time.Second
	DefaultMaxAttempts = 60
)

// CheckFunc returns the current status of a charge, typically by calling
// the status query endpoint.
type CheckFunc func(ctx context.Context) (string, error)

// Poller repeatedly checks a charge status until it leaves pending or the
// attempt budget runs out.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
}

func New() *Poller {
	return &Poller{Interval: DefaultInterval, MaxAttempts: DefaultMaxAttempts}
}

// Poll runs check up to MaxAttempts times. It returns the first non-pending
// status observed, or pending when attempts are exhausted. Check errors are
// treated like a pending result so a flaky network does not abort the wait.
func (p *Poller) Poll(ctx context.Context, check CheckFunc) (string, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	for i := 0; i < attempts; i++ {
		status, err := check(ctx)
		if err == nil && status != "" && status != domain.StatusPending {
			return status, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return domain.StatusPending, ctx.Err()
		case <-time.After(interval):
		}
	}
	return domain.StatusPending, nil
}
