package httpclient

import (
	"context"
	"time"
)

// Pacer enforces a fixed pause before each request.
// Unlike a minimum-interval limiter it always sleeps the full delay.
type Pacer struct {
	Delay time.Duration
}

// NewPacer returns a Pacer sleeping delay before every request.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{Delay: delay}
}

// Wait blocks for the configured delay or until ctx is done.
// A nil Pacer or non-positive delay returns immediately.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
