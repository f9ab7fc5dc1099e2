package query

import (
	"context"
	"time"
)

// Delay is applied before a lookup returns, standing in for the latency of
// the upstream CRM.
type Delay interface {
	Wait(ctx context.Context) error
}

// DefaultLookupDelay matches the latency the mock has always simulated.
const DefaultLookupDelay = time.Second

// SleepDelay suspends the calling goroutine only, so concurrent requests are
// not held up by each other.
type SleepDelay time.Duration

func (d SleepDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(d))
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type noDelay struct{}

func (noDelay) Wait(context.Context) error { return nil }

// NoDelay returns immediately. Used by tests and tools.
var NoDelay Delay = noDelay{}
