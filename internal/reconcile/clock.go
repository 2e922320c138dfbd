// Package reconcile turns declared desired state (an API enabled, a policy
// rule present, a role bound) into confirmed actual state on the cloud
// control plane. All reconciliation is sequential: one external call
// outstanding at a time, one polling loop active at a time.
package reconcile

import (
	"context"
	"fmt"
	"time"
)

// Clock abstracts the polling delay so tests can simulate elapsed time
// without real sleeps.
type Clock interface {
	// Sleep blocks for d or until ctx is canceled.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

// NewClock returns a Clock backed by real time.
func NewClock() Clock {
	return realClock{}
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
