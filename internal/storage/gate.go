// Path: internal/storage/gate.go
package storage

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"gene-catalog/internal/config"
	"gene-catalog/internal/domain"
)

// gate throttles and bounds every call to a remote store.
type gate struct {
	limiter *rate.Limiter
	timeout time.Duration
}

func newGate(cfg config.StoreConfig) gate {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.BurstLimit
	if burst < 1 {
		burst = 1
	}
	return gate{
		limiter: rate.NewLimiter(limit, burst),
		timeout: cfg.Timeout(),
	}
}

// enter waits for a rate-limit token and returns a context bounded by the
// per-call timeout.
func (g gate) enter(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return ctx, func() {}, remoteErr("rate limit", err)
	}
	if g.timeout <= 0 {
		c, cancel := context.WithCancel(ctx)
		return c, cancel, nil
	}
	c, cancel := context.WithTimeout(ctx, g.timeout)
	return c, cancel, nil
}

// remoteErr marks err as a remote store failure.
func remoteErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrRemote, err)
}
