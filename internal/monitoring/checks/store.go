package checks

import (
	"context"
	"time"

	"github.com/ajglobal/staffverify/internal/monitoring"
)

const defaultStoreTimeout = 2 * time.Second

// Pinger is satisfied by the employee store and by the redis counter store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store returns a readiness probe for the employee store.
func Store(store Pinger, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("store", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if store == nil {
			return monitoring.ProbeResult{
				Status:  monitoring.StatusDown,
				Details: "store not configured",
			}
		}

		probeCtx, cancel := context.WithTimeout(ctx, chooseTimeout(timeout, defaultStoreTimeout))
		defer cancel()

		return monitoring.ResultFromError("store", store.Ping(probeCtx), time.Since(start))
	})
}

func chooseTimeout(provided, fallback time.Duration) time.Duration {
	if provided <= 0 {
		return fallback
	}
	return provided
}
