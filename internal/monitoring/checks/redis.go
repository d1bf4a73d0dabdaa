package checks

import (
	"context"
	"time"

	"github.com/ajglobal/staffverify/internal/monitoring"
)

const defaultRedisTimeout = 2 * time.Second

// Redis returns a readiness probe for the shared rate-limit counters. When
// redis is disabled the probe reports up with a note. An unreachable redis
// only degrades the service because the limiter falls back to letting
// requests through.
func Redis(client Pinger, enabled bool, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("redis", func(ctx context.Context) monitoring.ProbeResult {
		if !enabled {
			return monitoring.ProbeResult{
				Status:  monitoring.StatusUp,
				Details: "redis disabled",
			}
		}
		if client == nil {
			return monitoring.ProbeResult{
				Status:  monitoring.StatusDegraded,
				Details: "redis unavailable",
			}
		}

		start := time.Now()
		probeCtx, cancel := context.WithTimeout(ctx, chooseTimeout(timeout, defaultRedisTimeout))
		defer cancel()

		result := monitoring.ResultFromError("redis", client.Ping(probeCtx), time.Since(start))
		if result.Status == monitoring.StatusDown {
			result.Status = monitoring.StatusDegraded
		}
		return result
	})
}
