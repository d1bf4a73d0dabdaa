package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ajglobal/staffverify/pkg/logger"
)

// FallbackStore counts through primary and switches to fallback for any
// increment the primary fails. Counters held by the fallback are local to
// this process, so limits stay enforced while the shared store is down.
type FallbackStore struct {
	primary  Store
	fallback Store
}

// NewFallbackStore pairs a shared store with a process-local one.
func NewFallbackStore(primary, fallback Store) (*FallbackStore, error) {
	if primary == nil || fallback == nil {
		return nil, errors.New("cache: primary and fallback stores are required")
	}
	return &FallbackStore{primary: primary, fallback: fallback}, nil
}

// IncrementWithTTL implements Store.
func (s *FallbackStore) IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, ttl, err := s.primary.IncrementWithTTL(ctx, key, window)
	if err == nil {
		return count, ttl, nil
	}

	logger.WithModule("cache").Warn("shared counter store failed; using local counters",
		zap.String("key", key),
		zap.Error(err),
	)
	return s.fallback.IncrementWithTTL(ctx, key, window)
}
