package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// ComputeFunc produces the value to cache when no valid entry exists.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Wrapper decorates a deterministic-per-call, potentially slow, read-only
// computation with a time-to-live cache. Repeated calls with identical
// arguments within the TTL window observe a stable result without paying
// recomputation cost; the first call after expiry recomputes once and
// repopulates the cache.
//
// Two concurrent calls that both miss the cache may both recompute; there
// is no single-flight de-duplication.
//
// When the cache backend is unreachable the wrapper falls back to direct
// computation instead of failing the call. Backend failures are logged and
// never propagated to the caller.
type Wrapper struct {
	backend Cache
	prefix  string
	ttl     time.Duration
	logger  *slog.Logger
}

// NewWrapper creates a Wrapper over the given backend. The prefix names the
// wrapped computation and keeps its keys disjoint from other wrappers
// sharing the backend. If logger is nil, the default logger is used.
func NewWrapper(backend Cache, prefix string, ttl time.Duration, logger *slog.Logger) *Wrapper {
	if logger == nil {
		logger = slog.Default()
	}

	return &Wrapper{
		backend: backend,
		prefix:  prefix,
		ttl:     ttl,
		logger:  logger.With(slog.String("component", "cache_wrapper"), slog.String("prefix", prefix)),
	}
}

// Do returns the cached value for the given call arguments, computing and
// storing it first when no valid entry exists. The key is derived from the
// wrapper's prefix (the computation's identity) and the call arguments.
func (w *Wrapper) Do(ctx context.Context, compute ComputeFunc, args ...string) ([]byte, error) {
	key := w.key(args)

	value, err := w.backend.Get(ctx, key)
	if err == nil {
		w.logger.Debug("cache hit", slog.String("key", key))
		return value, nil
	}

	if !errors.Is(err, ErrCacheMiss) {
		// Backend unreachable: bypass the cache and compute directly.
		w.logger.Warn("cache backend unavailable, computing directly",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return compute(ctx)
	}

	w.logger.Debug("cache miss", slog.String("key", key))

	value, err = compute(ctx)
	if err != nil {
		return nil, err
	}

	if setErr := w.backend.Set(ctx, key, value, w.ttl); setErr != nil {
		// The fresh result is still valid; only the repopulation failed.
		w.logger.Warn("failed to store computed value in cache",
			slog.String("key", key),
			slog.String("error", setErr.Error()))
	}

	return value, nil
}

// key joins the wrapper prefix with the call arguments.
func (w *Wrapper) key(args []string) string {
	if len(args) == 0 {
		return w.prefix
	}
	return w.prefix + ":" + strings.Join(args, ":")
}
