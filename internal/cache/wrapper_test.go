package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntry struct {
	value     []byte
	expiresAt time.Time
}

// fakeCache is an in-memory Cache backend with an injectable clock so tests
// can control TTL expiry deterministically.
type fakeCache struct {
	entries map[string]fakeEntry
	now     func() time.Time
	getErr  error
	setErr  error
}

func newFakeCache(now func() time.Time) *fakeCache {
	return &fakeCache{
		entries: make(map[string]fakeEntry),
		now:     now,
	}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = fakeEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

// countingCompute returns a compute func that counts invocations.
func countingCompute(result []byte, count *int) ComputeFunc {
	return func(ctx context.Context) ([]byte, error) {
		*count++
		return result, nil
	}
}

func TestWrapperCachesWithinTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	backend := newFakeCache(func() time.Time { return now })
	wrapper := NewWrapper(backend, "long_operation", 30*time.Second, nil)

	calls := 0
	compute := countingCompute([]byte("heavy result"), &calls)

	first, err := wrapper.Do(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, []byte("heavy result"), first)
	assert.Equal(t, 1, calls)

	// Second call within the TTL window must not recompute.
	now = now.Add(29 * time.Second)
	second, err := wrapper.Do(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestWrapperRecomputesAfterExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	backend := newFakeCache(func() time.Time { return now })
	wrapper := NewWrapper(backend, "long_operation", 30*time.Second, nil)

	calls := 0
	compute := countingCompute([]byte("heavy result"), &calls)

	_, err := wrapper.Do(context.Background(), compute)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	now = now.Add(31 * time.Second)
	_, err = wrapper.Do(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	// The recomputed value is cached again.
	_, err = wrapper.Do(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWrapperKeysByArguments(t *testing.T) {
	t.Parallel()

	now := time.Now()
	backend := newFakeCache(func() time.Time { return now })
	wrapper := NewWrapper(backend, "lookup", time.Minute, nil)

	calls := 0
	compute := countingCompute([]byte("result"), &calls)

	_, err := wrapper.Do(context.Background(), compute, "buy")
	require.NoError(t, err)
	_, err = wrapper.Do(context.Background(), compute, "sell")
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "distinct arguments must compute independently")

	_, err = wrapper.Do(context.Background(), compute, "buy")
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "repeated arguments must hit the cache")
}

func TestWrapperBypassesUnavailableBackend(t *testing.T) {
	t.Parallel()

	backend := newFakeCache(time.Now)
	backend.getErr = errors.New("connection refused")
	wrapper := NewWrapper(backend, "long_operation", 30*time.Second, nil)

	calls := 0
	compute := countingCompute([]byte("heavy result"), &calls)

	value, err := wrapper.Do(context.Background(), compute)
	require.NoError(t, err, "backend failure must not fail the call")
	assert.Equal(t, []byte("heavy result"), value)
	assert.Equal(t, 1, calls)

	// Every call computes while the backend stays down.
	_, err = wrapper.Do(context.Background(), compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWrapperReturnsValueWhenSetFails(t *testing.T) {
	t.Parallel()

	backend := newFakeCache(time.Now)
	backend.setErr = errors.New("write failed")
	wrapper := NewWrapper(backend, "long_operation", 30*time.Second, nil)

	calls := 0
	value, err := wrapper.Do(context.Background(), countingCompute([]byte("heavy result"), &calls))
	require.NoError(t, err)
	assert.Equal(t, []byte("heavy result"), value)
}

func TestWrapperPropagatesComputeError(t *testing.T) {
	t.Parallel()

	backend := newFakeCache(time.Now)
	wrapper := NewWrapper(backend, "long_operation", 30*time.Second, nil)

	computeErr := errors.New("upstream failed")
	_, err := wrapper.Do(context.Background(), func(ctx context.Context) ([]byte, error) {
		return nil, computeErr
	})
	assert.ErrorIs(t, err, computeErr)
	assert.Empty(t, backend.entries, "failed computations must not be cached")
}
