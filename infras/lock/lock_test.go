package lock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrium/infras/lock"
	"atrium/shared/failure"
)

func TestMemoryProvider_SerializesPerKey(t *testing.T) {
	provider := lock.NewMemory(time.Second)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		holders int
		maxSeen int
	)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			lease, err := provider.Acquire(ctx, "lock:room:r-1")
			require.NoError(t, err)

			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()

			require.NoError(t, lease.Release(ctx))
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, maxSeen, "at most one holder per key at a time")
}

func TestMemoryProvider_IndependentKeys(t *testing.T) {
	provider := lock.NewMemory(50 * time.Millisecond)
	ctx := context.Background()

	first, err := provider.Acquire(ctx, "lock:room:r-1")
	require.NoError(t, err)
	defer first.Release(ctx)

	// A different key must not contend with the first.
	second, err := provider.Acquire(ctx, "lock:room:r-2")
	require.NoError(t, err)

	assert.NoError(t, second.Release(ctx))
}

func TestMemoryProvider_TimeoutIsRetryable(t *testing.T) {
	provider := lock.NewMemory(20 * time.Millisecond)
	ctx := context.Background()

	lease, err := provider.Acquire(ctx, "lock:room:r-1")
	require.NoError(t, err)
	defer lease.Release(ctx)

	_, err = provider.Acquire(ctx, "lock:room:r-1")

	require.Error(t, err)
	assert.Equal(t, failure.KindLockTimeout, failure.GetKind(err))
	assert.True(t, failure.IsRetryable(err))
}

func TestMemoryProvider_ReleaseUnblocksWaiter(t *testing.T) {
	provider := lock.NewMemory(time.Second)
	ctx := context.Background()

	lease, err := provider.Acquire(ctx, "lock:room:r-1")
	require.NoError(t, err)

	acquired := make(chan struct{})

	go func() {
		waiter, err := provider.Acquire(ctx, "lock:room:r-1")
		assert.NoError(t, err)

		close(acquired)

		_ = waiter.Release(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, lease.Release(ctx))

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock after release")
	}
}

func TestMemoryProvider_ContextCancellation(t *testing.T) {
	provider := lock.NewMemory(time.Minute)

	lease, err := provider.Acquire(context.Background(), "lock:room:r-1")
	require.NoError(t, err)
	defer lease.Release(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = provider.Acquire(ctx, "lock:room:r-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
