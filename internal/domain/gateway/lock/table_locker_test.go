package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalTableLocker_SerializesSameTable(t *testing.T) {
	locker := NewLocalTableLocker()
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "cities")
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside.Load())
}

func TestLocalTableLocker_IndependentTables(t *testing.T) {
	locker := NewLocalTableLocker()
	unlockCities, err := locker.Lock(context.Background(), "cities")
	require.NoError(t, err)
	defer unlockCities()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockAirports, err := locker.Lock(ctx, "airports")
	require.NoError(t, err)
	unlockAirports()
}

func TestLocalTableLocker_ContextCancel(t *testing.T) {
	locker := NewLocalTableLocker()
	unlock, err := locker.Lock(context.Background(), "cities")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "cities")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	unlock()
	unlock()
	again, err := locker.Lock(context.Background(), "cities")
	require.NoError(t, err)
	again()
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string) (func(), error) {
	return nil, errors.New("unavailable")
}

func TestChainTableLocker_ReleasesOnFailure(t *testing.T) {
	local := NewLocalTableLocker()
	chain := ChainTableLocker{local, failingLocker{}}

	_, err := chain.Lock(context.Background(), "cities")
	require.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlock, err := local.Lock(ctx, "cities")
	require.NoError(t, err)
	unlock()
}

func TestRedisTableLocker_RefreshIntervalFloor(t *testing.T) {
	assert.Equal(t, 40*time.Second, NewRedisTableLocker(nil, 2*time.Minute, time.Millisecond, 1).opts.RefreshInterval)
	assert.Equal(t, minRefreshInterval, NewRedisTableLocker(nil, time.Nanosecond, time.Millisecond, 1).opts.RefreshInterval)
	assert.Equal(t, minRefreshInterval, NewRedisTableLocker(nil, -time.Second, time.Millisecond, 1).opts.RefreshInterval)
}
