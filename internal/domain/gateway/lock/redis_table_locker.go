package lock

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-ingest/pkg/log"
	"go-ingest/pkg/redis"
)

// RedisTableLocker takes a distributed lock per table so that several
// instances sharing one store never interleave a read and an append.
type RedisTableLocker struct {
	client *redis.Client
	opts   redis.LockOptions
}

var _ TableLocker = (*RedisTableLocker)(nil)

func NewRedisTableLocker(client *redis.Client, ttl, retryDelay time.Duration, maxRetries int) *RedisTableLocker {
	return &RedisTableLocker{
		client: client,
		opts: redis.LockOptions{
			TTL:             ttl,
			RetryDelay:      retryDelay,
			MaxRetries:      maxRetries,
			RefreshInterval: refreshInterval(ttl),
			LockNamespace:   "sync_tables",
		},
	}
}

// minRefreshInterval keeps the refresh ticker valid for tiny TTLs.
const minRefreshInterval = 10 * time.Millisecond

func refreshInterval(ttl time.Duration) time.Duration {
	return max(ttl/3, minRefreshInterval)
}

// Lock acquires the table lock and keeps it refreshed until released.
func (l *RedisTableLocker) Lock(ctx context.Context, table string) (func(), error) {
	opts := l.opts
	tableLock := redis.NewLock(l.client, table, &opts)
	if err := tableLock.Lock(ctx); err != nil {
		return nil, fmt.Errorf("lock table %s: %w", table, err)
	}

	refreshCtx, stopRefresh := context.WithCancel(context.WithoutCancel(ctx))
	refreshErr := tableLock.AutoRefresh(refreshCtx)

	return func() {
		stopRefresh()
		<-refreshErr
		if err := tableLock.Unlock(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to release table lock", zap.String("table", table), zap.Error(err))
		}
	}, nil
}
