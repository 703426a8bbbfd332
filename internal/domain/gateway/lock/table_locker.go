package lock

import (
	"context"
	"sync"
)

// TableLocker serializes synchronization of a table. The returned function releases the lock.
type TableLocker interface {
	Lock(ctx context.Context, table string) (unlock func(), err error)
}

// LocalTableLocker holds one mutex per table name within the process.
type LocalTableLocker struct {
	mu     sync.Mutex
	tables map[string]chan struct{}
}

var _ TableLocker = (*LocalTableLocker)(nil)

func NewLocalTableLocker() *LocalTableLocker {
	return &LocalTableLocker{tables: make(map[string]chan struct{})}
}

func (l *LocalTableLocker) slot(table string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.tables[table]
	if !ok {
		ch = make(chan struct{}, 1)
		l.tables[table] = ch
	}
	return ch
}

// Lock blocks until the table is free or ctx is done.
func (l *LocalTableLocker) Lock(ctx context.Context, table string) (func(), error) {
	ch := l.slot(table)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ChainTableLocker acquires each locker in order and releases them in reverse.
type ChainTableLocker []TableLocker

func (c ChainTableLocker) Lock(ctx context.Context, table string) (func(), error) {
	unlocks := make([]func(), 0, len(c))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, locker := range c {
		unlock, err := locker.Lock(ctx, table)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}
