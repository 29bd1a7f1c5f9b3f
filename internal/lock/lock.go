package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrNotHeld is returned when releasing a lock that expired or was taken
// over by another holder.
var ErrNotHeld = errors.New("lock not held")

// Lock is a held lock.
type Lock interface {
	// Release frees the lock. Releasing twice is a no-op.
	Release(ctx context.Context) error
}

// Locker hands out named locks.
type Locker interface {
	// Acquire blocks until the lock called name is held or ctx is done.
	Acquire(ctx context.Context, name string) (Lock, error)
}

// MemoryLocker is a Locker for a single process.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

// NewMemoryLocker returns an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]chan struct{})}
}

// Acquire implements Locker.
func (m *MemoryLocker) Acquire(ctx context.Context, name string) (Lock, error) {
	for {
		m.mu.Lock()
		released, busy := m.held[name]
		if !busy {
			ch := make(chan struct{})
			m.held[name] = ch
			m.mu.Unlock()
			return &memoryLock{owner: m, name: name, ch: ch}, nil
		}
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-released:
		}
	}
}

type memoryLock struct {
	owner *MemoryLocker
	name  string
	ch    chan struct{}
	once  sync.Once
}

func (l *memoryLock) Release(context.Context) error {
	l.once.Do(func() {
		l.owner.mu.Lock()
		if l.owner.held[l.name] == l.ch {
			delete(l.owner.held, l.name)
		}
		l.owner.mu.Unlock()
		close(l.ch)
	})
	return nil
}
