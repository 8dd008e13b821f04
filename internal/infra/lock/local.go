package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker serializes jobs within one process when Redis is not configured.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time), now: time.Now}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return nil, false, nil
	}
	expiry := now.Add(ttl)
	l.held[key] = expiry

	release := func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key].Equal(expiry) {
			delete(l.held, key)
		}
		return nil
	}
	return release, true, nil
}
