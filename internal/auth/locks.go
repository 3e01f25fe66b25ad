package auth

import "sync"

// keyedLock provides named, scoped write locks. lock blocks until the key's
// mutex is held and returns the release func; callers release via defer so
// every exit path unlocks exactly once. Entries are refcounted and removed
// when the last holder releases.
type keyedLock struct {
	mu   sync.Mutex
	held map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (l *keyedLock) lock(key string) (unlock func()) {
	l.mu.Lock()
	if l.held == nil {
		l.held = make(map[string]*lockEntry)
	}
	e, ok := l.held[key]
	if !ok {
		e = &lockEntry{}
		l.held[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			l.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.held, key)
			}
			l.mu.Unlock()
		})
	}
}
