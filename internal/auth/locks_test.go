package auth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLock_MutualExclusion(t *testing.T) {
	var l keyedLock
	const workers = 20

	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := l.lock("p1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestKeyedLock_IndependentKeys(t *testing.T) {
	var l keyedLock

	// Holding one key must not block another.
	unlockA := l.lock("a")
	unlockB := l.lock("b")
	unlockB()
	unlockA()
}

func TestKeyedLock_EntryRemovedAfterLastRelease(t *testing.T) {
	var l keyedLock

	unlock := l.lock("p1")
	l.mu.Lock()
	require.Len(t, l.held, 1)
	l.mu.Unlock()

	unlock()

	l.mu.Lock()
	assert.Empty(t, l.held)
	l.mu.Unlock()
}

func TestKeyedLock_UnlockIsIdempotent(t *testing.T) {
	var l keyedLock

	unlock := l.lock("p1")
	unlock()
	unlock() // second call is a no-op

	// The key is reusable afterwards.
	again := l.lock("p1")
	again()
}
