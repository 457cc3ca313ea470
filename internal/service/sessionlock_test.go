package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/minigolf-scorekeeper/internal/service"
)

func TestSessionLocks_SerializesSameSession(t *testing.T) {
	locks := service.NewSessionLocks()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(1)
			defer unlock()

			mu.Lock()
			inside++
			maxSeen = max(maxSeen, inside)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, locks.Len(), "lock entries should be released")
}

func TestSessionLocks_IndependentSessions(t *testing.T) {
	locks := service.NewSessionLocks()

	unlockA := locks.Lock(1)
	defer unlockA()

	acquired := make(chan struct{})
	go func() {
		unlock := locks.Lock(2)
		unlock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on session 2 blocked behind session 1")
	}
}

func TestSessionLocks_UnlockIsIdempotent(t *testing.T) {
	locks := service.NewSessionLocks()

	unlock := locks.Lock(7)
	require.Equal(t, 1, locks.Len())
	unlock()
	unlock()
	assert.Zero(t, locks.Len())

	// The lock is usable again.
	locks.Lock(7)()
}
