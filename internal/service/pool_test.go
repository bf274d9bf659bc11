package service

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filebridge/filebridge/internal/upstream"
)

func newTestPool(n int) *SessionPool {
	sessions := make([]upstream.Client, n)
	for i := range sessions {
		sessions[i] = &fakeClient{}
	}
	return NewSessionPool(sessions)
}

func TestNewSessionPoolRejectsEmpty(t *testing.T) {
	assert.Panics(t, func() { NewSessionPool(nil) })
	assert.Panics(t, func() { NewSessionPool([]upstream.Client{}) })
}

func TestAcquirePicksLeastLoaded(t *testing.T) {
	pool := newTestPool(3)

	// first three acquires spread across all sessions
	_, first := pool.Acquire()
	_, second := pool.Acquire()
	_, third := pool.Acquire()
	assert.ElementsMatch(t, []int{0, 1, 2}, []int{first, second, third})

	// freeing one session makes it the unique minimum
	pool.Release(1)
	_, next := pool.Acquire()
	assert.Equal(t, 1, next)
}

func TestAcquireBreaksTiesByLowestIndex(t *testing.T) {
	pool := newTestPool(4)

	for i := 0; i < 4; i++ {
		_, index := pool.Acquire()
		assert.Equal(t, i, index)
	}
}

func TestAcquireReturnsTheSelectedSession(t *testing.T) {
	a := &fakeClient{}
	b := &fakeClient{}
	pool := NewSessionPool([]upstream.Client{a, b})

	client, index := pool.Acquire()
	require.Equal(t, 0, index)
	assert.Same(t, a, client)

	client, index = pool.Acquire()
	require.Equal(t, 1, index)
	assert.Same(t, b, client)
}

func TestReleaseIgnoresBadIndexAndUnderflow(t *testing.T) {
	pool := newTestPool(2)

	pool.Release(-1)
	pool.Release(5)
	pool.Release(0) // nothing acquired yet
	assert.Equal(t, int64(0), pool.Load(0))
	assert.Equal(t, int64(0), pool.Load(1))
}

func TestPoolBalancedUnderConcurrency(t *testing.T) {
	pool := newTestPool(5)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			held := make([]int, 0, 16)
			for i := 0; i < 1000; i++ {
				if len(held) > 0 && rng.Intn(2) == 0 {
					last := held[len(held)-1]
					held = held[:len(held)-1]
					pool.Release(last)
					continue
				}
				_, index := pool.Acquire()
				held = append(held, index)
			}
			for _, index := range held {
				pool.Release(index)
			}
		}(int64(g))
	}
	wg.Wait()

	for i := 0; i < pool.Size(); i++ {
		assert.Equal(t, int64(0), pool.Load(i), "session %d must drain to zero", i)
	}
}
