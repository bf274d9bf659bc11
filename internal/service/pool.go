package service

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/filebridge/filebridge/internal/upstream"
)

var sessionLoad = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "filebridge_session_load",
		Help: "In-flight streams per remote-store session",
	},
	[]string{"session"},
)

// SessionPool routes streaming work across a fixed set of remote-store
// sessions. Selection is advisory load balancing, not admission control:
// Acquire never blocks or rejects, it only biases toward the least-busy
// session. The load counters are the only state shared across concurrent
// streams, so all updates go through one mutex.
type SessionPool struct {
	mu       sync.Mutex
	sessions []upstream.Client
	loads    []int64
}

// NewSessionPool panics when sessions is empty: a pool with nothing to
// hand out can never serve an Acquire.
func NewSessionPool(sessions []upstream.Client) *SessionPool {
	if len(sessions) == 0 {
		panic("session pool requires at least one session")
	}
	return &SessionPool{
		sessions: sessions,
		loads:    make([]int64, len(sessions)),
	}
}

// Acquire returns the session with the minimum load counter (ties broken by
// lowest index) and increments its counter. Every Acquire must be paired
// with exactly one Release on every exit path.
func (p *SessionPool) Acquire() (upstream.Client, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	best := 0
	for i, load := range p.loads {
		if load < p.loads[best] {
			best = i
		}
	}
	p.loads[best]++
	sessionLoad.WithLabelValues(strconv.Itoa(best)).Inc()
	return p.sessions[best], best
}

func (p *SessionPool) Release(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.loads) || p.loads[index] == 0 {
		return
	}
	p.loads[index]--
	sessionLoad.WithLabelValues(strconv.Itoa(index)).Dec()
}

// Load reports the current counter of one session.
func (p *SessionPool) Load(index int) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loads[index]
}

func (p *SessionPool) Size() int {
	return len(p.sessions)
}
