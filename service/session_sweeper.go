package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vocdoni/zkage/log"
)

// SessionPruner drops idle sessions. Implemented by *api.API.
type SessionPruner interface {
	PruneSessions(maxIdle time.Duration) int
}

// SessionSweeper periodically removes the sessions idle for longer than
// maxIdle, so abandoned sessions do not fill the session limit.
type SessionSweeper struct {
	pruner   SessionPruner
	maxIdle  time.Duration
	interval time.Duration
	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSessionSweeper creates a new SessionSweeper service.
func NewSessionSweeper(pruner SessionPruner, maxIdle, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		pruner:   pruner,
		maxIdle:  maxIdle,
		interval: interval,
	}
}

// Start begins sweeping in background. It returns an error if the service
// is already running.
func (ss *SessionSweeper) Start(ctx context.Context) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.cancel != nil {
		return fmt.Errorf("service already running")
	}
	if ss.interval <= 0 {
		return fmt.Errorf("invalid sweep interval %s", ss.interval)
	}
	ctx, ss.cancel = context.WithCancel(ctx)
	ss.done = make(chan struct{})
	go ss.sweep(ctx, ss.done)
	return nil
}

// Stop halts the sweeper and waits for it to exit.
func (ss *SessionSweeper) Stop() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.cancel == nil {
		return
	}
	ss.cancel()
	<-ss.done
	ss.cancel = nil
}

func (ss *SessionSweeper) sweep(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(ss.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := ss.pruner.PruneSessions(ss.maxIdle); n > 0 {
				log.Debugw("idle sessions removed", "count", n)
			}
		}
	}
}
