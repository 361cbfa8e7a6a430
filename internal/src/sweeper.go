package src

import (
	"context"
	"errors"
	"fmt"
	"github.com/BarushevEA/fifo_ttl_cache/types"
	"go.uber.org/zap"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSweeperFault is wrapped by Close when the background sweeper did not exit cleanly.
var ErrSweeperFault = errors.New("sweeper terminated abnormally")

// sweeper owns the background expiration goroutine of one cache.
type sweeper struct {
	mu     sync.Mutex
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
	fault  error
}

func (s *sweeper) getState() types.SweeperState {
	return types.SweeperState(s.state.Load())
}

// start launches loop once; later calls are no-ops.
func (s *sweeper) start(parent context.Context, loop func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getState() != types.SweeperNotStarted {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.state.Store(int32(types.SweeperRunning))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.fault = fmt.Errorf("sweeper.run ERROR: %v: %w", r, ErrSweeperFault)
			}
			s.state.Store(int32(types.SweeperStopped))
			close(s.done)
		}()
		loop(ctx)
	}()
}

// stop raises the stop signal and blocks until the goroutine has exited.
// It returns the fault recorded by the goroutine, if any.
func (s *sweeper) stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.getState() {
	case types.SweeperNotStarted:
		s.state.Store(int32(types.SweeperStopped))
		return nil
	case types.SweeperRunning:
		s.state.CompareAndSwap(int32(types.SweeperRunning), int32(types.SweeperStopRequested))
	}

	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
	return s.fault
}

// sweepLoop wakes every sweep interval until ctx is done.
func (cache *FifoCacheWithTTL[K, V]) sweepLoop(ctx context.Context) {
	timer := time.NewTimer(cache.config.getSweepInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			cache.sweep()
			timer.Reset(cache.config.getSweepInterval())
		}
	}
}

// sweep deletes expired entries, then drops ledger keys no longer in the store.
// The store lock is taken before the ledger lock, the same order every mutation uses.
func (cache *FifoCacheWithTTL[K, V]) sweep() {
	ttl := cache.config.getTTL()
	if ttl <= 0 {
		return
	}
	now := cache.clock.Now()

	expired, dropped := cache.sweepLocked(now, ttl)
	if expired > 0 || dropped > 0 {
		cache.logger.Debug("sweep completed",
			zap.Int("expired", expired),
			zap.Int("ledger_dropped", dropped),
		)
	}
}

func (cache *FifoCacheWithTTL[K, V]) sweepLocked(now time.Time, ttl time.Duration) (int, int) {
	cache.store.Lock()
	defer cache.store.Unlock()

	expired := cache.store.deleteExpiredLocked(now, ttl)
	dropped := cache.ledger.Retain(cache.store.hasLocked)
	return expired, dropped
}
