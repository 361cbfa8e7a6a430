package src

import (
	"context"
	"github.com/BarushevEA/fifo_ttl_cache/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync/atomic"
	"testing"
	"time"
)

func TestSweeper_StateTransitions(t *testing.T) {
	s := &sweeper{}
	assert.Equal(t, types.SweeperNotStarted, s.getState())

	entered := make(chan struct{})
	release := make(chan struct{})
	s.start(context.Background(), func(ctx context.Context) {
		close(entered)
		<-ctx.Done()
		<-release
	})
	<-entered
	assert.Equal(t, types.SweeperRunning, s.getState())

	stopped := make(chan error, 1)
	go func() {
		stopped <- s.stop()
	}()

	require.Eventually(t, func() bool {
		return s.getState() == types.SweeperStopRequested
	}, time.Second, time.Millisecond, "stop should be requested while the loop is still draining")

	close(release)
	require.NoError(t, <-stopped)
	assert.Equal(t, types.SweeperStopped, s.getState())
}

func TestSweeper_StartOnce(t *testing.T) {
	s := &sweeper{}
	var runs atomic.Int32

	loop := func(ctx context.Context) {
		runs.Add(1)
		<-ctx.Done()
	}
	s.start(context.Background(), loop)
	s.start(context.Background(), loop)

	require.NoError(t, s.stop())
	assert.Equal(t, int32(1), runs.Load())

	s.start(context.Background(), loop)
	assert.Equal(t, types.SweeperStopped, s.getState(), "a stopped sweeper stays stopped")
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	s := &sweeper{}

	require.NoError(t, s.stop())
	assert.Equal(t, types.SweeperStopped, s.getState())
}

func TestSweeper_Fault(t *testing.T) {
	s := &sweeper{}
	s.start(context.Background(), func(context.Context) {
		panic("boom")
	})

	err := s.stop()
	require.ErrorIs(t, err, ErrSweeperFault)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, types.SweeperStopped, s.getState())
}
