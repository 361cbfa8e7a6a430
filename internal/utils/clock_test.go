package utils

import (
	"github.com/stretchr/testify/assert"
	"sync"
	"testing"
	"time"
)

func TestSystemClock_Now(t *testing.T) {
	before := time.Now()
	got := SystemClock{}.Now()
	after := time.Now()

	assert.False(t, got.Before(before), "clock should not go back in time")
	assert.False(t, got.After(after), "clock should not run ahead")
}

func TestManualClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		moves []time.Duration
		want  time.Time
	}{
		{"frozen", nil, start},
		{"single advance", []time.Duration{time.Second}, start.Add(time.Second)},
		{"several advances", []time.Duration{time.Millisecond, 49 * time.Millisecond, 10 * time.Millisecond}, start.Add(60 * time.Millisecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewManualClock(start)
			for _, d := range tt.moves {
				clock.Advance(d)
			}
			assert.Equal(t, tt.want, clock.Now())
		})
	}
}

func TestManualClock_Set(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	target := time.Unix(100, 0)

	clock.Set(target)
	assert.Equal(t, target, clock.Now())
}

func TestManualClock_ConcurrentAccess(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			clock.Advance(time.Millisecond)
		}()
		go func() {
			defer wg.Done()
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, time.Unix(0, 0).Add(10*time.Millisecond), clock.Now())
}
