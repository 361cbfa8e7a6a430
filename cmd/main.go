package main

import (
	"context"
	"fmt"
	"github.com/BarushevEA/fifo_ttl_cache/pkg"
	"github.com/BarushevEA/fifo_ttl_cache/types"
	"go.uber.org/zap"
	"os"
	"sync"
	"time"
)

type demoConfig struct {
	maxSize int
	ttl     time.Duration
	readers int
	writers int
	settle  time.Duration
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := demoConfig{
		maxSize: 10,
		ttl:     2 * time.Second,
		readers: 5,
		writers: 2,
		settle:  2 * time.Second,
	}

	if err := run(context.Background(), logger, cfg); err != nil {
		logger.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}

// run seeds a bounded TTL cache, reads it from several goroutines, waits for the
// seed entries to expire and then checks that only the late writes survive.
func run(ctx context.Context, logger *zap.Logger, cfg demoConfig) error {
	cache := pkg.NewCache[int, string](ctx, pkg.WithLogger(logger)).
		WithMaxSize(cfg.maxSize).
		WithTTL(cfg.ttl)

	cache.Put(1, "one")
	cache.Put(2, "two")
	cache.Put(3, "three")

	var wg sync.WaitGroup
	for i := 0; i < cfg.readers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if value, ok := cache.Get(1); ok {
				logger.Info("reader got key", zap.Int("reader", id), zap.String("value", value))
			} else {
				logger.Info("reader missed key", zap.Int("reader", id))
			}
			logger.Info("reader snapshot",
				zap.Int("reader", id),
				zap.Ints("keys", cache.Keys()),
				zap.Strings("values", cache.Values()),
			)
		}(i)
	}

	time.Sleep(cfg.settle)

	for i := 0; i < cfg.writers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := 10 + id
			cache.Put(key, fmt.Sprintf("value%d", key))
			logger.Info("writer added key", zap.Int("writer", id), zap.Int("key", key))
		}(i)
	}
	wg.Wait()

	logger.Info("final keys", zap.Ints("keys", cache.Keys()))

	if err := verify(cache, cfg.writers); err != nil {
		_ = cache.Close()
		return err
	}
	return cache.Close()
}

func verify(cache types.ICacheInMemory[int, string], writers int) error {
	for _, key := range []int{1, 2, 3} {
		if cache.Exists(key) {
			return fmt.Errorf("run ERROR: key %d should have expired", key)
		}
	}
	for i := 0; i < writers; i++ {
		key := 10 + i
		value, ok := cache.Get(key)
		if !ok || value != fmt.Sprintf("value%d", key) {
			return fmt.Errorf("run ERROR: key %d missing or wrong: %q", key, value)
		}
	}
	return nil
}
