package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/ports"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// LocalCache is the in-process fallback used when Redis is not configured or
// unreachable. Entries are swept periodically.
type LocalCache struct {
	data   map[string]entry
	mu     sync.RWMutex
	log    *zap.Logger
	stopCh chan struct{}
}

func NewLocalCache(sweepInterval time.Duration, log *zap.Logger) ports.Cache {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	c := &LocalCache{
		data:   make(map[string]entry),
		log:    log,
		stopCh: make(chan struct{}),
	}
	go c.sweepLoop(sweepInterval)

	log.Info("Using in-memory cache", zap.Duration("sweep_interval", sweepInterval))
	return c
}

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok {
		return "", ports.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && e.expiresAt.Before(time.Now()) {
		return "", ports.ErrCacheMiss
	}
	return e.value, nil
}

func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("cache: marshal value: %w", err)
		}
		str = string(data)
	}

	e := entry{value: str}
	if expiration > 0 {
		e.expiresAt = time.Now().Add(expiration)
	}

	c.mu.Lock()
	c.data[key] = e
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Ping() error { return nil }

func (c *LocalCache) Close() error {
	close(c.stopCh)
	return nil
}

func (c *LocalCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopCh:
			return
		}
	}
}

func (c *LocalCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.data {
		if !e.expiresAt.IsZero() && e.expiresAt.Before(now) {
			delete(c.data, key)
		}
	}
}
