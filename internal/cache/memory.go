package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data   []byte
	expiry time.Time
}

// MemoryCache is a TTL map with oldest-expiry eviction.
type MemoryCache struct {
	mu      sync.RWMutex
	data    map[string]entry
	maxSize int
	now     func() time.Time
	quit    chan struct{}
	once    sync.Once
}

func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	mc := &MemoryCache{
		data:    make(map[string]entry),
		maxSize: maxSize,
		now:     time.Now,
		quit:    make(chan struct{}),
	}
	go mc.cleanup()
	return mc
}

func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	e, ok := mc.data[key]
	if !ok || mc.now().After(e.expiry) {
		return nil, false
	}
	return e.data, true
}

func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if _, exists := mc.data[key]; !exists && len(mc.data) >= mc.maxSize {
		mc.evictOldest()
	}
	mc.data[key] = entry{data: value, expiry: mc.now().Add(ttl)}
}

func (mc *MemoryCache) Delete(_ context.Context, key string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.data, key)
}

func (mc *MemoryCache) Clear(context.Context) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.data = make(map[string]entry)
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (mc *MemoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.data)
}

func (mc *MemoryCache) Close() error {
	mc.once.Do(func() { close(mc.quit) })
	return mc.Clear(context.Background())
}

func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, v := range mc.data {
		if first || v.expiry.Before(oldest) {
			oldestKey = k
			oldest = v.expiry
			first = false
		}
	}
	if !first {
		delete(mc.data, oldestKey)
	}
}

func (mc *MemoryCache) cleanup() {
	t := time.NewTicker(5 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-mc.quit:
			return
		case <-t.C:
			mc.mu.Lock()
			now := mc.now()
			for k, v := range mc.data {
				if now.After(v.expiry) {
					delete(mc.data, k)
				}
			}
			mc.mu.Unlock()
		}
	}
}
