package ratecache

import (
	"context"
	"sync"

	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
)

// MemoryCache is the process-local fallback when no redis address is
// configured.
type MemoryCache struct {
	mu    sync.RWMutex
	sheet domain.RateSheet
	ok    bool
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(context.Context) (domain.RateSheet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sheet, c.ok
}

func (c *MemoryCache) Set(_ context.Context, sheet domain.RateSheet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sheet = sheet
	c.ok = true
	return nil
}
