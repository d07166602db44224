package services_cache

import (
	"context"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/models"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// lruServicesCache evicts the least recently used entry once full. The
// underlying cache is goroutine safe and writes are last write wins.
type lruServicesCache struct {
	entries *lru.Cache[string, models.ServiceEntry]
}

// mapServicesCache never evicts.
type mapServicesCache struct {
	mu      sync.RWMutex
	entries map[string]models.ServiceEntry
}

// NewMemoryServicesCache bounds the cache at maxEntries. Zero or less
// disables eviction.
func NewMemoryServicesCache(maxEntries int) contracts.ServicesCache {
	if maxEntries <= 0 {
		return &mapServicesCache{entries: make(map[string]models.ServiceEntry)}
	}

	entries, err := lru.New[string, models.ServiceEntry](maxEntries)
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(err)
	}
	return &lruServicesCache{entries: entries}
}

func (c *lruServicesCache) Get(ctx context.Context, odsCode string) (models.ServiceEntry, bool, error) {
	entry, ok := c.entries.Get(strings.ToLower(odsCode))
	return entry, ok, nil
}

func (c *lruServicesCache) Set(ctx context.Context, odsCode string, entry models.ServiceEntry) error {
	c.entries.Add(strings.ToLower(odsCode), entry)
	return nil
}

func (c *mapServicesCache) Get(ctx context.Context, odsCode string) (models.ServiceEntry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[strings.ToLower(odsCode)]
	return entry, ok, nil
}

func (c *mapServicesCache) Set(ctx context.Context, odsCode string, entry models.ServiceEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[strings.ToLower(odsCode)] = entry
	return nil
}
