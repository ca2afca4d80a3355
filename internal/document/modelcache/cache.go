// Package modelcache maps collections to storage accessors for the lifetime
// of the process.
//
// By default accessors are keyed by collection name, so collections of
// different owners that share a name also share the accessor built from
// whichever schema was resolved first. KeyByID binds one accessor per
// collection instead.
package modelcache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Supraja1508/Backend/internal/collections"
	"github.com/Supraja1508/Backend/internal/document/repository"
	"github.com/Supraja1508/Backend/internal/schema"
	"github.com/Supraja1508/Backend/pkg/logger"
	"github.com/Supraja1508/Backend/pkg/metrics"
)

// DeclareTimeout bounds a single declaration. It runs detached from the
// request that triggered it because concurrent callers share its result.
const DeclareTimeout = 30 * time.Second

type KeyMode int

const (
	KeyByName KeyMode = iota
	KeyByID
)

// ParseKeyMode reads the MODEL_CACHE_KEY setting. Anything but "id" keys by
// name.
func ParseKeyMode(s string) KeyMode {
	if strings.EqualFold(strings.TrimSpace(s), "id") {
		return KeyByID
	}
	return KeyByName
}

func (m KeyMode) String() string {
	if m == KeyByID {
		return "id"
	}
	return "name"
}

// Cache is a concurrent get-or-create table of accessors. Entries are never
// evicted.
type Cache struct {
	store repository.Store
	mode  KeyMode

	mu        sync.RWMutex
	accessors map[string]repository.Accessor
	group     singleflight.Group
}

func New(store repository.Store, mode KeyMode) *Cache {
	return &Cache{store: store, mode: mode, accessors: make(map[string]repository.Accessor)}
}

// Key returns the cache key, which is also the physical storage name.
func (c *Cache) Key(coll *collections.Collection) string {
	if c.mode == KeyByID {
		return "c_" + coll.ID.Hex()
	}
	return coll.Name
}

// Resolve returns the accessor for coll, compiling and declaring it on first
// use. An existing accessor is returned as is, even when coll's schema
// differs from the one it was built from.
func (c *Cache) Resolve(ctx context.Context, coll *collections.Collection) (repository.Accessor, error) {
	if coll == nil {
		return nil, fmt.Errorf("resolve accessor: nil collection")
	}
	key := c.Key(coll)
	if a, ok := c.lookup(key); ok {
		metrics.ModelCacheLookups.WithLabelValues("hit").Inc()
		return a, nil
	}
	metrics.ModelCacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do(key, func() (any, error) {
		// another caller may have finished between lookup and Do
		if a, ok := c.lookup(key); ok {
			return a, nil
		}
		compiled := schema.Compile(coll.Schema)
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DeclareTimeout)
		defer cancel()
		a, err := c.store.Declare(dctx, key, compiled.Descriptor)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.accessors[key] = a
		n := len(c.accessors)
		c.mu.Unlock()
		metrics.ModelCacheSize.Set(float64(n))
		logger.Debugf("model cache: declared %q (%d fields)", key, len(compiled.Descriptor.Fields()))
		return a, nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve accessor %q: %w", key, err)
	}
	return v.(repository.Accessor), nil
}

func (c *Cache) lookup(key string) (repository.Accessor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.accessors[key]
	return a, ok
}

// Len reports the number of cached accessors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.accessors)
}
