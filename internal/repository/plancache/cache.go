// Package plancache remembers which stored plan answered an identical request.
package plancache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/trajplan/internal/db"
)

// store is the consumer interface for the plan cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache maps a request fingerprint to the id of the plan computed for it.
type Cache struct {
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a plan cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	return &Cache{
		store:      s,
		prefix:     prefix + "plan_cache:",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Lookup returns the plan id cached for request, if any.
// Storage failures are logged and reported as misses.
func (c *Cache) Lookup(ctx context.Context, request []byte) (string, bool) {
	key := c.key(request)
	data, err := c.store.Get(ctx, key)
	if err != nil || len(data) == 0 {
		if err != nil && !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached plan", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return "", false
	}
	c.inc("hit")
	return string(data), true
}

// Remember caches the plan id computed for request.
func (c *Cache) Remember(ctx context.Context, request []byte, id string) {
	key := c.key(request)
	if err := c.store.SetWithTTL(ctx, key, []byte(id), c.ttl); err != nil {
		c.logger.Warn("Failed to cache plan", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) key(request []byte) string {
	h := sha256.Sum256(request)
	return c.prefix + hex.EncodeToString(h[:])
}
