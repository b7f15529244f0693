// Package cache implements the tiered API response cache: a bounded
// in-process LRU in front of a durable store, with per-type TTLs and
// similarity-based fuzzy matching for generative text requests.
package cache

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
)

// Default tuning values. The TTLs reflect the volatility of the underlying
// data: weather changes hourly, place metadata is nearly static, and
// generative answers stay useful for a day.
const (
	DefaultMemoryCapacity  = 500
	DefaultFuzzyThreshold  = 0.85
	DefaultFuzzyCandidates = 100
	DefaultMaxRequestLen   = 500
)

// DefaultTTLs returns the per-type expiry durations.
func DefaultTTLs() map[models.APIType]time.Duration {
	return map[models.APIType]time.Duration{
		models.APITypeGenerativeText: 24 * time.Hour,
		models.APITypeWebSearch:      6 * time.Hour,
		models.APITypeWeather:        time.Hour,
		models.APITypePlaces:         30 * 24 * time.Hour,
	}
}

// Options tunes the cache. Zero fields fall back to the defaults above.
type Options struct {
	MemoryCapacity  int
	FuzzyThreshold  float64
	FuzzyCandidates int
	MaxRequestLen   int
	TTLs            map[models.APIType]time.Duration
}

func (o Options) withDefaults() Options {
	if o.MemoryCapacity <= 0 {
		o.MemoryCapacity = DefaultMemoryCapacity
	}
	if o.FuzzyThreshold <= 0 {
		o.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if o.FuzzyCandidates <= 0 {
		o.FuzzyCandidates = DefaultFuzzyCandidates
	}
	if o.MaxRequestLen <= 0 {
		o.MaxRequestLen = DefaultMaxRequestLen
	}
	ttls := DefaultTTLs()
	for t, d := range o.TTLs {
		if d > 0 {
			ttls[t] = d
		}
	}
	o.TTLs = ttls
	return o
}

// Cache is the tiered response cache orchestrator. Construct one at process
// start and inject it into request handlers; there is no package-level state.
type Cache struct {
	store  Store
	memory *memoryCache
	opts   Options
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Cache over the given persistent store. The store may be nil,
// in which case the cache runs memory-only.
func New(store Store, opts Options, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	return &Cache{
		store:  store,
		memory: newMemoryCache(opts.MemoryCapacity),
		opts:   opts,
		logger: logger,
	}
}

// persisted reports whether entries of this type are written to the durable
// store. Weather is too volatile to share and place lookups live long enough
// in memory, so only the two expensive types go to the store.
func persisted(t models.APIType) bool {
	return t == models.APITypeGenerativeText || t == models.APITypeWebSearch
}

// Lookup returns the cached response for a request, checking the memory
// tier, then the persistent exact match, then (for generative text only) a
// fuzzy scan over recent persistent entries. Store failures are logged and
// treated as misses; Lookup never fails.
func (c *Cache) Lookup(ctx context.Context, apiType models.APIType, request string) ([]byte, bool) {
	now := time.Now().UTC()
	key := HashRequest(apiType, request)

	if entry, ok := c.memory.get(key, now); ok {
		if persisted(apiType) {
			c.bumpUseCount(ctx, entry.ID)
		}
		c.hits.Add(1)
		return entry.Response, true
	}

	if c.store == nil || !persisted(apiType) {
		c.misses.Add(1)
		return nil, false
	}

	if entry, err := c.store.FindExact(ctx, apiType, key); err != nil {
		c.logger.Warn("cache exact lookup failed", "api_type", apiType, "error", err)
	} else if entry != nil {
		c.bumpUseCount(ctx, entry.ID)
		entry.UseCount++
		c.memory.put(key, entry)
		c.hits.Add(1)
		return entry.Response, true
	}

	if apiType == models.APITypeGenerativeText {
		if response, ok := c.fuzzyLookup(ctx, request); ok {
			c.hits.Add(1)
			return response, true
		}
	}

	c.misses.Add(1)
	return nil, false
}

// fuzzyLookup scans recent generative text entries for the first one whose
// stored request is similar enough to the incoming one. First match wins:
// candidates arrive most recent first, so recency breaks ties.
func (c *Cache) fuzzyLookup(ctx context.Context, request string) ([]byte, bool) {
	candidates, err := c.store.FuzzyCandidates(ctx, models.APITypeGenerativeText, c.opts.FuzzyCandidates)
	if err != nil {
		c.logger.Warn("cache fuzzy lookup failed", "error", err)
		return nil, false
	}

	for i := range candidates {
		score := Similarity(request, candidates[i].Request)
		if score >= c.opts.FuzzyThreshold {
			c.logger.Debug("fuzzy cache hit",
				"similarity", score,
				"request_hash", candidates[i].RequestHash,
			)
			c.bumpUseCount(ctx, candidates[i].ID)
			return candidates[i].Response, true
		}
	}
	return nil, false
}

// Store records a fresh API response in the memory tier and, for persisted
// types, in the durable store. Failures are logged, never returned: a lost
// cache write only costs a future API call.
func (c *Cache) Store(ctx context.Context, apiType models.APIType, request string, response []byte) {
	now := time.Now().UTC()

	stored := request
	if len(stored) > c.opts.MaxRequestLen {
		cut := c.opts.MaxRequestLen
		// Back up so the cut never splits a multi-byte rune.
		for cut > 0 && !utf8.RuneStart(stored[cut]) {
			cut--
		}
		stored = stored[:cut]
	}

	entry := &models.CacheEntry{
		ID:          uuid.NewString(),
		APIType:     apiType,
		RequestHash: HashRequest(apiType, request),
		Request:     stored,
		Response:    response,
		UseCount:    1,
		ExpiresAt:   now.Add(c.opts.TTLs[apiType]),
		CreatedAt:   now,
	}

	c.memory.put(entry.RequestHash, entry)

	if c.store == nil || !persisted(apiType) {
		return
	}
	if err := c.store.Insert(ctx, entry); err != nil {
		c.logger.Warn("cache insert failed", "api_type", apiType, "error", err)
	}
}

// Cleanup sweeps expired entries from both tiers. It is passive: run it from
// a scheduler or the admin CLI.
func (c *Cache) Cleanup(ctx context.Context) {
	now := time.Now().UTC()

	removed := c.memory.sweep(now)
	if removed > 0 {
		c.logger.Info("memory cache sweep", "removed", removed)
	}

	if c.store == nil {
		return
	}
	deleted, err := c.store.DeleteExpired(ctx, now)
	if err != nil {
		c.logger.Warn("cache expiry sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		c.logger.Info("persistent cache sweep", "deleted", deleted)
	}
}

// Stats reports hit/miss counters and the persistent entry count.
func (c *Cache) Stats(ctx context.Context) models.CacheStats {
	stats := models.CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
	if c.store != nil {
		count, err := c.store.CountEntries(ctx)
		if err != nil {
			c.logger.Warn("cache entry count failed", "error", err)
		} else {
			stats.Entries = count
		}
	}
	return stats
}

// MemoryLen returns the number of entries in the memory tier.
func (c *Cache) MemoryLen() int {
	return c.memory.len()
}

// bumpUseCount records a hit on the persistent entry. Best effort: the
// cached response is returned to the caller whether or not this write lands.
func (c *Cache) bumpUseCount(ctx context.Context, id string) {
	if c.store == nil {
		return
	}
	if err := c.store.IncrementUseCount(ctx, id); err != nil {
		c.logger.Debug("use count increment failed", "id", id, "error", err)
	}
}
