package cache

import (
	"context"
	"time"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
)

// Store is the persistent cache tier, shared across processes.
//
// The orchestrator treats every Store failure as a miss or a no-op: a broken
// store degrades the cache to memory-only behavior, it never surfaces errors
// to lookup or store callers.
type Store interface {
	// FindExact returns the live entry for (apiType, requestHash), or nil if
	// none exists. When duplicates exist the most recently created wins.
	FindExact(ctx context.Context, apiType models.APIType, requestHash string) (*models.CacheEntry, error)

	// FuzzyCandidates returns up to limit live entries of the given type,
	// most recent first, for similarity matching by the caller.
	FuzzyCandidates(ctx context.Context, apiType models.APIType, limit int) ([]models.CacheEntry, error)

	// Insert durably writes a new entry.
	Insert(ctx context.Context, entry *models.CacheEntry) error

	// IncrementUseCount bumps an entry's hit counter.
	IncrementUseCount(ctx context.Context, id string) error

	// DeleteExpired removes entries past their expiry and returns how many
	// rows were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// CountEntries returns the number of stored entries.
	CountEntries(ctx context.Context) (int64, error)

	// Close releases resources.
	Close() error
}
