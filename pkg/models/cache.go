package models

import "time"

// CacheEntry stores one cached API response.
type CacheEntry struct {
	ID          string    `json:"id"`
	APIType     APIType   `json:"api_type"`
	RequestHash string    `json:"request_hash"`
	Request     string    `json:"request"`
	Response    []byte    `json:"response"`
	UseCount    int64     `json:"use_count"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Expired reports whether the entry is past its expiry at the given time.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// CacheStats reports cache performance metrics.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
