// Package sqlite implements the persistent cache tier on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/cache"
	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
)

// Store is the durable cache table shared across processes.
type Store struct {
	db *sql.DB
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS api_response_cache (
	id TEXT PRIMARY KEY,
	api_type TEXT NOT NULL,
	request_hash TEXT NOT NULL,
	request TEXT NOT NULL,
	response BLOB NOT NULL,
	use_count INTEGER NOT NULL DEFAULT 1,
	expires_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_cache_type_hash ON api_response_cache(api_type, request_hash);
CREATE INDEX IF NOT EXISTS idx_cache_expires ON api_response_cache(expires_at);
`

// New opens the cache database and creates the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Store{db: db}, nil
}

// FindExact returns the live entry for (apiType, requestHash). When a write
// race left duplicates behind, the most recently created row wins.
func (s *Store) FindExact(ctx context.Context, apiType models.APIType, requestHash string) (*models.CacheEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, api_type, request_hash, request, response, use_count, expires_at, created_at
		 FROM api_response_cache
		 WHERE api_type = ? AND request_hash = ? AND expires_at > ?
		 ORDER BY created_at DESC LIMIT 1`,
		string(apiType), requestHash, time.Now().UTC(),
	)

	var e models.CacheEntry
	if err := scanEntry(row.Scan, &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find cache entry: %w", err)
	}
	return &e, nil
}

// FuzzyCandidates returns up to limit live entries of one type, most recent
// first.
func (s *Store) FuzzyCandidates(ctx context.Context, apiType models.APIType, limit int) ([]models.CacheEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, api_type, request_hash, request, response, use_count, expires_at, created_at
		 FROM api_response_cache
		 WHERE api_type = ? AND expires_at > ?
		 ORDER BY created_at DESC LIMIT ?`,
		string(apiType), time.Now().UTC(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fuzzy candidates: %w", err)
	}
	defer rows.Close()

	var entries []models.CacheEntry
	for rows.Next() {
		var e models.CacheEntry
		if err := scanEntry(rows.Scan, &e); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Insert durably writes a new entry.
func (s *Store) Insert(ctx context.Context, entry *models.CacheEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_response_cache
		 (id, api_type, request_hash, request, response, use_count, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.APIType), entry.RequestHash, entry.Request,
		entry.Response, entry.UseCount, entry.ExpiresAt, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cache entry: %w", err)
	}
	return nil
}

// IncrementUseCount bumps an entry's hit counter.
func (s *Store) IncrementUseCount(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE api_response_cache SET use_count = use_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment use count: %w", err)
	}
	return nil
}

// DeleteExpired removes entries past their expiry and returns the row count.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM api_response_cache WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired: %w", err)
	}
	return res.RowsAffected()
}

// CountEntries returns the number of stored entries.
func (s *Store) CountEntries(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_response_cache`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return count, nil
}

// Clear removes cache entries. If expiredOnly is true, only expired entries
// are removed.
func (s *Store) Clear(ctx context.Context, expiredOnly bool) error {
	if expiredOnly {
		_, err := s.DeleteExpired(ctx, time.Now())
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM api_response_cache`); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanEntry(scan func(dest ...any) error, e *models.CacheEntry) error {
	var apiType string
	if err := scan(&e.ID, &apiType, &e.RequestHash, &e.Request, &e.Response,
		&e.UseCount, &e.ExpiresAt, &e.CreatedAt); err != nil {
		return err
	}
	e.APIType = models.APIType(apiType)
	return nil
}

// Ensure Store implements the cache store contract.
var _ cache.Store = (*Store)(nil)
