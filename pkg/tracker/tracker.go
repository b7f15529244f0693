// Package tracker records per-user, per-day counters of external API calls.
package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
)

// Tracker records and queries API usage. Tracking is observability, not a
// gate: callers log failures and continue, they never let a tracking error
// block the API call itself.
type Tracker interface {
	// Increment adds count calls of the given type to today's counters.
	Increment(ctx context.Context, userID string, apiType models.APIType, count int64) error
	// Today returns the current day's counters. A user with no recorded
	// calls gets a zero-valued DailyUsage, never an absent result.
	Today(ctx context.Context, userID string) (models.DailyUsage, error)
	// MonthlyStats sums the user's daily rows over the current calendar month.
	MonthlyStats(ctx context.Context, userID string) (models.MonthlyUsage, error)
	// Close releases resources.
	Close() error
}

// SQLiteTracker implements Tracker with a SQLite database.
type SQLiteTracker struct {
	db *sql.DB
}

const createUsageTable = `
CREATE TABLE IF NOT EXISTS api_usage (
	user_id TEXT NOT NULL,
	usage_date TEXT NOT NULL,
	generative_text_count INTEGER NOT NULL DEFAULT 0,
	web_search_count INTEGER NOT NULL DEFAULT 0,
	weather_count INTEGER NOT NULL DEFAULT 0,
	places_count INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, usage_date)
);
`

// New creates a SQLiteTracker and runs auto-migration.
func New(dbPath string) (*SQLiteTracker, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open tracker db: %w", err)
	}
	// A single writer connection serializes concurrent increments.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createUsageTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate tracker db: %w", err)
	}

	return &SQLiteTracker{db: db}, nil
}

func counterColumn(t models.APIType) (string, error) {
	switch t {
	case models.APITypeGenerativeText:
		return "generative_text_count", nil
	case models.APITypeWebSearch:
		return "web_search_count", nil
	case models.APITypeWeather:
		return "weather_count", nil
	case models.APITypePlaces:
		return "places_count", nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnknownAPIType, t)
}

// dateKey is the calendar-day key at UTC resolution.
func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Increment upserts today's counter row, adding count to the column for the
// given type. The single-statement upsert keeps concurrent increments from
// losing updates.
func (t *SQLiteTracker) Increment(ctx context.Context, userID string, apiType models.APIType, count int64) error {
	if count <= 0 {
		return nil
	}
	column, err := counterColumn(apiType)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		`INSERT INTO api_usage (user_id, usage_date, %[1]s) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, usage_date) DO UPDATE SET %[1]s = %[1]s + excluded.%[1]s`,
		column,
	)
	if _, err := t.db.ExecContext(ctx, query, userID, dateKey(time.Now()), count); err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// Today returns the current day's counters for a user.
func (t *SQLiteTracker) Today(ctx context.Context, userID string) (models.DailyUsage, error) {
	now := time.Now().UTC()
	usage := models.DailyUsage{
		UserID: userID,
		Date:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}

	err := t.db.QueryRowContext(ctx,
		`SELECT generative_text_count, web_search_count, weather_count, places_count
		 FROM api_usage WHERE user_id = ? AND usage_date = ?`,
		userID, dateKey(now),
	).Scan(&usage.GenerativeText, &usage.WebSearch, &usage.Weather, &usage.Places)
	if errors.Is(err, sql.ErrNoRows) {
		return usage, nil
	}
	if err != nil {
		return usage, fmt.Errorf("query daily usage: %w", err)
	}
	return usage, nil
}

// MonthlyStats sums the user's daily rows within the current calendar month.
func (t *SQLiteTracker) MonthlyStats(ctx context.Context, userID string) (models.MonthlyUsage, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	usage := models.MonthlyUsage{UserID: userID}
	err := t.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(generative_text_count), 0),
			COALESCE(SUM(web_search_count), 0),
			COALESCE(SUM(weather_count), 0),
			COALESCE(SUM(places_count), 0)
		 FROM api_usage WHERE user_id = ? AND usage_date >= ?`,
		userID, dateKey(monthStart),
	).Scan(&usage.GenerativeText, &usage.WebSearch, &usage.Weather, &usage.Places)
	if err != nil {
		return usage, fmt.Errorf("query monthly usage: %w", err)
	}
	usage.Total = usage.GenerativeText + usage.WebSearch + usage.Weather + usage.Places
	return usage, nil
}

// Close releases the database connection.
func (t *SQLiteTracker) Close() error {
	return t.db.Close()
}
