package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
)

func newTestTracker(t *testing.T) *SQLiteTracker {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tracker_test.db")
	tr, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestTodayZeroValued(t *testing.T) {
	tr := newTestTracker(t)

	usage, err := tr.Today(context.Background(), "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if usage.Total() != 0 {
		t.Errorf("expected zero counters for new user, got %d", usage.Total())
	}
	if usage.UserID != "user-1" {
		t.Errorf("expected user id set, got %q", usage.UserID)
	}
}

func TestIncrement(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	if err := tr.Increment(ctx, "user-1", models.APITypeGenerativeText, 1); err != nil {
		t.Fatal(err)
	}
	if err := tr.Increment(ctx, "user-1", models.APITypeGenerativeText, 2); err != nil {
		t.Fatal(err)
	}
	if err := tr.Increment(ctx, "user-1", models.APITypeWeather, 5); err != nil {
		t.Fatal(err)
	}
	// Another user's counters stay independent.
	if err := tr.Increment(ctx, "user-2", models.APITypeGenerativeText, 7); err != nil {
		t.Fatal(err)
	}

	usage, err := tr.Today(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if usage.GenerativeText != 3 {
		t.Errorf("expected 3 generative calls, got %d", usage.GenerativeText)
	}
	if usage.Weather != 5 {
		t.Errorf("expected 5 weather calls, got %d", usage.Weather)
	}
	if usage.WebSearch != 0 || usage.Places != 0 {
		t.Error("untouched counters should stay zero")
	}
}

func TestIncrementUnknownType(t *testing.T) {
	tr := newTestTracker(t)

	err := tr.Increment(context.Background(), "user-1", models.APIType("bogus"), 1)
	if err == nil {
		t.Fatal("expected error for unknown api type")
	}
	if !errors.Is(err, models.ErrUnknownAPIType) {
		t.Errorf("expected ErrUnknownAPIType, got %v", err)
	}
}

func TestIncrementIgnoresNonPositive(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	if err := tr.Increment(ctx, "user-1", models.APITypeGenerativeText, 0); err != nil {
		t.Fatal(err)
	}
	if err := tr.Increment(ctx, "user-1", models.APITypeGenerativeText, -5); err != nil {
		t.Fatal(err)
	}

	usage, _ := tr.Today(ctx, "user-1")
	if usage.GenerativeText != 0 {
		t.Errorf("expected 0, got %d", usage.GenerativeText)
	}
}

func TestConcurrentIncrements(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tr.Increment(ctx, "user-1", models.APITypeGenerativeText, 1); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	usage, err := tr.Today(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if usage.GenerativeText != 100 {
		t.Errorf("expected exactly 100 after concurrent increments, got %d", usage.GenerativeText)
	}
}

func TestMonthlyStats(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	if err := tr.Increment(ctx, "user-1", models.APITypeGenerativeText, 10); err != nil {
		t.Fatal(err)
	}
	if err := tr.Increment(ctx, "user-1", models.APITypeWebSearch, 4); err != nil {
		t.Fatal(err)
	}

	// A row from a previous month must not be counted.
	if _, err := tr.db.ExecContext(ctx,
		`INSERT INTO api_usage (user_id, usage_date, generative_text_count) VALUES (?, ?, ?)`,
		"user-1", "2020-01-15", 99,
	); err != nil {
		t.Fatal(err)
	}

	stats, err := tr.MonthlyStats(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if stats.GenerativeText != 10 {
		t.Errorf("expected 10 generative calls this month, got %d", stats.GenerativeText)
	}
	if stats.WebSearch != 4 {
		t.Errorf("expected 4 web searches this month, got %d", stats.WebSearch)
	}
	if stats.Total != 14 {
		t.Errorf("expected total 14, got %d", stats.Total)
	}
}
