package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/cache"
	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache_test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testEntry(apiType models.APIType, request string, ttl time.Duration) *models.CacheEntry {
	now := time.Now().UTC()
	return &models.CacheEntry{
		ID:          uuid.NewString(),
		APIType:     apiType,
		RequestHash: cache.HashRequest(apiType, request),
		Request:     request,
		Response:    []byte(`{"answer":"ok"}`),
		UseCount:    1,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}
}

func TestInsertAndFindExact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := testEntry(models.APITypeGenerativeText, "o que fazer em Bonito", time.Hour)
	if err := s.Insert(ctx, entry); err != nil {
		t.Fatal(err)
	}

	found, err := s.FindExact(ctx, models.APITypeGenerativeText, entry.RequestHash)
	if err != nil {
		t.Fatal(err)
	}
	if found == nil {
		t.Fatal("expected entry")
	}
	if found.ID != entry.ID {
		t.Errorf("expected id %s, got %s", entry.ID, found.ID)
	}
	if string(found.Response) != `{"answer":"ok"}` {
		t.Errorf("unexpected response: %s", found.Response)
	}

	// Same hash under a different type is a miss.
	miss, err := s.FindExact(ctx, models.APITypeWebSearch, entry.RequestHash)
	if err != nil {
		t.Fatal(err)
	}
	if miss != nil {
		t.Error("expected miss for different api type")
	}
}

func TestFindExactSkipsExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := testEntry(models.APITypeGenerativeText, "pergunta velha", -time.Minute)
	if err := s.Insert(ctx, entry); err != nil {
		t.Fatal(err)
	}

	found, err := s.FindExact(ctx, models.APITypeGenerativeText, entry.RequestHash)
	if err != nil {
		t.Fatal(err)
	}
	if found != nil {
		t.Error("expired entry should be invisible")
	}
}

func TestFindExactNewestWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := testEntry(models.APITypeGenerativeText, "pergunta duplicada", time.Hour)
	older.CreatedAt = older.CreatedAt.Add(-time.Minute)
	older.Response = []byte("velha")

	newer := testEntry(models.APITypeGenerativeText, "pergunta duplicada", time.Hour)
	newer.Response = []byte("nova")

	if err := s.Insert(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, newer); err != nil {
		t.Fatal(err)
	}

	found, err := s.FindExact(ctx, models.APITypeGenerativeText, newer.RequestHash)
	if err != nil {
		t.Fatal(err)
	}
	if found == nil {
		t.Fatal("expected entry")
	}
	if string(found.Response) != "nova" {
		t.Errorf("expected most recent duplicate, got %s", found.Response)
	}
}

func TestFuzzyCandidates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		entry := testEntry(models.APITypeGenerativeText, "pergunta", time.Hour)
		entry.Request = string(rune('a' + i))
		entry.RequestHash = cache.HashRequest(models.APITypeGenerativeText, entry.Request)
		entry.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := s.Insert(ctx, entry); err != nil {
			t.Fatal(err)
		}
	}
	// Expired and foreign-type entries must not appear.
	if err := s.Insert(ctx, testEntry(models.APITypeGenerativeText, "expirada", -time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, testEntry(models.APITypeWebSearch, "busca", time.Hour)); err != nil {
		t.Fatal(err)
	}

	candidates, err := s.FuzzyCandidates(ctx, models.APITypeGenerativeText, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	if candidates[0].Request != "e" {
		t.Errorf("expected most recent first, got %q", candidates[0].Request)
	}
	for _, c := range candidates {
		if c.APIType != models.APITypeGenerativeText {
			t.Errorf("unexpected api type %s", c.APIType)
		}
	}
}

func TestIncrementUseCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := testEntry(models.APITypeGenerativeText, "pergunta popular", time.Hour)
	if err := s.Insert(ctx, entry); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := s.IncrementUseCount(ctx, entry.ID); err != nil {
			t.Fatal(err)
		}
	}

	found, err := s.FindExact(ctx, models.APITypeGenerativeText, entry.RequestHash)
	if err != nil {
		t.Fatal(err)
	}
	if found.UseCount != 4 {
		t.Errorf("expected use count 4, got %d", found.UseCount)
	}
}

func TestDeleteExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, testEntry(models.APITypeGenerativeText, "viva", time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, testEntry(models.APITypeGenerativeText, "morta um", -time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, testEntry(models.APITypeWebSearch, "morta dois", -time.Hour)); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.DeleteExpired(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	count, err := s.CountEntries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 remaining entry, got %d", count)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, testEntry(models.APITypeGenerativeText, "uma", time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, testEntry(models.APITypeGenerativeText, "duas", -time.Minute)); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(ctx, true); err != nil {
		t.Fatal(err)
	}
	count, _ := s.CountEntries(ctx)
	if count != 1 {
		t.Errorf("expected 1 entry after expired-only clear, got %d", count)
	}

	if err := s.Clear(ctx, false); err != nil {
		t.Fatal(err)
	}
	count, _ = s.CountEntries(ctx)
	if count != 0 {
		t.Errorf("expected 0 entries after full clear, got %d", count)
	}
}
