package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseAPIType(t *testing.T) {
	for _, want := range AllAPITypes() {
		got, err := ParseAPIType(string(want))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}

	if _, err := ParseAPIType("translation"); !errors.Is(err, ErrUnknownAPIType) {
		t.Errorf("expected ErrUnknownAPIType, got %v", err)
	}
}

func TestDailyUsageCountFor(t *testing.T) {
	u := DailyUsage{GenerativeText: 1, WebSearch: 2, Weather: 3, Places: 4}

	if u.CountFor(APITypeWebSearch) != 2 {
		t.Errorf("expected 2, got %d", u.CountFor(APITypeWebSearch))
	}
	if u.CountFor(APIType("bogus")) != 0 {
		t.Error("unknown type should count as zero")
	}
	if u.Total() != 10 {
		t.Errorf("expected total 10, got %d", u.Total())
	}
}

func TestCacheEntryExpired(t *testing.T) {
	now := time.Now()
	e := &CacheEntry{ExpiresAt: now.Add(time.Minute)}

	if e.Expired(now) {
		t.Error("entry before expiry should be live")
	}
	if !e.Expired(now.Add(time.Minute)) {
		t.Error("entry at exact expiry should be expired")
	}
	if !e.Expired(now.Add(2 * time.Minute)) {
		t.Error("entry past expiry should be expired")
	}
}
