package cache

import (
	"testing"
	"time"
)

func testStore() (*Store, *time.Time) {
	now := time.Unix(1700000000, 0)
	s := NewStore(3600 * time.Second).WithClock(func() time.Time { return now })
	return s, &now
}

func TestGetPut_Roundtrip(t *testing.T) {
	s, _ := testStore()
	if _, ok := s.Get("index_history:^GSPC"); ok {
		t.Fatal("expected miss for unknown key")
	}
	s.Put("index_history:^GSPC", "frame")
	v, ok := s.Get("index_history:^GSPC")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if v.(string) != "frame" {
		t.Errorf("expected stored value back, got %v", v)
	}
}

func TestGet_ExpiresAfterTTL(t *testing.T) {
	s, now := testStore()
	s.Put("k", 1)

	// Exactly at the TTL boundary the entry is still valid.
	*now = now.Add(3600 * time.Second)
	if _, ok := s.Get("k"); !ok {
		t.Error("entry at exactly TTL age should still be valid")
	}
	if s.IsExpired("k") {
		t.Error("entry at exactly TTL age should not report expired")
	}

	*now = now.Add(time.Second)
	if _, ok := s.Get("k"); ok {
		t.Error("entry past TTL should miss")
	}
	if !s.IsExpired("k") {
		t.Error("entry past TTL should report expired")
	}
}

func TestIsExpired_AbsentKey(t *testing.T) {
	s, _ := testStore()
	if s.IsExpired("missing") {
		t.Error("absent key is missing, not expired")
	}
}

func TestInvalidateAll_ClearsEverything(t *testing.T) {
	s, _ := testStore()
	s.Put("index_history:^GSPC", 1)
	s.Put("stock_overview:AAPL", 2)
	s.Put("financials:AAPL", 3)

	if n := s.InvalidateAll(); n != 3 {
		t.Errorf("expected 3 dropped entries, got %d", n)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
	if _, ok := s.Get("stock_overview:AAPL"); ok {
		t.Error("expected miss after global invalidation")
	}
}

func TestPut_RefreshesTimestamp(t *testing.T) {
	s, now := testStore()
	s.Put("k", 1)
	*now = now.Add(3000 * time.Second)
	s.Put("k", 2)
	*now = now.Add(3000 * time.Second)

	// 6000s after the first Put, 3000s after the second: still fresh.
	v, ok := s.Get("k")
	if !ok {
		t.Fatal("expected hit, re-Put should reset the entry age")
	}
	if v.(int) != 2 {
		t.Errorf("expected latest value, got %v", v)
	}
}
