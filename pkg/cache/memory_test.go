package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	type payload struct {
		Symbol string `json:"symbol"`
		Count  int    `json:"count"`
	}
	if err := m.Set(ctx, "k", payload{Symbol: "BTC-USD", Count: 3}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	if err := m.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Symbol != "BTC-USD" || got.Count != 3 {
		t.Fatalf("unexpected value: %+v", got)
	}
}

func TestMemoryMiss(t *testing.T) {
	m := NewMemory(10, time.Minute)
	defer m.Close()

	var s string
	if err := m.Get(context.Background(), "absent", &s); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "k", "v", time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	var s string
	if err := m.Get(ctx, "k", &s); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry miss, got %v", err)
	}
}

func TestMemoryEvictsOldestAtCapacity(t *testing.T) {
	m := NewMemory(2, time.Minute)
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "a", "1", time.Minute); err != nil {
		t.Fatalf("set a: %v", err)
	}
	time.Sleep(time.Millisecond)
	if err := m.Set(ctx, "b", "2", time.Minute); err != nil {
		t.Fatalf("set b: %v", err)
	}
	time.Sleep(time.Millisecond)
	if err := m.Set(ctx, "c", "3", time.Minute); err != nil {
		t.Fatalf("set c: %v", err)
	}

	var s string
	if err := m.Get(ctx, "a", &s); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected oldest key evicted, got %v", err)
	}
	if err := m.Get(ctx, "c", &s); err != nil {
		t.Fatalf("newest key should survive: %v", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "k", "v", time.Minute)
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var s string
	if err := m.Get(ctx, "k", &s); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestGetTyped(t *testing.T) {
	m := NewMemory(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	type stats struct {
		Total int `json:"total"`
	}
	_ = m.Set(ctx, "stats", stats{Total: 7}, time.Minute)

	got, err := GetTyped[stats](ctx, m, "stats")
	if err != nil {
		t.Fatalf("GetTyped: %v", err)
	}
	if got.Total != 7 {
		t.Fatalf("unexpected value: %+v", got)
	}
}
