package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/trajplan/internal/db"
)

func TestStore_GetSetDel(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	value := []byte("v1")
	if err := s.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get = %q, %v; want v1 (stored values must be copies)", got, err)
	}

	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after Del, got %v", err)
	}
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore()
	s.now = func() time.Time { return now }

	if err := s.SetWithTTL(ctx, "short", []byte("a"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	if err := s.SetWithTTL(ctx, "forever", []byte("b"), 0); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}

	now = now.Add(59 * time.Second)
	if _, err := s.Get(ctx, "short"); err != nil {
		t.Fatalf("key expired early: %v", err)
	}

	now = now.Add(time.Second)
	if _, err := s.Get(ctx, "short"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected expired key to be gone, got %v", err)
	}
	if _, err := s.Get(ctx, "forever"); err != nil {
		t.Errorf("key without ttl must not expire: %v", err)
	}
}
