package kvstore_test

import (
	"context"
	"errors"
	"testing"

	kvstore "github.com/dalemusser/pmhub/internal/app/store/kv"
)

func TestMemory_GetMissing(t *testing.T) {
	m := kvstore.NewMemory()
	_, err := m.Get(context.Background(), "nope")
	if !errors.Is(err, kvstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	m := kvstore.NewMemory()

	if err := m.Set(ctx, "k", "one"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Set(ctx, "k", "two"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "two" {
		t.Errorf("Get: got %q, want %q", got, "two")
	}
	if m.Writes() != 2 {
		t.Errorf("Writes: got %d, want 2", m.Writes())
	}

	if err := m.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after Remove, got %v", err)
	}
	if err := m.Remove(ctx, "k"); err != nil {
		t.Errorf("Remove of missing key should succeed, got %v", err)
	}
}
