package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/dataapi/internal/db"
)

func TestHashRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if err := s.HSet(ctx, "k", map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("HSet: %v", err)
	}
	v, err := s.HGet(ctx, "k", "a")
	if err != nil || v != "1" {
		t.Errorf("HGet() = %q, %v, want 1, nil", v, err)
	}
	n, _ := s.HLen(ctx, "k")
	if n != 2 {
		t.Errorf("HLen() = %d, want 2", n)
	}

	all, _ := s.HGetAll(ctx, "k")
	all["c"] = "3"
	if n, _ := s.HLen(ctx, "k"); n != 2 {
		t.Error("HGetAll must return a copy")
	}
}

func TestHGet_Missing(t *testing.T) {
	s := NewStore()
	if _, err := s.HGet(context.Background(), "nope", "f"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("err = %v, want ErrKeyNotFound", err)
	}
}

func TestHSetNX(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	ok, _ := s.HSetNX(ctx, "k", "f", "first")
	if !ok {
		t.Fatal("first HSetNX should set")
	}
	ok, _ = s.HSetNX(ctx, "k", "f", "second")
	if ok {
		t.Fatal("second HSetNX should not set")
	}
	if v, _ := s.HGet(ctx, "k", "f"); v != "first" {
		t.Errorf("value = %q, want first", v)
	}
}

func TestHDel_RemovesEmptyHash(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_ = s.HSet(ctx, "k", map[string]string{"a": "1"})

	if err := s.HDel(ctx, "k", "a", "missing"); err != nil {
		t.Fatalf("HDel: %v", err)
	}
	if ok, _ := s.Exists(ctx, "k"); ok {
		t.Error("emptied hash should not exist")
	}
	if err := s.HDel(ctx, "absent", "a"); err != nil {
		t.Errorf("HDel on absent key: %v", err)
	}
}

func TestDelAndScan(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_ = s.HSet(ctx, "ns:a:docs", map[string]string{"x": "1"})
	_ = s.HSet(ctx, "ns:b:docs", map[string]string{"x": "1"})
	_ = s.HSet(ctx, "other", map[string]string{"x": "1"})

	keys, err := s.Scan(ctx, "ns:*")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(keys) != 2 || keys[0] != "ns:a:docs" || keys[1] != "ns:b:docs" {
		t.Errorf("Scan() = %v", keys)
	}

	_ = s.Del(ctx, "ns:a:docs")
	if ok, _ := s.Exists(ctx, "ns:a:docs"); ok {
		t.Error("key should be deleted")
	}
}

func TestScan_BadPattern(t *testing.T) {
	s := NewStore()
	_ = s.HSet(context.Background(), "k", map[string]string{"a": "1"})
	if _, err := s.Scan(context.Background(), "["); err == nil {
		t.Error("expected pattern error")
	}
}
