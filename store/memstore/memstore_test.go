package memstore

import (
	"context"
	"testing"
	"time"

	st "github.com/swrcache/swrcache/store"
)

func TestSaveAndReadPrecompute(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Save(ctx, "k1", []byte("v1"), time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	item, err := s.Read(ctx, "k1", st.ReadOptions{Mode: st.ModePrecompute, SoftSec: 60})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !item.Hit || string(item.Value) != "v1" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestPrecomputeReportsMissInsideSoftWindow(t *testing.T) {
	ctx := context.Background()
	s := New()

	// TTL of 1s with a 10s soft window means "now" is already inside the
	// soft window the instant it's written.
	if err := s.Save(ctx, "k1", []byte("v1"), time.Second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	item, err := s.Read(ctx, "k1", st.ReadOptions{Mode: st.ModePrecompute, SoftSec: 10})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if item.Hit {
		t.Fatalf("expected precompute mode to report a miss inside the soft window")
	}
}

func TestModeOldIgnoresSoftWindow(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Save(ctx, "k1", []byte("v1"), time.Second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	item, err := s.Read(ctx, "k1", st.ReadOptions{Mode: st.ModeOld})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !item.Hit {
		t.Fatalf("expected ModeOld to serve the stale value")
	}
}

func TestTryLockExclusive(t *testing.T) {
	ctx := context.Background()
	s := New()

	lock, ok, err := s.TryLock(ctx, "k1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first TryLock should succeed: ok=%v err=%v", ok, err)
	}

	_, ok2, err := s.TryLock(ctx, "k1", time.Minute)
	if err != nil || ok2 {
		t.Fatalf("second TryLock should fail while held: ok=%v err=%v", ok2, err)
	}

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("Release: %v", err)
	}

	_, ok3, err := s.TryLock(ctx, "k1", time.Minute)
	if err != nil || !ok3 {
		t.Fatalf("TryLock after release should succeed: ok=%v err=%v", ok3, err)
	}
}

func TestClearByPrefix(t *testing.T) {
	ctx := context.Background()
	s := New()

	keys := []string{
		"user/profile/v2/en-US/1",
		"user/profile/v1/en-US/1",
		"user/preferences/v2/en-US/1",
	}
	for _, k := range keys {
		if err := s.Save(ctx, k, []byte("v"), time.Hour); err != nil {
			t.Fatalf("Save(%q): %v", k, err)
		}
	}

	if err := s.ClearByPrefix(ctx, "user/profile/v2/en-US/"); err != nil {
		t.Fatalf("ClearByPrefix: %v", err)
	}

	gone, _ := s.Read(ctx, "user/profile/v2/en-US/1", st.ReadOptions{Mode: st.ModeOld})
	if gone.Hit {
		t.Fatalf("expected cleared key to be gone")
	}
	for _, k := range keys[1:] {
		item, _ := s.Read(ctx, k, st.ReadOptions{Mode: st.ModeOld})
		if !item.Hit {
			t.Fatalf("expected %q to survive the prefix clear", k)
		}
	}
}

func TestDeleteExact(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Save(ctx, "k1", []byte("v1"), time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.DeleteExact(ctx, "k1"); err != nil {
		t.Fatalf("DeleteExact: %v", err)
	}
	if err := s.DeleteExact(ctx, "k1"); err != nil {
		t.Fatalf("DeleteExact (idempotent): %v", err)
	}
	item, _ := s.Read(ctx, "k1", st.ReadOptions{Mode: st.ModeOld})
	if item.Hit {
		t.Fatalf("expected key to be gone")
	}
}
