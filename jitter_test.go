package swrcache

import "testing"

func TestJitterDeterministic(t *testing.T) {
	j := NewJitter(10)
	a := j.Apply(300, "user/profile/v2/1")
	b := j.Apply(300, "user/profile/v2/1")
	if a != b {
		t.Fatalf("jitter not deterministic: %d != %d", a, b)
	}
}

func TestJitterBounds(t *testing.T) {
	percent := 10
	j := NewJitter(percent)
	ttl := 300
	delta := ttl * percent / 100

	got := j.Apply(ttl, "some/key/1")
	lo := max(1, ttl-delta)
	hi := ttl + delta
	if got < lo || got > hi {
		t.Fatalf("jitter.Apply(%d,...) = %d, want in [%d,%d]", ttl, got, lo, hi)
	}
}

func TestJitterZeroPercentIsIdentity(t *testing.T) {
	j := NewJitter(0)
	if got := j.Apply(300, "k"); got != 300 {
		t.Fatalf("zero-percent jitter should be identity, got %d", got)
	}
}

func TestJitterSmallTTLFloor(t *testing.T) {
	j := NewJitter(10)
	// delta = floor(1*10/100) = 0 -> returns max(1, ttlSec).
	if got := j.Apply(1, "k"); got != 1 {
		t.Fatalf("expected floor to 1, got %d", got)
	}
}

func TestJitterDesynchronizesAcrossKeys(t *testing.T) {
	j := NewJitter(50)
	seen := map[int]bool{}
	for i := 0; i < 20; i++ {
		k := string(rune('a' + i))
		seen[j.Apply(100, k)] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected jitter to spread across distinct keys, got one value for all")
	}
}
