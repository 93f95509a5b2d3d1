package swrcache

import "testing"

func TestKeyBuilderRoundTrip(t *testing.T) {
	k, err := newKey("user", "profile", "v2", "en-US", "1")
	if err != nil {
		t.Fatalf("newKey: %v", err)
	}

	rebuilt, err := NewKeyBuilder().mustFromString(t, k.String()).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rebuilt.String() != k.String() {
		t.Fatalf("round-trip mismatch: %q != %q", rebuilt.String(), k.String())
	}
}

func TestKeyBuilderFromStringPositional(t *testing.T) {
	b, err := NewKeyBuilder().FromString("user/profile/v2/en-US/1")
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	if b.domain != "user" || b.facet != "profile" || b.schemaVersion != "v2" || b.locale != "en-US" {
		t.Fatalf("unexpected builder state: %+v", b)
	}
}

func TestKeyBuilderFromStringTooFewSegments(t *testing.T) {
	if _, err := NewKeyBuilder().FromString("user/profile"); err == nil {
		t.Fatalf("expected error for too few segments")
	}
}

func TestKeyBuilderBuildRequiresID(t *testing.T) {
	if _, err := NewKeyBuilder().WithDomain("user").WithFacet("profile").Build(); err == nil {
		t.Fatalf("expected error when id is not set")
	}
}

func TestKeyBuilderFromKey(t *testing.T) {
	k, err := newKey("user", "profile", "v2", "en-US", "1")
	if err != nil {
		t.Fatalf("newKey: %v", err)
	}
	rebuilt, err := NewKeyBuilder().FromKey(k).WithLocale("fr-FR").Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rebuilt.Locale() != "fr-FR" {
		t.Fatalf("expected overridden locale, got %q", rebuilt.Locale())
	}
	if rebuilt.Domain() != "user" {
		t.Fatalf("expected carried-over domain, got %q", rebuilt.Domain())
	}
}

// mustFromString is a small test-only helper to keep call sites in this file
// free of repeated error plumbing.
func (b *KeyBuilder) mustFromString(t *testing.T, keyString string) *KeyBuilder {
	t.Helper()
	out, err := b.FromString(keyString)
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	return out
}
