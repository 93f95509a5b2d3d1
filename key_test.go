package swrcache

import "testing"

func TestNewKeyDeterministic(t *testing.T) {
	k1, err := NewKey("product", "item", "12345")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	k2, err := NewKey("product", "item", "12345")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	if k1.String() != k2.String() {
		t.Fatalf("expected byte-identical keyStrings, got %q and %q", k1.String(), k2.String())
	}
}

func TestNewKeyRejectsEmptySegments(t *testing.T) {
	cases := []struct {
		domain, facet, id string
	}{
		{"", "item", "1"},
		{"product", "", "1"},
		{"product", "item", ""},
		{"  ", "item", "1"},
	}
	for _, c := range cases {
		if _, err := NewKey(c.domain, c.facet, c.id); err == nil {
			t.Fatalf("expected error for domain=%q facet=%q id=%q", c.domain, c.facet, c.id)
		}
	}
}

func TestKeyCompositeIDOrderIndependent(t *testing.T) {
	k1, err := newKey("product", "item", "", "", map[string]any{"a": 1, "b": "x"})
	if err != nil {
		t.Fatalf("newKey: %v", err)
	}
	k2, err := newKey("product", "item", "", "", map[string]any{"b": "x", "a": 1})
	if err != nil {
		t.Fatalf("newKey: %v", err)
	}
	if k1.String() != k2.String() {
		t.Fatalf("composite id key ordering should not affect keyString: %q != %q", k1.String(), k2.String())
	}
}

func TestKeySegmentsAndPrefix(t *testing.T) {
	k, err := newKey("user", "profile", "v2", "en-US", "1")
	if err != nil {
		t.Fatalf("newKey: %v", err)
	}
	want := "user/profile/v2/en-US/1"
	if k.String() != want {
		t.Fatalf("keyString = %q, want %q", k.String(), want)
	}
	if k.PrefixString() != "user/profile/v2/en-US" {
		t.Fatalf("prefixString = %q", k.PrefixString())
	}
}

func TestKeyAccessors(t *testing.T) {
	k, err := newKey("user", "profile", "v2", "en-US", "1")
	if err != nil {
		t.Fatalf("newKey: %v", err)
	}
	if k.Domain() != "user" || k.Facet() != "profile" || k.SchemaVersion() != "v2" || k.Locale() != "en-US" {
		t.Fatalf("unexpected accessors: %+v", k)
	}
}
