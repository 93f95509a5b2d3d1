package swrcache

import "strings"

// KeyBuilder is a stateful constructor for Key, per spec.md §4.G. Prefer
// NewKey for the common two-field case; KeyBuilder exists for callers that
// need SchemaVersion/Locale or must round-trip a stored keyString.
type KeyBuilder struct {
	domain        string
	facet         string
	schemaVersion string
	locale        string
	id            any
	idSet         bool
}

func NewKeyBuilder() *KeyBuilder { return &KeyBuilder{} }

func (b *KeyBuilder) WithDomain(domain string) *KeyBuilder { b.domain = domain; return b }
func (b *KeyBuilder) WithFacet(facet string) *KeyBuilder   { b.facet = facet; return b }

func (b *KeyBuilder) WithSchemaVersion(v string) *KeyBuilder { b.schemaVersion = v; return b }
func (b *KeyBuilder) WithLocale(v string) *KeyBuilder        { b.locale = v; return b }

func (b *KeyBuilder) WithID(id any) *KeyBuilder {
	b.id = id
	b.idSet = true
	return b
}

// FromKey seeds the builder from an existing Key, allowing selective
// field overrides before Build.
func (b *KeyBuilder) FromKey(k Key) *KeyBuilder {
	b.domain = k.domain
	b.facet = k.facet
	b.schemaVersion = k.schemaVersion
	b.locale = k.locale
	b.id = k.id
	b.idSet = true
	return b
}

// FromString parses a previously serialized keyString back into builder
// fields, per spec.md §4.G: split on "/", URL-decode each segment, and
// apply positional semantics — positions 0 and 1 are domain/facet
// (required), the last position is id, and any segments in between map to
// schemaVersion then locale, in that order.
func (b *KeyBuilder) FromString(keyString string) (*KeyBuilder, error) {
	raw := strings.Split(keyString, "/")
	if len(raw) < 3 {
		return nil, &ArgumentError{Field: "keyString", Reason: "too few segments"}
	}

	segs := make([]string, len(raw))
	for i, r := range raw {
		s, err := rawURLDecode(r)
		if err != nil {
			return nil, &ArgumentError{Field: "keyString", Reason: "invalid percent-encoding: " + err.Error()}
		}
		segs[i] = s
	}

	b.domain = segs[0]
	b.facet = segs[1]
	b.id = segs[len(segs)-1]
	b.idSet = true

	middle := segs[2 : len(segs)-1]
	if len(middle) > 0 {
		b.schemaVersion = middle[0]
	}
	if len(middle) > 1 {
		b.locale = middle[1]
	}
	return b, nil
}

// Build validates and constructs the Key. Domain, facet, and id must all
// have been set.
func (b *KeyBuilder) Build() (Key, error) {
	if !b.idSet {
		return Key{}, &ArgumentError{Field: "id", Reason: "required"}
	}
	return newKey(b.domain, b.facet, b.schemaVersion, b.locale, b.id)
}
