package swrcache

import "strings"

// Key is an immutable, hierarchical cache fingerprint. Two Keys built from
// semantically equal inputs produce byte-identical String() output, which is
// required for cross-process correctness: whichever process computes the key,
// the remote store sees the same row.
type Key struct {
	domain        string
	facet         string
	schemaVersion string
	locale        string
	id            any

	idString     string
	prefixSegs   []string
	prefixString string
	keyString    string
}

// NewKey builds a Key from a scalar id. Use KeyBuilder for composite ids or
// when schemaVersion/locale are needed.
func NewKey(domain, facet string, id string) (Key, error) {
	return newKey(domain, facet, "", "", id)
}

func newKey(domain, facet, schemaVersion, locale string, id any) (Key, error) {
	domain = strings.TrimSpace(domain)
	facet = strings.TrimSpace(facet)
	schemaVersion = strings.TrimSpace(schemaVersion)
	locale = strings.TrimSpace(locale)

	if domain == "" {
		return Key{}, &ArgumentError{Field: "domain", Reason: "must not be empty"}
	}
	if facet == "" {
		return Key{}, &ArgumentError{Field: "facet", Reason: "must not be empty"}
	}
	if id == nil {
		return Key{}, &ArgumentError{Field: "id", Reason: "must not be nil"}
	}
	if s, ok := id.(string); ok && strings.TrimSpace(s) == "" {
		return Key{}, &ArgumentError{Field: "id", Reason: "must not be empty"}
	}

	idStr, err := canonicalIDString(id)
	if err != nil {
		return Key{}, &ArgumentError{Field: "id", Reason: err.Error()}
	}

	segs := make([]string, 0, 4)
	segs = append(segs, domain, facet)
	if schemaVersion != "" {
		segs = append(segs, schemaVersion)
	}
	if locale != "" {
		segs = append(segs, locale)
	}

	k := Key{
		domain:        domain,
		facet:         facet,
		schemaVersion: schemaVersion,
		locale:        locale,
		id:            id,
		idString:      idStr,
		prefixSegs:    segs,
	}

	encoded := make([]string, len(segs))
	for i, s := range segs {
		encoded[i] = rawURLEncode(s)
	}
	k.prefixString = strings.Join(encoded, "/")
	k.keyString = k.prefixString + "/" + rawURLEncode(idStr)
	return k, nil
}

func (k Key) Domain() string        { return k.domain }
func (k Key) Facet() string         { return k.facet }
func (k Key) SchemaVersion() string { return k.schemaVersion }
func (k Key) Locale() string        { return k.locale }
func (k Key) ID() any               { return k.id }

// IDString returns the deterministic serialization of the id component.
func (k Key) IDString() string { return k.idString }

// String returns the full, storage-ready key string:
// rawurlencode(domain)/rawurlencode(facet)[/...]/rawurlencode(idString).
func (k Key) String() string { return k.keyString }

// PrefixString returns the hierarchical prefix (domain/facet[/schemaVersion][/locale])
// with each segment percent-encoded, suitable for ClearByPrefix.
func (k Key) PrefixString() string { return k.prefixString }

// Segments returns the full ordered, percent-decoded logical segments
// (domain, facet, [schemaVersion], [locale], idString).
func (k Key) Segments() []string {
	out := make([]string, 0, len(k.prefixSegs)+1)
	out = append(out, k.prefixSegs...)
	out = append(out, k.idString)
	return out
}

// PrefixSegments returns the ordered prefix segments without the id.
func (k Key) PrefixSegments() []string {
	out := make([]string, len(k.prefixSegs))
	copy(out, k.prefixSegs)
	return out
}
