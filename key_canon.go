package swrcache

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
)

// canonicalIDString serializes an id value into the deterministic idString
// described in spec.md §3.1. Scalars serialize to their string form; composite
// ids (nested maps/slices) canonicalize by recursively sorting map keys,
// marshal to JSON, then base64url-encode (no padding) with a "j:" prefix.
func canonicalIDString(id any) (string, error) {
	switch v := id.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
		return fmt.Sprintf("%v", v), nil
	case map[string]any, []any:
		canon, err := canonicalize(v)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(canon)
		if err != nil {
			return "", fmt.Errorf("canonicalize id: %w", err)
		}
		return "j:" + base64.RawURLEncoding.EncodeToString(b), nil
	default:
		return "", fmt.Errorf("unsupported id type %T", id)
	}
}

// canonicalize walks a composite id tree (maps and slices of scalars/maps)
// and produces a value whose JSON encoding is stable regardless of the
// original map insertion order. encoding/json already sorts map[string]any
// keys on marshal, so canonicalize's job is to recurse through nested slices
// and maps consistently and reject unsupported leaf types early.
func canonicalize(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c, err := canonicalize(x[k])
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			c, err := canonicalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool, nil:
		return x, nil
	default:
		return nil, fmt.Errorf("unsupported composite id leaf type %T", x)
	}
}

// rawURLEncode percent-encodes a single path segment per spec.md §6.3's
// rawurlencode requirement: every byte except A-Z a-z 0-9 - _ . ~ becomes
// %XX (uppercase hex), so space becomes %20 (not "+"), and "/" is escaped
// so segment boundaries stay unambiguous when segments are joined on "/".
func rawURLEncode(s string) string {
	const hexDigits = "0123456789ABCDEF"
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9', c == '-', c == '_', c == '.', c == '~':
			out = append(out, c)
		default:
			out = append(out, '%', hexDigits[c>>4], hexDigits[c&15])
		}
	}
	return string(out)
}

func rawURLDecode(s string) (string, error) {
	return url.PathUnescape(s)
}
