package swrcache

import "context"

// Loader computes the value for a key on a cache miss or a soft-TTL
// expiry, per spec.md §4.B. On the leader path (Tier 2) the engine calls
// Resolve only while holding the store-backed lock, with concurrent
// in-process callers coalesced onto the lock holder by x/sync/singleflight.
// Tier 5 fail-open and Refresh call Resolve without the lock, so those calls
// can run concurrently with a leader's Resolve for the same key.
type Loader[V any] interface {
	Resolve(ctx context.Context, key Key) (V, error)
}

// LoaderFunc adapts a plain function to Loader, mirroring the stdlib
// http.HandlerFunc convention.
type LoaderFunc[V any] func(ctx context.Context, key Key) (V, error)

func (f LoaderFunc[V]) Resolve(ctx context.Context, key Key) (V, error) {
	return f(ctx, key)
}
