package swrcache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swrcache/swrcache/eventbus"
)

// GetMany reads every key independently, each through the full pipeline in
// its own goroutine. One key's outcome never fails the batch: a key whose
// pipeline returns an error (e.g. an unparsable keyString) gets a Miss, and
// decode, store, or loader failures play out per key exactly as in
// GetWithPolicy (resolved Open Question: per-key isolation over
// all-or-nothing).
func (e *CacheEngine[V]) GetMany(ctx context.Context, keyStrings []string) (map[string]ValueResult[V], error) {
	if e.isClosed() {
		return nil, ErrClosed
	}

	out := make(map[string]ValueResult[V], len(keyStrings))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, k := range keyStrings {
		wg.Add(1)
		go func(keyString string) {
			defer wg.Done()
			res, err := e.GetWithPolicy(ctx, keyString, e.defaultPolicy)
			if err != nil {
				res = missResult[V]()
			}
			mu.Lock()
			out[keyString] = res
			mu.Unlock()
		}(k)
	}
	wg.Wait()
	return out, nil
}

// Put writes value directly, bypassing the read pipeline entirely
// (spec.md §4.F "put(key, value): directly save(key, value, defaultPolicy)").
func (e *CacheEngine[V]) Put(ctx context.Context, keyString string, value V) error {
	if e.isClosed() {
		return ErrClosed
	}
	return e.save(ctx, keyString, value, e.defaultPolicy)
}

// Refresh recomputes keyString via the loader. SYNC runs inline; ASYNC
// dispatches a refresh event and returns immediately.
func (e *CacheEngine[V]) Refresh(ctx context.Context, keyString string, mode RefreshMode) error {
	if e.isClosed() {
		return ErrClosed
	}
	if mode == RefreshAsync && e.bus != nil {
		e.dispatchOrDrop(eventbus.AsyncEvent{ID: uuid.New(), Key: keyString, Exact: false, Kind: eventbus.EventRefresh})
		return nil
	}
	return e.refreshSync(ctx, keyString)
}

func (e *CacheEngine[V]) refreshSync(ctx context.Context, keyString string) error {
	key, err := parseKeyString(keyString)
	if err != nil {
		return err
	}
	v, err := e.loader.Resolve(ctx, key)
	if err != nil {
		e.hooks.LoaderFailed(keyString, err)
		return &LoaderError{Key: keyString, Err: err}
	}
	return e.save(ctx, keyString, v, e.defaultPolicy)
}

// Invalidate clears every entry whose keyString begins with prefixString
// (hierarchical, spec.md §3.1/§4.F).
//
// REFRESH_SYNC/REFRESH_ASYNC are accepted here (spec.md §3.2) but route
// identically to their DELETE_* counterparts: a loader resolves one
// concrete key at a time, so "refreshing" an unbounded prefix has no
// defined semantics — it degrades to a prefix clear, same as DELETE. The
// Kind=EventRefresh event tag is reserved for the single-key Refresh(key,
// ASYNC) path, where a concrete Key is always resolvable (spec.md §9's
// REDESIGN FLAGS note on this ambiguity).
func (e *CacheEngine[V]) Invalidate(ctx context.Context, prefixString string, policy InvalidatePolicy) error {
	if e.isClosed() {
		return ErrClosed
	}
	switch policy.resolvedMode() {
	case DeleteAsync, RefreshAsyncMode:
		if e.bus != nil {
			e.dispatchOrDrop(eventbus.AsyncEvent{ID: uuid.New(), Key: prefixString, Exact: false, Kind: eventbus.EventInvalidate})
			return nil
		}
		fallthrough
	default:
		if err := e.store.ClearByPrefix(ctx, prefixString); err != nil {
			e.hooks.InvalidateFailed(prefixString, err)
			return &InvalidateError{Key: prefixString, DeleteErr: err}
		}
		return nil
	}
}

// InvalidateExact removes exactly one entry, no prefix walk.
func (e *CacheEngine[V]) InvalidateExact(ctx context.Context, keyString string, policy InvalidatePolicy) error {
	if e.isClosed() {
		return ErrClosed
	}
	if policy.resolvedMode() == DeleteAsync && e.bus != nil {
		e.dispatchOrDrop(eventbus.AsyncEvent{ID: uuid.New(), Key: keyString, Exact: true, Kind: eventbus.EventInvalidate})
		return nil
	}
	if err := e.store.DeleteExact(ctx, keyString); err != nil {
		e.hooks.InvalidateFailed(keyString, err)
		return &InvalidateError{Key: keyString, DeleteErr: err}
	}
	return nil
}

// BumpNamespace is an alias for a scoped, synchronous Invalidate
// (spec.md §6.4).
func (e *CacheEngine[V]) BumpNamespace(ctx context.Context, prefixString string) error {
	return e.Invalidate(ctx, prefixString, DefaultInvalidatePolicy())
}

func (e *CacheEngine[V]) Close(ctx context.Context) error {
	var err error
	e.closeOnce.Do(func() {
		e.closeMu.Lock()
		e.closed = true
		e.closeMu.Unlock()

		if e.bus != nil {
			if cerr := e.bus.Close(); cerr != nil {
				err = cerr
			}
		}
		if serr := e.store.Close(ctx); serr != nil && err == nil {
			err = serr
		}
	})
	return err
}

func (e *CacheEngine[V]) isClosed() bool {
	e.closeMu.RLock()
	defer e.closeMu.RUnlock()
	return e.closed
}

// save computes a jittered hard TTL, encodes value via the codec, and
// writes it to the store. Jitter is applied to the hard TTL only
// (spec.md §4.F "save(key, value, policy)").
func (e *CacheEngine[V]) save(ctx context.Context, keyString string, value V, policy GetPolicy) error {
	b, err := e.codec.Encode(value)
	if err != nil {
		return &StoreError{Op: "encode", Key: keyString, Err: err}
	}
	ttlSec := e.jitter.Apply(policy.HardSec, keyString)
	ttl := time.Duration(ttlSec) * time.Second
	if err := e.store.Save(ctx, keyString, b, ttl); err != nil {
		return &StoreError{Op: "save", Key: keyString, Err: err}
	}
	return nil
}

// dispatchOrDrop reports a drop via Hooks if the bus' queue was full. The
// bus itself decides drop policy; the engine only needs to surface it.
func (e *CacheEngine[V]) dispatchOrDrop(event eventbus.AsyncEvent) {
	if !e.bus.Dispatch(event) {
		e.hooks.EventDropped(event.Key, event.Exact)
	}
}

// handleAsyncEvent is the engine's EventBus subscription. It translates a
// dispatched event back into its SYNC counterpart — the strict invariant
// that keeps invalidate/refresh from ever re-dispatching is enforced simply
// by never calling e.bus.Dispatch from within this function.
func (e *CacheEngine[V]) handleAsyncEvent(event eventbus.AsyncEvent) {
	ctx := context.Background()
	var err error
	switch {
	case event.Kind == eventbus.EventRefresh:
		err = e.refreshSync(ctx, event.Key)
	case event.Exact:
		err = e.store.DeleteExact(ctx, event.Key)
	default:
		err = e.store.ClearByPrefix(ctx, event.Key)
	}
	if err != nil {
		e.hooks.InvalidateFailed(event.Key, err)
		e.logger.Error("async event handler failed", Fields{"key": event.Key, "error": err.Error()})
	}
}

func parseKeyString(keyString string) (Key, error) {
	b, err := NewKeyBuilder().FromString(keyString)
	if err != nil {
		return Key{}, err
	}
	return b.Build()
}
