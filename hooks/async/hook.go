// Package asynchook wraps a swrcache.Hooks so every callback runs off a
// bounded worker pool instead of inline on the engine's hot path. Ported
// directly from the teacher's own hooks/async package — same queue-plus-
// worker-goroutines shape, same drop-on-full semantics — rewired from the
// CAS Hooks vocabulary to the SWR Hooks vocabulary.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    LoaderFailedEvery: 10, // sample logs: ~every 10th loader failure
//	    LockTimeoutEvery:  50,
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := swrcache.New[User](swrcache.Options[User]{
//	    Namespace: "app:prod:user",
//	    Store:     store,
//	    Codec:     codec.JSONCodec[User]{},
//	    Loader:    loader,
//	    Hooks:     hooks,
//	})
package asynchook

import (
	"sync"

	"github.com/swrcache/swrcache"
)

type Hooks struct {
	inner swrcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ swrcache.Hooks = (*Hooks)(nil)

func New(inner swrcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) LoaderFailed(key string, err error) { h.try(func() { h.inner.LoaderFailed(key, err) }) }
func (h *Hooks) StoreUnavailable(op, key string, err error) {
	h.try(func() { h.inner.StoreUnavailable(op, key, err) })
}
func (h *Hooks) LockTimeout(key string) { h.try(func() { h.inner.LockTimeout(key) }) }
func (h *Hooks) SelfHeal(key, reason string) { h.try(func() { h.inner.SelfHeal(key, reason) }) }
func (h *Hooks) InvalidateFailed(key string, err error) {
	h.try(func() { h.inner.InvalidateFailed(key, err) })
}
func (h *Hooks) EventDropped(key string, exact bool) {
	h.try(func() { h.inner.EventDropped(key, exact) })
}
