package swrcache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	c "github.com/swrcache/swrcache/codec"
	"github.com/swrcache/swrcache/eventbus"
	st "github.com/swrcache/swrcache/store"
)

// CacheEngine implements the five-tier read pipeline and the
// put/refresh/invalidate write paths (spec.md §4.F). It is the orchestrator
// every other component exists to serve.
type CacheEngine[V any] struct {
	namespace     string
	store         st.StoreAdapter
	codec         c.Codec[V]
	loader        Loader[V]
	defaultPolicy GetPolicy
	jitter        Jitter
	logger        Logger
	metrics       Metrics
	hooks         Hooks
	bus           eventbus.EventBus

	lockTTL       time.Duration
	sleepPause    time.Duration
	sleepAttempts int

	sfg singleflight.Group

	closeOnce sync.Once
	closeMu   sync.RWMutex
	closed    bool
}

var _ Cache[any] = (*CacheEngine[any])(nil)

func newEngine[V any](opts Options[V]) (*CacheEngine[V], error) {
	if opts.Namespace == "" {
		return nil, ErrNamespaceRequired
	}
	if opts.Store == nil {
		return nil, ErrStoreRequired
	}
	if opts.Codec == nil {
		return nil, ErrCodecRequired
	}
	if opts.Loader == nil {
		return nil, ErrLoaderRequired
	}

	policy := opts.DefaultPolicy
	if policy.HardSec == 0 {
		policy = DefaultGetPolicy()
	}
	if err := policy.validate(); err != nil {
		return nil, err
	}

	jitter := opts.Jitter
	if jitter == nil {
		jitter = DefaultJitter
	}
	logger := opts.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NopMetrics{}
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}

	lockTTL := coalesce(opts.LockTTL, defaultLockTTL)
	if lockTTL < 0 || lockTTL > 300*time.Second {
		return nil, &ArgumentError{Field: "LockTTL", Reason: "must be in (0, 300s]"}
	}

	e := &CacheEngine[V]{
		namespace:     opts.Namespace,
		store:         opts.Store,
		codec:         opts.Codec,
		loader:        opts.Loader,
		defaultPolicy: policy,
		jitter:        jitter,
		logger:        logger,
		metrics:       metrics,
		hooks:         hooks,
		bus:           opts.EventBus,
		lockTTL:       lockTTL,
		sleepPause:    coalesce(opts.SleepPauseMs, defaultSleepPause),
		sleepAttempts: coalesce(opts.SleepAttempts, defaultSleepAttempts),
	}

	if e.bus != nil {
		e.bus.Subscribe(e.handleAsyncEvent)
	}
	return e, nil
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// tier2Outcome is the boxed result a single-flight-coalesced leader attempt
// hands back through singleflight.Group.Do, which only deals in `any`.
type tier2Outcome[V any] struct {
	led    bool // true if this call actually held the lock and ran the loader
	result ValueResult[V]
	err    error
}
