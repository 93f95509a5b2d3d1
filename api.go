package swrcache

import (
	"context"
	"time"

	c "github.com/swrcache/swrcache/codec"
	"github.com/swrcache/swrcache/eventbus"
	st "github.com/swrcache/swrcache/store"
)

// Cache is the public surface of the stale-while-revalidate engine, per
// spec.md §6.4. V is the caller's value type; serialization is handled by
// a pluggable codec.Codec[V].
type Cache[V any] interface {
	// Get runs the five-tier read pipeline against DefaultPolicy.
	Get(ctx context.Context, keyString string) (ValueResult[V], error)
	// GetWithPolicy runs the five-tier pipeline against an explicit policy.
	GetWithPolicy(ctx context.Context, keyString string, policy GetPolicy) (ValueResult[V], error)
	// GetMany reads every key independently; one key's failure never fails
	// the batch (spec.md Open Question, resolved: per-key isolation).
	GetMany(ctx context.Context, keyStrings []string) (map[string]ValueResult[V], error)

	Put(ctx context.Context, keyString string, value V) error
	Refresh(ctx context.Context, keyString string, mode RefreshMode) error

	// Invalidate clears every entry whose keyString begins with the
	// selector's prefix (hierarchical, spec.md §3.1/§4.F).
	Invalidate(ctx context.Context, prefixString string, policy InvalidatePolicy) error
	InvalidateExact(ctx context.Context, keyString string, policy InvalidatePolicy) error
	// BumpNamespace is an alias for a scoped Invalidate (spec.md §6.4).
	BumpNamespace(ctx context.Context, prefixString string) error

	Close(ctx context.Context) error
}

// Options configure a CacheEngine. Only Namespace, Store, Codec, and
// Loader are required; everything else has a documented default.
type Options[V any] struct {
	Namespace string
	Store     st.StoreAdapter
	Codec     c.Codec[V]
	Loader    Loader[V]

	DefaultPolicy GetPolicy // zero value => DefaultGetPolicy()
	Jitter        Jitter    // nil => DefaultJitter
	Logger        Logger    // nil => NopLogger
	Metrics       Metrics   // nil => NopMetrics
	Hooks         Hooks     // nil => NopHooks
	EventBus      eventbus.EventBus // nil => no async dispatch; ASYNC modes degrade to SYNC

	LockTTL       time.Duration // 0 => 10s; New rejects values < 0 or > 300s
	SleepPauseMs  time.Duration // 0 => 150ms (spec.md §4.F Tier 4 default)
	SleepAttempts int           // 0 => 6    (spec.md §4.F Tier 4 default)
}

// New constructs a Cache backed by a CacheEngine.
func New[V any](opts Options[V]) (Cache[V], error) {
	return newEngine[V](opts)
}
