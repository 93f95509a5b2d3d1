package swrcache

// RefreshMode controls how Refresh recomputes a key. GetWithPolicy does not
// read GetPolicy.RefreshMode.
type RefreshMode int

const (
	// RefreshSync recomputes inline, on the calling goroutine: it calls
	// Loader.Resolve directly and saves the result, without the lock or the
	// tier pipeline.
	RefreshSync RefreshMode = iota
	// RefreshAsync dispatches an AsyncEvent{Exact:false, Kind:EventRefresh}
	// and returns immediately; a bus worker then runs the synchronous
	// refresh. Without an EventBus it behaves like RefreshSync.
	RefreshAsync
)

// FailMode controls Tier 5 behavior once no leader/follower path produced a
// value within the wait bound.
type FailMode int

const (
	// FailOpen computes the value directly against the loader, without
	// acquiring a lock or writing it to the store (spec.md §3.2/§4.D "no
	// save in fail-open").
	FailOpen FailMode = iota
	// FailClosed returns a Miss rather than invoking the loader.
	FailClosed
)

// InvalidateMode selects how Invalidate/InvalidateExact/BumpNamespace
// execute, per spec.md §3.2.
type InvalidateMode int

const (
	// InvalidateDefault is DeleteSync under the hood — present as a
	// distinct value so callers can express "use whatever this engine
	// considers standard" without hardcoding DeleteSync.
	InvalidateDefault InvalidateMode = iota
	DeleteSync
	DeleteAsync
	RefreshSyncMode
	RefreshAsyncMode
)

// GetPolicy governs a single Get/GetMany call's tier pipeline, per spec.md
// §3.2. Zero-value policies are invalid — use DefaultGetPolicy or With*
// derivation.
type GetPolicy struct {
	HardSec     int
	SoftSec     int
	RefreshMode RefreshMode
	FailMode    FailMode
}

// DefaultGetPolicy returns the engine's baked-in default (30s soft / 5m
// hard, synchronous refresh, fail-open).
func DefaultGetPolicy() GetPolicy {
	return GetPolicy{
		HardSec:     int(defaultHardTTL.Seconds()),
		SoftSec:     int(defaultSoftTTL.Seconds()),
		RefreshMode: RefreshSync,
		FailMode:    FailOpen,
	}
}

// WithHardSec returns a copy of p with HardSec replaced.
func (p GetPolicy) WithHardSec(sec int) GetPolicy { p.HardSec = sec; return p }

// WithSoftSec returns a copy of p with SoftSec replaced.
func (p GetPolicy) WithSoftSec(sec int) GetPolicy { p.SoftSec = sec; return p }

// WithRefreshMode returns a copy of p with RefreshMode replaced.
func (p GetPolicy) WithRefreshMode(m RefreshMode) GetPolicy { p.RefreshMode = m; return p }

// WithFailMode returns a copy of p with FailMode replaced.
func (p GetPolicy) WithFailMode(m FailMode) GetPolicy { p.FailMode = m; return p }

// validate enforces spec.md §8.1 invariant 2: Soft<=Hard, and HardSec>=1.
func (p GetPolicy) validate() error {
	if p.HardSec < 1 {
		return &ArgumentError{Field: "HardSec", Reason: "must be >= 1"}
	}
	if p.SoftSec < 0 || p.SoftSec > p.HardSec {
		return &ArgumentError{Field: "SoftSec", Reason: "must be in [0, HardSec]"}
	}
	return nil
}

// InvalidatePolicy governs Invalidate/InvalidateExact/BumpNamespace, per
// spec.md §3.2.
type InvalidatePolicy struct {
	Mode              InvalidateMode
	CascadeNamespaces bool
}

// DefaultInvalidatePolicy returns a synchronous delete policy with no
// namespace cascade.
func DefaultInvalidatePolicy() InvalidatePolicy {
	return InvalidatePolicy{Mode: InvalidateDefault, CascadeNamespaces: false}
}

// WithMode returns a copy of p with Mode replaced.
func (p InvalidatePolicy) WithMode(m InvalidateMode) InvalidatePolicy { p.Mode = m; return p }

// WithCascadeNamespaces returns a copy of p with CascadeNamespaces replaced.
func (p InvalidatePolicy) WithCascadeNamespaces(v bool) InvalidatePolicy {
	p.CascadeNamespaces = v
	return p
}

// resolvedMode maps InvalidateDefault onto DeleteSync, per spec.md §3.2's
// "DEFAULT" mode alias.
func (p InvalidatePolicy) resolvedMode() InvalidateMode {
	if p.Mode == InvalidateDefault {
		return DeleteSync
	}
	return p.Mode
}
