package swrcache

import (
	"context"
	"time"

	st "github.com/swrcache/swrcache/store"
)

// Get runs the five-tier pipeline against the engine's default policy.
func (e *CacheEngine[V]) Get(ctx context.Context, keyString string) (ValueResult[V], error) {
	return e.GetWithPolicy(ctx, keyString, e.defaultPolicy)
}

// GetWithPolicy implements spec.md §4.F's five-tier pipeline verbatim:
// fresh hit, leader compute (single-flight), follower-serve-stale,
// follower-bounded-wait, then fail-open/fail-closed.
func (e *CacheEngine[V]) GetWithPolicy(ctx context.Context, keyString string, policy GetPolicy) (ValueResult[V], error) {
	if err := policy.validate(); err != nil {
		return ValueResult[V]{}, err
	}
	if e.isClosed() {
		return ValueResult[V]{}, ErrClosed
	}

	// Tier 1 — fresh hit.
	if v, ok, err := e.tier1(ctx, keyString, policy); err != nil {
		e.logStoreErr("read", keyString, err)
	} else if ok {
		return v, nil
	}

	// Tier 2 — leader compute, single-flight-coalesced across in-process
	// callers. Only the genuine flight-runner (the call whose closure ran)
	// may return this outcome directly; piggy-backers fall through exactly
	// like a lock-loser, regardless of what the leader achieved (spec.md
	// §8.1 property 5). singleflight reports shared=true to the runner as
	// well once others joined, so the runner is identified by ranFlight.
	ranFlight := false
	resAny, _, _ := e.sfg.Do(keyString, func() (any, error) {
		ranFlight = true
		return e.tier2(ctx, keyString, policy), nil
	})
	outcome := resAny.(tier2Outcome[V])
	if ranFlight && outcome.led {
		return outcome.result, outcome.err
	}

	// Tier 3 — follower: serve stale.
	if v, ok, err := e.tier3(ctx, keyString, policy); err != nil {
		e.logStoreErr("read", keyString, err)
	} else if ok {
		return v, nil
	}

	// Tier 4 — follower: bounded wait.
	if v, ok, err := e.tier4(ctx, keyString, policy); err != nil {
		e.logStoreErr("read", keyString, err)
	} else if ok {
		return v, nil
	}

	// Tier 5 — fail-open / fail-closed.
	return e.tier5(ctx, keyString, policy)
}

func (e *CacheEngine[V]) tier1(ctx context.Context, keyString string, policy GetPolicy) (ValueResult[V], bool, error) {
	item, err := e.store.Read(ctx, keyString, st.ReadOptions{Mode: st.ModePrecompute, SoftSec: policy.SoftSec})
	if err != nil {
		return ValueResult[V]{}, false, err
	}
	if !item.Hit {
		return ValueResult[V]{}, false, nil
	}
	v, ok := e.decodeOrHeal(ctx, keyString, item.Value)
	if !ok {
		return ValueResult[V]{}, false, nil
	}
	soft := maxTime(item.CreatedAt, item.HardExpiresAt.Add(-time.Duration(policy.SoftSec)*time.Second))
	e.metrics.IncCounter(metricCacheHit, map[string]string{"state": "fresh"})
	return hitResult(v, item.CreatedAt, soft, false, false), true, nil
}

func (e *CacheEngine[V]) tier2(ctx context.Context, keyString string, policy GetPolicy) tier2Outcome[V] {
	lock, ok, err := e.store.TryLock(ctx, keyString, e.lockTTL)
	if err != nil {
		e.hooks.StoreUnavailable("try_lock", keyString, err)
		return tier2Outcome[V]{led: false}
	}
	if !ok {
		e.hooks.LockTimeout(keyString)
		return tier2Outcome[V]{led: false}
	}
	defer func() { _ = lock.Release(ctx) }()

	key, kerr := parseKeyString(keyString)
	if kerr != nil {
		return tier2Outcome[V]{led: true, err: kerr}
	}

	v, lerr := e.loader.Resolve(ctx, key)
	if lerr != nil {
		e.hooks.LoaderFailed(keyString, lerr)
		e.logger.Error("loader failed", Fields{"key": keyString, "error": lerr.Error()})
		e.metrics.IncCounter(metricCacheMiss, map[string]string{"cause": "loader_failed"})
		return tier2Outcome[V]{led: true, result: missResult[V]()}
	}

	if err := e.save(ctx, keyString, v, policy); err != nil {
		e.hooks.StoreUnavailable("save", keyString, err)
	}

	now := time.Now()
	hard := now.Add(time.Duration(policy.HardSec) * time.Second)
	soft := maxTime(now, hard.Add(-time.Duration(policy.SoftSec)*time.Second))
	e.metrics.IncCounter(metricCacheFill, nil)
	return tier2Outcome[V]{led: true, result: hitResult(v, now, soft, false, false)}
}

func (e *CacheEngine[V]) tier3(ctx context.Context, keyString string, policy GetPolicy) (ValueResult[V], bool, error) {
	item, err := e.store.Read(ctx, keyString, st.ReadOptions{Mode: st.ModeOld})
	if err != nil {
		return ValueResult[V]{}, false, err
	}
	if !item.Hit {
		return ValueResult[V]{}, false, nil
	}
	v, ok := e.decodeOrHeal(ctx, keyString, item.Value)
	if !ok {
		return ValueResult[V]{}, false, nil
	}
	soft := maxTime(item.CreatedAt, item.HardExpiresAt.Add(-time.Duration(policy.SoftSec)*time.Second))
	e.metrics.IncCounter(metricCacheHit, map[string]string{"state": "stale"})
	return hitResult(v, item.CreatedAt, soft, true, false), true, nil
}

func (e *CacheEngine[V]) tier4(ctx context.Context, keyString string, policy GetPolicy) (ValueResult[V], bool, error) {
	item, err := e.store.Read(ctx, keyString, st.ReadOptions{
		Mode:        st.ModeSleep,
		SoftSec:     policy.SoftSec,
		PauseMs:     e.sleepPause,
		MaxAttempts: e.sleepAttempts,
	})
	if err != nil {
		return ValueResult[V]{}, false, err
	}
	if !item.Hit {
		return ValueResult[V]{}, false, nil
	}
	v, ok := e.decodeOrHeal(ctx, keyString, item.Value)
	if !ok {
		return ValueResult[V]{}, false, nil
	}
	soft := maxTime(item.CreatedAt, item.HardExpiresAt.Add(-time.Duration(policy.SoftSec)*time.Second))
	e.metrics.IncCounter(metricCacheHit, map[string]string{"state": "fresh_after_sleep"})
	return hitResult(v, item.CreatedAt, soft, false, true), true, nil
}

// tier5 is fail-open/fail-closed. Fail-open computes a value directly
// against the loader for this caller only and deliberately does NOT save it
// — spec.md §4.F's documented "no save in fail-open" design choice avoids a
// double-write race against whichever leader is about to finish.
func (e *CacheEngine[V]) tier5(ctx context.Context, keyString string, policy GetPolicy) (ValueResult[V], error) {
	if policy.FailMode == FailClosed {
		e.metrics.IncCounter(metricCacheMiss, map[string]string{"cause": "precompute_race_fail_closed"})
		return missResult[V](), nil
	}

	key, err := parseKeyString(keyString)
	if err != nil {
		return ValueResult[V]{}, err
	}
	v, err := e.loader.Resolve(ctx, key)
	if err != nil {
		e.hooks.LoaderFailed(keyString, err)
		e.logger.Error("loader failed", Fields{"key": keyString, "error": err.Error()})
		e.metrics.IncCounter(metricCacheMiss, map[string]string{"cause": "loader_failed"})
		return missResult[V](), nil
	}

	now := time.Now()
	hard := now.Add(time.Duration(policy.HardSec) * time.Second)
	soft := maxTime(now, hard.Add(-time.Duration(policy.SoftSec)*time.Second))
	e.metrics.IncCounter(metricCacheMiss, map[string]string{"cause": "precompute_race"})
	return hitResult(v, now, soft, false, false), nil
}

// decodeOrHeal decodes raw store bytes, deleting the entry and reporting a
// self-heal if decoding fails, per the corruption-handling convention
// inherited from the teacher's bulk-rejection/self-heal hooks vocabulary.
func (e *CacheEngine[V]) decodeOrHeal(ctx context.Context, keyString string, raw []byte) (V, bool) {
	v, err := e.codec.Decode(raw)
	if err != nil {
		e.hooks.SelfHeal(keyString, "codec_error")
		e.logger.Warn("self-heal: undecodable payload", Fields{"key": keyString, "error": err.Error()})
		_ = e.store.DeleteExact(ctx, keyString)
		var zero V
		return zero, false
	}
	return v, true
}

func (e *CacheEngine[V]) logStoreErr(op, keyString string, err error) {
	e.hooks.StoreUnavailable(op, keyString, err)
	e.logger.Warn("store unavailable", Fields{"op": op, "key": keyString, "error": err.Error()})
}
