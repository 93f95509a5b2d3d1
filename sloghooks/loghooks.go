// Package sloghooks is a sampled, key-redacting slog-based swrcache.Hooks
// implementation, grounded on the teacher's own sloghooks package (same
// sampling counters, same sha256 key-redaction default), rewired from the
// CAS generation vocabulary (SelfHealSingle/BulkRejected/GenBumpError/...)
// to the SWR tier vocabulary (LoaderFailed/StoreUnavailable/LockTimeout/...).
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/swrcache/swrcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	LoaderFailedEvery uint64
	LockTimeoutEvery  uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	loaderFailedCtr atomic.Uint64
	lockTimeoutCtr  atomic.Uint64
}

var _ swrcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) LoaderFailed(key string, err error) {
	if h.l == nil || !sample(h.opts.LoaderFailedEvery, &h.loaderFailedCtr) {
		return
	}
	h.l.Warn("swrcache.loader_failed", "key", h.redact(key), "err", err)
}

func (h *Hooks) StoreUnavailable(op, key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("swrcache.store_unavailable", "op", op, "key", h.redact(key), "err", err)
}

func (h *Hooks) LockTimeout(key string) {
	if h.l == nil || !sample(h.opts.LockTimeoutEvery, &h.lockTimeoutCtr) {
		return
	}
	h.l.Debug("swrcache.lock_timeout", "key", h.redact(key))
}

func (h *Hooks) SelfHeal(key, reason string) {
	if h.l == nil {
		return
	}
	h.l.Warn("swrcache.self_heal", "key", h.redact(key), "reason", reason)
}

func (h *Hooks) InvalidateFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("swrcache.invalidate_failed", "key", h.redact(key), "err", err)
}

func (h *Hooks) EventDropped(key string, exact bool) {
	if h.l == nil {
		return
	}
	h.l.Warn("swrcache.event_dropped", "key", h.redact(key), "exact", exact)
}
