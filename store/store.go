// Package store defines the remote-store abstraction the engine runs its
// five-tier pipeline against (spec.md §4.E). It is modeled directly on the
// teacher's provider package — same byte-for-byte transparency contract,
// same TTL-at-the-edge design — generalized from a flat get/set/del to the
// read-mode and lock vocabulary the stale-while-revalidate pipeline needs.
//
// The source spec exposes storage as a stateful ItemHandle that callers
// `configure` with a mode before reading. Go favors explicit parameters
// over a builder object for a value read once, so that handle collapses
// into a single Read call parameterized by ReadOptions; TryLock returns a
// Lock capability instead of mutating the handle in place, so callers
// acquire it with `defer lock.Release(ctx)` and get release-on-every-path
// for free (spec.md §4.E "Lock lifecycle" / §9 "Scoped resource").
package store

import (
	"context"
	"time"
)

// Mode selects how Read interprets a stored entry's freshness.
type Mode int

const (
	// ModePrecompute reports IsHit=false once now >= HardExpiresAt-SoftSec,
	// even though a value is physically present, so the engine's Tier 1
	// treats an entry inside its soft window as a miss and proceeds to
	// Tier 2 (leader compute).
	ModePrecompute Mode = iota
	// ModeOld returns whatever is physically stored, ignoring soft TTL —
	// used by Tier 3 to serve a stale value while another process holds
	// the lock.
	ModeOld
	// ModeSleep blocks, polling at PauseMs intervals up to MaxAttempts
	// times, waiting for another process's lock to release and a fresh
	// value to land. Bounded: PauseMs*MaxAttempts is a hard upper bound on
	// wait time, never an unbounded wait.
	ModeSleep
)

// ReadOptions parameterizes a Read call with the mode-specific fields the
// source's ItemHandle.configure(...) variants each needed.
type ReadOptions struct {
	Mode Mode

	// SoftSec is the soft-TTL window width, used only by ModePrecompute.
	SoftSec int

	// PauseMs and MaxAttempts bound a ModeSleep poll loop. Their product is
	// the maximum time Read may block.
	PauseMs     time.Duration
	MaxAttempts int
}

// Item is the result of a Read call.
type Item struct {
	Hit           bool
	Value         []byte
	CreatedAt     time.Time
	HardExpiresAt time.Time
}

// Lock is a scoped resource returned by a successful TryLock. Callers MUST
// call Release on every exit path, typically via defer immediately after a
// successful acquisition.
type Lock interface {
	Release(ctx context.Context) error
}

// StoreAdapter abstracts the remote store the engine reads/writes/locks
// against. Implementations MUST be byte-for-byte transparent for Value
// payloads (no re-encoding, no added metadata) and safe for concurrent use.
type StoreAdapter interface {
	// Read fetches the entry for keyString, interpreted per opts.Mode.
	Read(ctx context.Context, keyString string, opts ReadOptions) (Item, error)

	// TryLock attempts to acquire an exclusive per-key lock with SET-NX-EX
	// semantics bounded by ttl. ok=false means another process (or another
	// in-process caller) already holds it — this is ordinary, expected
	// contention, not an error.
	TryLock(ctx context.Context, keyString string, ttl time.Duration) (lock Lock, ok bool, err error)

	// Save stores value under keyString with the given hard-TTL.
	Save(ctx context.Context, keyString string, value []byte, ttl time.Duration) error

	// DeleteExact removes exactly one entry, no prefix walk.
	DeleteExact(ctx context.Context, keyString string) error

	// ClearByPrefix removes every entry whose key begins with prefixString.
	ClearByPrefix(ctx context.Context, prefixString string) error

	// Close releases resources held by the adapter.
	Close(ctx context.Context) error
}
