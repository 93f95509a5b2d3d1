// Package eventbus defines the dispatch interface CacheEngine uses for
// asynchronous invalidation and refresh (spec.md §6 Event bus). The engine
// only ever depends on the narrow EventBus interface; a concrete in-process
// worker-pool implementation lives in eventbus/inprocess.
package eventbus

import "github.com/google/uuid"

// EventKind distinguishes an invalidation dispatch from a refresh dispatch.
// The source only has one event shape; spec.md §9's REDESIGN note asks
// implementers to make the refresh-vs-invalidate distinction explicit
// rather than overloading a single tag.
type EventKind int

const (
	EventInvalidate EventKind = iota
	EventRefresh
)

// AsyncEvent is the at-least-once delivery unit dispatched to the bus.
// Handlers MUST be idempotent (spec.md §6 "AsyncEvent delivery is
// at-least-once").
type AsyncEvent struct {
	ID    uuid.UUID
	Key   string
	Exact bool
	Kind  EventKind
}

// Handler processes a delivered AsyncEvent by calling the engine's
// synchronous counterpart. Handler errors MUST be logged, never rethrown
// into bus infrastructure (spec.md §6 "Handler errors MUST be logged but
// not rethrown into bus infrastructure").
//
// Implementations MUST NOT re-dispatch another AsyncEvent from within a
// Handler — spec.md §4.F's "event handlers never re-dispatch" invariant is
// what keeps invalidate/refresh from looping forever.
type Handler func(event AsyncEvent)

// EventBus is a minimal async publish interface. Dispatch MUST be
// non-blocking from the caller's perspective (spec.md §9 "the engine-level
// contract only requires dispatch to be non-blocking"). The returned bool
// reports whether the event was accepted for delivery; false means it was
// dropped (e.g. a full queue), letting the caller report the drop.
type EventBus interface {
	Dispatch(event AsyncEvent) bool
	Subscribe(h Handler)
	Close() error
}
