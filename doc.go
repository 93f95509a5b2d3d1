// Package swrcache implements a provider-agnostic, stale-while-revalidate (SWR)
// cache with single-flight coordination against a shared remote store.
//
// Reads go through a five-tier pipeline: fresh hit, leader compute (single
// flight via a store-backed lock), follower serve-stale, follower bounded wait,
// and fail-open/fail-closed. The pipeline is implemented by CacheEngine and is
// correct under two deployments at once: many processes sharing one remote
// store, and many goroutines sharing one engine instance within a process.
//
// Components:
//   - Key: an immutable, hierarchical fingerprint with stable string encoding.
//   - StoreAdapter (package store): the remote store abstraction — get, save,
//     try-lock, delete, clear-by-prefix.
//   - Loader[V]: application-supplied resolution of source data for a key.
//   - Jitter: deterministic TTL perturbation keyed by fingerprint.
//   - codec.Codec[V]: (de)serializes V <-> []byte for storage.
//   - EventBus (package eventbus): non-blocking dispatch for asynchronous
//     invalidation/refresh.
//
// Keys serialize as:
//
//	domain/facet[/schemaVersion][/locale]/id
//
// with every segment percent-encoded and composite ids canonicalized to
// "j:" + base64url(sorted-key JSON), so two processes building the "same"
// logical key always agree on the storage row.
package swrcache
