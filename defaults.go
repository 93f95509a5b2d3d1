package swrcache

import "time"

// coalesce returns def when v is the zero value of T, otherwise v. Ported
// verbatim from the teacher — pure ambient helper, no domain semantics.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

const (
	defaultSoftTTL       = 30 * time.Second
	defaultHardTTL       = 5 * time.Minute
	defaultJitterPercent = 10
	defaultLockTTL       = 10 * time.Second
	defaultSleepPause    = 150 * time.Millisecond
	defaultSleepAttempts = 6
)
