// Package otel is a concrete OpenTelemetry swrcache.Metrics sink, grounded
// on gaborage-go-bricks' cache/internal/tracking package: lazy per-name
// counter creation guarded by a mutex, metric.WithAttributes built from the
// engine's plain string tag maps.
package otel

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/swrcache/swrcache"
)

// Sink implements swrcache.Metrics. Safe for concurrent use.
type Sink struct {
	meter metric.Meter

	mu       sync.Mutex
	counters map[string]metric.Int64Counter
}

var _ swrcache.Metrics = (*Sink)(nil)

// New returns a Sink backed by the named OTel meter, typically
// "swrcache" or an application-chosen instrumentation scope.
func New(meterName string) *Sink {
	return &Sink{
		meter:    otel.Meter(meterName),
		counters: make(map[string]metric.Int64Counter),
	}
}

func (s *Sink) IncCounter(name string, tags map[string]string) {
	counter := s.counterFor(name)
	if counter == nil {
		return
	}
	counter.Add(context.Background(), 1, metric.WithAttributes(toAttributes(tags)...))
}

func (s *Sink) counterFor(name string) metric.Int64Counter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.counters[name]; ok {
		return c
	}
	c, err := s.meter.Int64Counter(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: swrcache: failed to create metric %q: %v\n", name, err)
		return nil
	}
	s.counters[name] = c
	return c
}

func toAttributes(tags map[string]string) []attribute.KeyValue {
	if len(tags) == 0 {
		return nil
	}
	out := make([]attribute.KeyValue, 0, len(tags))
	for k, v := range tags {
		out = append(out, attribute.String(k, v))
	}
	return out
}
