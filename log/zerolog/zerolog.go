// Package zerolog adapts github.com/rs/zerolog to swrcache.Logger, grounded
// on gaborage-go-bricks' use of zerolog as its structured-logging backend.
package zerolog

import (
	"github.com/rs/zerolog"

	"github.com/swrcache/swrcache"
)

var _ swrcache.Logger = Logger{}

type Logger struct{ L zerolog.Logger }

func (z Logger) Debug(msg string, f swrcache.Fields) { withFields(z.L.Debug(), f).Msg(msg) }
func (z Logger) Info(msg string, f swrcache.Fields)  { withFields(z.L.Info(), f).Msg(msg) }
func (z Logger) Warn(msg string, f swrcache.Fields)  { withFields(z.L.Warn(), f).Msg(msg) }
func (z Logger) Error(msg string, f swrcache.Fields) { withFields(z.L.Error(), f).Msg(msg) }

func withFields(e *zerolog.Event, f swrcache.Fields) *zerolog.Event {
	for k, v := range f {
		e = e.Interface(k, v)
	}
	return e
}
