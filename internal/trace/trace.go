// Package trace implements the core's "Trace sink" external collaborator
// (§6): an optional diagnostic stream receiving (category, depth, payload)
// triples for pExpr (before/after simplification), local (on local
// declaration), and inject (post-optimization, per instruction) events.
package trace

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/tliron/commonlog"
)

// Category is one of the three trace event kinds the core emits.
type Category string

const (
	PExpr  Category = "pExpr"
	Local  Category = "local"
	Inject Category = "inject"
)

// Event is one recorded trace triple, stamped with a sortable unique id so
// events from concurrently-compiled functions can be interleaved and later
// sorted back into per-function order (§5).
type Event struct {
	ID       string
	Category Category
	Depth    int
	Payload  string
}

// Sink receives trace events. A nil Sink is valid everywhere the core
// accepts one: tracing is optional.
type Sink interface {
	Emit(category Category, depth int, payload string)
}

// Recorder is an in-memory Sink used by tests to assert on emitted traces.
type Recorder struct {
	Events []Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(category Category, depth int, payload string) {
	r.Events = append(r.Events, Event{
		ID:       ksuid.New().String(),
		Category: category,
		Depth:    depth,
		Payload:  payload,
	})
}

// LogSink adapts a commonlog.Logger into a Sink, for CLI/editor use where
// trace events should flow through the same structured logging backend as
// the rest of the toolchain.
type LogSink struct {
	logger commonlog.Logger
}

// NewLogSink wraps logger as a Sink.
func NewLogSink(logger commonlog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(category Category, depth int, payload string) {
	s.logger.Debugf("%s id=%s depth=%d %s", category, ksuid.New().String(), depth, payload)
}

// Indent renders a depth-indented payload prefix, matching the nested
// tree-walk shape pExpr/inject traces are emitted from.
func Indent(depth int) string {
	return fmt.Sprintf("%*s", depth*2, "")
}
