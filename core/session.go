package kamin

import (
	"bytes"
	"errors"
	"io"
	"log"
	"time"
)

// TraceStore persists traces beyond the in-memory ring.
type TraceStore interface {
	Append(t Trace) error
	Recent(limit int) ([]Trace, error)
}

var ErrNoHistory = errors.New("history store not configured")

// Session evaluates input lines one at a time and keeps a trace of each.
type Session struct {
	eval      *Evaluator
	out       io.Writer // print output is copied here as it happens; may be nil
	store     TraceStore
	traces    []Trace
	maxTraces int
	now       func() time.Time
}

type SessionOption func(*Session)

// WithOutput copies print output to w while a line is evaluated.
func WithOutput(w io.Writer) SessionOption {
	return func(s *Session) { s.out = w }
}

func WithStore(store TraceStore) SessionOption {
	return func(s *Session) { s.store = store }
}

func WithMaxTraces(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxTraces = n
		}
	}
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		eval:      &Evaluator{},
		maxTraces: 1000,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Eval parses and evaluates one line. Errors are recorded in the trace,
// never returned.
func (s *Session) Eval(line string) *Trace {
	var buf bytes.Buffer
	if s.out != nil {
		s.eval.Out = io.MultiWriter(&buf, s.out)
	} else {
		s.eval.Out = &buf
	}

	trace := &Trace{
		Input:     line,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	val, err := s.eval.EvalString(line)
	trace.Output = buf.String()
	if err != nil {
		trace.Error = err.Error()
		if kind, ok := KindOf(err); ok {
			trace.Kind = kind.String()
		}
	} else {
		trace.Result = val.String()
	}

	s.appendTrace(trace)
	if s.store != nil {
		if err := s.store.Append(*trace); err != nil {
			log.Printf("store trace: %v", err)
		}
	}
	return trace
}

// Traces returns the last n traces, oldest first. n <= 0 returns all.
func (s *Session) Traces(n int) []Trace {
	if n <= 0 || n > len(s.traces) {
		n = len(s.traces)
	}
	out := make([]Trace, n)
	copy(out, s.traces[len(s.traces)-n:])
	return out
}

// History returns the last n traces from the store.
func (s *Session) History(n int) ([]Trace, error) {
	if s.store == nil {
		return nil, ErrNoHistory
	}
	return s.store.Recent(n)
}

// Clear drops the in-memory traces and, when the store supports it, the
// stored history.
func (s *Session) Clear() error {
	s.traces = nil
	if c, ok := s.store.(interface{ Clear() error }); ok {
		return c.Clear()
	}
	return nil
}

// appendTrace adds a trace and enforces the maxTraces cap.
func (s *Session) appendTrace(t *Trace) {
	s.traces = append(s.traces, *t)
	if len(s.traces) > s.maxTraces {
		// Drop oldest traces
		excess := len(s.traces) - s.maxTraces
		s.traces = s.traces[excess:]
	}
}
