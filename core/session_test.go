package kamin

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"
)

type memStore struct {
	traces  []Trace
	failing bool
	cleared bool
}

func (m *memStore) Append(t Trace) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.traces = append(m.traces, t)
	return nil
}

func (m *memStore) Recent(limit int) ([]Trace, error) {
	if limit <= 0 || limit > len(m.traces) {
		limit = len(m.traces)
	}
	return m.traces[len(m.traces)-limit:], nil
}

func (m *memStore) Clear() error {
	m.traces = nil
	m.cleared = true
	return nil
}

func fixedClock() time.Time {
	return time.Date(2026, 2, 27, 20, 0, 0, 0, time.UTC)
}

func TestSessionEval(t *testing.T) {
	s := NewSession()
	s.now = fixedClock

	tr := s.Eval("(+ 1 2)")
	if !tr.OK() {
		t.Fatalf("unexpected error: %s", tr.Error)
	}
	if tr.Result != "3" {
		t.Fatalf("expected 3, got %q", tr.Result)
	}
	if tr.Input != "(+ 1 2)" {
		t.Fatalf("input mismatch: %q", tr.Input)
	}
	if tr.Timestamp != "2026-02-27T20:00:00Z" {
		t.Fatalf("timestamp mismatch: %q", tr.Timestamp)
	}
}

func TestSessionEvalError(t *testing.T) {
	s := NewSession()

	tr := s.Eval("(/ 1 0)")
	if tr.OK() {
		t.Fatal("expected error")
	}
	if tr.Error != "division by zero" {
		t.Fatalf("error mismatch: %q", tr.Error)
	}
	if tr.Kind != "DivisionFault" {
		t.Fatalf("kind mismatch: %q", tr.Kind)
	}
	if tr.Result != "" {
		t.Fatalf("result should be empty, got %q", tr.Result)
	}
}

func TestSessionContinuesAfterError(t *testing.T) {
	s := NewSession()
	s.Eval(")")
	s.Eval("(foo)")
	tr := s.Eval("(* 6 7)")
	if tr.Result != "42" {
		t.Fatalf("expected 42, got %q (%s)", tr.Result, tr.Error)
	}
	if n := len(s.Traces(0)); n != 3 {
		t.Fatalf("expected 3 traces, got %d", n)
	}
}

func TestSessionCapturesOutput(t *testing.T) {
	var tee bytes.Buffer
	s := NewSession(WithOutput(&tee))

	tr := s.Eval("(begin (print 1) (print (+ 1 1)) 3)")
	if tr.Output != "1\n2\n" {
		t.Fatalf("trace output mismatch: %q", tr.Output)
	}
	if tee.String() != "1\n2\n" {
		t.Fatalf("tee output mismatch: %q", tee.String())
	}

	// Output is per line, not cumulative.
	tr = s.Eval("(print 9)")
	if tr.Output != "9\n" {
		t.Fatalf("second trace output mismatch: %q", tr.Output)
	}
}

func TestSessionOutputKeptOnError(t *testing.T) {
	s := NewSession()
	tr := s.Eval("(begin (print 5) (/ 1 0))")
	if tr.OK() {
		t.Fatal("expected error")
	}
	if tr.Output != "5\n" {
		t.Fatalf("output mismatch: %q", tr.Output)
	}
}

func TestSessionTracesCap(t *testing.T) {
	s := NewSession(WithMaxTraces(3))
	for i := 0; i < 5; i++ {
		s.Eval(fmt.Sprintf("%d", i))
	}
	traces := s.Traces(0)
	if len(traces) != 3 {
		t.Fatalf("expected 3 traces, got %d", len(traces))
	}
	if traces[0].Result != "2" || traces[2].Result != "4" {
		t.Fatalf("expected oldest dropped, got %q..%q", traces[0].Result, traces[2].Result)
	}
}

func TestSessionTracesLimit(t *testing.T) {
	s := NewSession()
	for i := 0; i < 4; i++ {
		s.Eval(fmt.Sprintf("%d", i))
	}
	traces := s.Traces(2)
	if len(traces) != 2 || traces[0].Result != "2" || traces[1].Result != "3" {
		t.Fatalf("unexpected traces: %+v", traces)
	}
	if n := len(s.Traces(100)); n != 4 {
		t.Fatalf("expected 4 traces, got %d", n)
	}
}

func TestSessionStore(t *testing.T) {
	store := &memStore{}
	s := NewSession(WithStore(store))
	s.Eval("(+ 1 1)")
	s.Eval("(/ 1 0)")

	if len(store.traces) != 2 {
		t.Fatalf("expected 2 stored traces, got %d", len(store.traces))
	}
	hist, err := s.History(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 || hist[0].Kind != "DivisionFault" {
		t.Fatalf("unexpected history: %+v", hist)
	}
}

func TestSessionStoreErrorTolerated(t *testing.T) {
	s := NewSession(WithStore(&memStore{failing: true}))
	tr := s.Eval("(+ 1 1)")
	if !tr.OK() || tr.Result != "2" {
		t.Fatalf("store failure leaked into eval: %+v", tr)
	}
	if n := len(s.Traces(0)); n != 1 {
		t.Fatalf("expected 1 trace, got %d", n)
	}
}

func TestSessionHistoryWithoutStore(t *testing.T) {
	s := NewSession()
	if _, err := s.History(10); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
}

func TestSessionClear(t *testing.T) {
	store := &memStore{}
	s := NewSession(WithStore(store))
	s.Eval("1")
	s.Eval("2")

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if n := len(s.Traces(0)); n != 0 {
		t.Fatalf("expected no traces, got %d", n)
	}
	if !store.cleared || len(store.traces) != 0 {
		t.Fatal("store not cleared")
	}
}
