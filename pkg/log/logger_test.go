package log

import (
	"sync"
	"testing"
	"time"
)

type recordingLogger struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingLogger) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingLogger) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Log(Event{EnvelopeID: "x"})
}

func TestMultiLoggerFansOut(t *testing.T) {
	a := &recordingLogger{}
	b := &recordingLogger{}
	m := NewMultiLogger(a, nil, b)

	m.Log(Event{EnvelopeID: "1"})
	m.Log(Event{EnvelopeID: "2"})

	for name, r := range map[string]*recordingLogger{"a": a, "b": b} {
		got := r.snapshot()
		if len(got) != 2 {
			t.Fatalf("%s: got %d events, want 2", name, len(got))
		}
		if got[0].EnvelopeID != "1" || got[1].EnvelopeID != "2" {
			t.Errorf("%s: events out of order: %+v", name, got)
		}
	}
}

func TestMultiLoggerConcurrent(t *testing.T) {
	r := &recordingLogger{}
	m := NewMultiLogger(r)

	var wg sync.WaitGroup
	for n := 0; n < 10; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 10; n++ {
				m.Log(Event{})
			}
		}()
	}
	wg.Wait()

	if n := len(r.snapshot()); n != 100 {
		t.Errorf("got %d events, want 100", n)
	}
}

func TestEmitStampsTimestamp(t *testing.T) {
	r := &recordingLogger{}

	before := time.Now()
	Emit(r, Event{EnvelopeID: "a"})
	fixed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	Emit(r, Event{EnvelopeID: "b", Timestamp: fixed})

	got := r.snapshot()
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Timestamp.Before(before) {
		t.Errorf("Timestamp not stamped: %v", got[0].Timestamp)
	}
	if !got[1].Timestamp.Equal(fixed) {
		t.Errorf("explicit Timestamp overwritten: %v", got[1].Timestamp)
	}
}

func TestEmitNilLogger(t *testing.T) {
	Emit(nil, Event{})
}
