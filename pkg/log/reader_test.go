package log

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func testEvents(base time.Time) []Event {
	return []Event{
		{Timestamp: base, EnvelopeID: "1", Direction: DirectionIn, Layer: LayerXML, Category: CategoryMessage, Version: "1.0"},
		{Timestamp: base.Add(time.Second), EnvelopeID: "1", Direction: DirectionIn, Layer: LayerCodec, Category: CategoryMessage, Version: "1.0",
			Message: &MessageEvent{Type: MessageTypeRequest, Method: "GetParameterValues"}},
		{Timestamp: base.Add(2 * time.Second), EnvelopeID: "2", Direction: DirectionOut, Layer: LayerCodec, Category: CategoryMessage, Version: "1.2",
			Message: &MessageEvent{Type: MessageTypeResponse, Method: "GetParameterValuesResponse"}},
		{Timestamp: base.Add(3 * time.Second), Layer: LayerSchema, Category: CategorySchema,
			Schema: &SchemaEvent{Fingerprint: "f", Nodes: 1}},
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, testEvents(base))

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 4 {
		t.Fatalf("got %d events, want 4", len(read))
	}
	if read[2].EnvelopeID != "2" || read[3].Schema == nil {
		t.Errorf("events out of order: %+v", read)
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in := DirectionIn
	codec := LayerCodec
	schemaCat := CategorySchema
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"envelope id", Filter{EnvelopeID: "1"}, 2},
		{"direction", Filter{Direction: &in}, 2},
		{"layer", Filter{Layer: &codec}, 2},
		{"category", Filter{Category: &schemaCat}, 1},
		{"method", Filter{Method: "GetParameterValues"}, 1},
		{"version", Filter{Version: "1.2"}, 1},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{EnvelopeID: "1", Layer: &codec}, 1},
		{"no match", Filter{EnvelopeID: "missing"}, 0},
	}

	var buf bytes.Buffer
	logger := NewStreamLogger(&buf)
	for _, e := range testEvents(base) {
		logger.Log(e)
	}
	data := buf.Bytes()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := NewStreamReader(bytes.NewReader(data), tt.filter).All()
			if err != nil {
				t.Fatalf("All failed: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.clog")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderCorruptStream(t *testing.T) {
	var buf bytes.Buffer
	NewStreamLogger(&buf).Log(Event{EnvelopeID: "ok"})
	buf.Write([]byte{0xff})

	r := NewStreamReader(&buf, Filter{})
	if _, err := r.Next(); err != nil {
		t.Fatalf("first event: %v", err)
	}
	if _, err := r.Next(); err == nil || err == io.EOF {
		t.Errorf("expected decode error, got %v", err)
	}
}
