package log

import (
	"bytes"
	"testing"
	"time"
)

func TestEncodeDecodeMessageEvent(t *testing.T) {
	code := uint32(9003)
	items := 2
	event := Event{
		Timestamp:  time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC),
		EnvelopeID: "1234",
		Direction:  DirectionIn,
		Layer:      LayerCodec,
		Category:   CategoryMessage,
		LocalRole:  RoleACS,
		Version:    "1.2",
		Message: &MessageEvent{
			Type:      MessageTypeFault,
			Method:    "Fault",
			Headers:   []string{"ID", "SessionTimeout"},
			Dropped:   []string{"HoldRequests"},
			FaultCode: &code,
			Items:     &items,
		},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, event.Timestamp)
	}
	if decoded.EnvelopeID != "1234" || decoded.Version != "1.2" || decoded.LocalRole != RoleACS {
		t.Errorf("header fields not preserved: %+v", decoded)
	}
	if decoded.Message == nil {
		t.Fatal("Message is nil")
	}
	if decoded.Message.Type != MessageTypeFault || decoded.Message.Method != "Fault" {
		t.Errorf("Message: got %+v", decoded.Message)
	}
	if len(decoded.Message.Headers) != 2 || decoded.Message.Headers[1] != "SessionTimeout" {
		t.Errorf("Headers: got %v", decoded.Message.Headers)
	}
	if decoded.Message.FaultCode == nil || *decoded.Message.FaultCode != 9003 {
		t.Errorf("FaultCode: got %v", decoded.Message.FaultCode)
	}
	if decoded.Message.Items == nil || *decoded.Message.Items != 2 {
		t.Errorf("Items: got %v", decoded.Message.Items)
	}
}

func TestEncodeDecodeSchemaEvent(t *testing.T) {
	event := Event{
		Timestamp: time.Now(),
		Layer:     LayerSchema,
		Category:  CategorySchema,
		Schema: &SchemaEvent{
			Fingerprint: "abc",
			Nodes:       312,
			Previous:    "def",
			Duration:    3 * time.Millisecond,
		},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if decoded.Schema == nil || *decoded.Schema != *event.Schema {
		t.Errorf("Schema: got %+v, want %+v", decoded.Schema, event.Schema)
	}
	if decoded.Message != nil || decoded.Frame != nil || decoded.Error != nil {
		t.Error("unexpected payloads set")
	}
}

func TestEncodeEventIsDeterministic(t *testing.T) {
	event := Event{
		Timestamp: time.Unix(1700000000, 0).UTC(),
		Layer:     LayerXML,
		Frame:     &FrameEvent{Size: 3, Data: []byte("abc")},
	}

	a, err := EncodeEvent(event)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncodeEvent(event)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding is not deterministic")
	}
}

func TestStreamEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for i := 0; i < 3; i++ {
		if err := enc.Encode(Event{EnvelopeID: string(rune('a' + i))}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for i := 0; i < 3; i++ {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			t.Fatalf("Decode %d failed: %v", i, err)
		}
		if want := string(rune('a' + i)); ev.EnvelopeID != want {
			t.Errorf("event %d: got %q, want %q", i, ev.EnvelopeID, want)
		}
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error for invalid CBOR")
	}
}

func TestDecodeEvents(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, id := range []string{"1", "2"} {
		if err := enc.Encode(Event{EnvelopeID: id, Category: CategoryDiagnostic}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	events, err := DecodeEvents(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeEvents failed: %v", err)
	}
	if len(events) != 2 || events[0].EnvelopeID != "1" || events[1].EnvelopeID != "2" {
		t.Errorf("events = %+v", events)
	}

	// A truncated trailing event keeps the complete ones.
	data := buf.Bytes()
	events, err = DecodeEvents(data[:len(data)-1])
	if err == nil {
		t.Fatal("expected error for truncated stream")
	}
	if len(events) != 1 {
		t.Errorf("got %d complete events, want 1", len(events))
	}
}

func TestDecodeEventRejectsDuplicateKeys(t *testing.T) {
	// {2: "a", 2: "b"}
	data := []byte{0xa2, 0x02, 0x61, 'a', 0x02, 0x61, 'b'}
	if _, err := DecodeEvent(data); err == nil {
		t.Error("expected error for duplicate map key")
	}
}
