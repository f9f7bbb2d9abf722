package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestJSONWriterSinkOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	ctx := context.Background()
	sink.Emit(ctx, Event{ID: "a", EventType: "session.login", Success: true})
	sink.Emit(ctx, Event{ID: "b", EventType: "session.logout", Success: true, Email: "a@biz.com"})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines; want 2", len(lines))
	}

	var ev Event
	if err := json.Unmarshal(lines[1], &ev); err != nil {
		t.Fatalf("line 2 is not valid JSON: %v", err)
	}
	if ev.ID != "b" || ev.Email != "a@biz.com" {
		t.Fatalf("round-tripped event %+v", ev)
	}
}

func TestJSONWriterSinkOmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	NewJSONWriterSink(&buf).Emit(context.Background(), Event{ID: "a"})

	if bytes.Contains(buf.Bytes(), []byte("user_id")) {
		t.Fatalf("empty user_id serialized: %s", buf.String())
	}
	if bytes.Contains(buf.Bytes(), []byte(`"error"`)) {
		t.Fatalf("empty error serialized: %s", buf.String())
	}
}

func TestChannelSinkHonorsContextWhenFull(t *testing.T) {
	sink := NewChannelSink(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	sink.Emit(ctx, Event{ID: "a"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		sink.Emit(ctx, Event{ID: "b"})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit on a full channel ignored context cancellation")
	}
}
