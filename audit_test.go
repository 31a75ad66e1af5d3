package pasetoAuth

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/MrEthical07/pasetoAuth/store"
)

func TestAuditEventsReachChannelSink(t *testing.T) {
	sink := NewChannelSink(16)
	engine, err := New().
		WithConfig(Config{
			SecretKey: testSecretHex,
			Audit:     AuditConfig{Enabled: true, BufferSize: 16, DropIfFull: false},
		}).
		WithStore(store.NewMemory()).
		WithUserProvider(&mockUserProvider{users: map[string]UserRecord{"42": {UserID: "42", Active: true}}}).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}

	ctx := WithClientIP(context.Background(), "198.51.100.9")
	if _, err := engine.IssueTokenPair(ctx, "42", false); err != nil {
		t.Fatalf("issue: %v", err)
	}
	engine.Close()

	select {
	case event := <-sink.Events():
		if event.EventType != AuditIssue {
			t.Fatalf("event type = %q", event.EventType)
		}
		if !event.Success || event.PK != "42" || event.IP != "198.51.100.9" {
			t.Fatalf("unexpected event: %+v", event)
		}
		if event.EventID == "" {
			t.Fatal("event id missing")
		}
		if event.Key == "" {
			t.Fatal("event key missing")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event received")
	}
}

func TestAuditFailureEventCarriesError(t *testing.T) {
	sink := NewChannelSink(16)
	engine, err := New().
		WithConfig(Config{
			SecretKey: testSecretHex,
			Audit:     AuditConfig{Enabled: true, BufferSize: 16},
		}).
		WithStore(store.NewMemory()).
		WithUserProvider(&mockUserProvider{}).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}

	if _, err := engine.RefreshAccessToken(context.Background(), "garbage"); err == nil {
		t.Fatal("expected refresh failure")
	}
	engine.Close()

	select {
	case event := <-sink.Events():
		if event.EventType != AuditRefresh || event.Success {
			t.Fatalf("unexpected event: %+v", event)
		}
		if event.Error == "" {
			t.Fatal("failure event must carry the error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event received")
	}
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{EventID: "e1", EventType: AuditRevoke, Success: true})
	sink.Emit(context.Background(), AuditEvent{EventID: "e2", EventType: AuditRevoke, Success: false, Error: "boom"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var event AuditEvent
	if err := json.Unmarshal([]byte(lines[1]), &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.EventID != "e2" || event.Error != "boom" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

type blockingSink struct {
	release chan struct{}
}

func (s *blockingSink) Emit(_ context.Context, _ AuditEvent) {
	<-s.release
}

func TestAuditDropsWhenBufferFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// First event occupies the worker, second fills the buffer, the rest drop.
	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: AuditIssue})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events")
	}
	close(sink.release)
	d.Close()
}
