package permbit

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

func newAuditTestEngine(t *testing.T, cfg Config, sink AuditSink) *Engine {
	t.Helper()

	_, rdb := newTestRedis(t)

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithPermissions([]string{"doc.read", "doc.write"}).
		WithRoles(map[string][]string{
			"viewer": {"doc.read"},
		}).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	cfg := grantTestConfig()
	cfg.Audit.Enabled = false

	sink := &countingSink{}
	engine := newAuditTestEngine(t, cfg, sink)

	ctx := context.Background()
	if _, err := engine.Grant(ctx, "u1", "doc.read"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	_ = engine.Check(ctx, "u1", "doc.write")
	time.Sleep(30 * time.Millisecond)

	if sink.Count() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.Count())
	}
}

func TestAuditGrantEventCarriesFields(t *testing.T) {
	cfg := grantTestConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16
	cfg.Audit.DropIfFull = true

	sink := NewChannelSink(8)
	engine := newAuditTestEngine(t, cfg, sink)

	ctx := WithActorID(WithTenantID(context.Background(), "44"), "admin-7")
	if _, err := engine.Grant(ctx, "u1", "doc.read"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	select {
	case ev := <-sink.Events():
		if ev.EventType != AuditGrant {
			t.Fatalf("expected grant event, got %q", ev.EventType)
		}
		if ev.ID == "" {
			t.Fatal("expected event ID to be assigned")
		}
		if ev.SubjectID != "u1" {
			t.Fatalf("expected subject u1, got %q", ev.SubjectID)
		}
		if ev.TenantID != "44" {
			t.Fatalf("expected tenant 44, got %q", ev.TenantID)
		}
		if ev.ActorID != "admin-7" {
			t.Fatalf("expected actor admin-7, got %q", ev.ActorID)
		}
		if len(ev.Permissions) != 1 || ev.Permissions[0] != "doc.read" {
			t.Fatalf("expected permissions [doc.read], got %v", ev.Permissions)
		}
		if !ev.Success {
			t.Fatal("expected success flag")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected audit event to be received")
	}
}

func TestAuditDeniedCheckEmitsEvent(t *testing.T) {
	cfg := grantTestConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16
	cfg.Audit.DropIfFull = true

	sink := NewChannelSink(8)
	engine := newAuditTestEngine(t, cfg, sink)

	_ = engine.Check(context.Background(), "u1", "doc.write")

	select {
	case ev := <-sink.Events():
		if ev.EventType != AuditCheckDenied {
			t.Fatalf("expected denied event, got %q", ev.EventType)
		}
		if ev.Success {
			t.Fatal("denied check must not be marked success")
		}
		if ev.Error == "" {
			t.Fatal("expected error field on denial")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected audit event to be received")
	}
}

func TestAuditAllowedCheckEmitsNothing(t *testing.T) {
	cfg := grantTestConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16
	cfg.Audit.DropIfFull = true

	sink := &countingSink{}
	engine := newAuditTestEngine(t, cfg, sink)

	ctx := context.Background()
	if _, err := engine.Grant(ctx, "u1", "doc.read"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	before := sink.Count()

	if err := engine.Check(ctx, "u1", "doc.read"); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if got := sink.Count(); got != before {
		t.Fatalf("allowed checks must not emit audit events, got %d extra", got-before)
	}
}
