package permbit

import (
	"io"

	internalaudit "github.com/permbit/permbit/internal/audit"
)

// AuditEvent is a structured audit record emitted for grant mutations
// and denied checks.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit
// dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// Audit event types, re-exported for sink implementations that switch on
// [AuditEvent].EventType.
const (
	AuditGrant             = internalaudit.TypeGrant
	AuditRevoke            = internalaudit.TypeRevoke
	AuditRoleGrant         = internalaudit.TypeRoleGrant
	AuditCheckDenied       = internalaudit.TypeCheckDenied
	AuditCheckUnrestricted = internalaudit.TypeCheckUnrestricted
	AuditSubjectReset      = internalaudit.TypeSubjectReset
	AuditTokenIssued       = internalaudit.TypeTokenIssued
)

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
