// Package tracer lets the check-in services emit spans without depending on
// an OpenTelemetry provider being configured. NoopTracer is used by tests and
// by default; OTelTracer forwards to the global provider.
package tracer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// Span is an active span. End must be called exactly once; a non-nil err
// marks the span failed.
type Span interface {
	End(err error)
	SetAttributes(attrs ...Attribute)
}

// Tracer creates spans and must be safe for concurrent use.
//
//	ctx, span := t.Start(ctx, tracer.SpanAttend, tracer.String(tracer.AttrAttendeeKey, key))
//	defer func() { span.End(err) }()
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to a span.
type Attribute struct {
	kv attribute.KeyValue
}

func (a Attribute) Key() string { return string(a.kv.Key) }

// Value returns the attribute value as a plain Go value.
func (a Attribute) Value() any { return a.kv.Value.AsInterface() }

func String(key, value string) Attribute {
	return Attribute{attribute.String(key, value)}
}

func Bool(key string, value bool) Attribute {
	return Attribute{attribute.Bool(key, value)}
}

func Int64(key string, value int64) Attribute {
	return Attribute{attribute.Int64(key, value)}
}

func Int(key string, value int) Attribute {
	return Attribute{attribute.Int(key, value)}
}

const (
	SpanAttend   = "attendance.attend"
	SpanPrefill  = "attendance.prefill"
	SpanMerge    = "profile.merge"
	SpanPrint    = "printing.print"
	SpanDispatch = "hooks.dispatch"
	SpanDelivery = "hooks.deliver"
)

const (
	AttrAttendeeKey = "attendee.key"
	AttrEventKey    = "event.key"
	AttrArrived     = "attendee.arrived"
	AttrFieldCount  = "card.field_count"
	AttrJobID       = "print.job_id"
	AttrEventType   = "hook.event_type"
	AttrEventID     = "hook.event_id"
	AttrRecipient   = "hook.recipient"
	AttrRecipients  = "hook.recipient_count"
	AttrStatusCode  = "http.status_code"
)
