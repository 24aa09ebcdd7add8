package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "welcome"

// OTelTracer forwards spans to an OpenTelemetry tracer, by default the one
// registered on the global provider at construction time.
type OTelTracer struct {
	tracer trace.Tracer
}

func NewOTel() *OTelTracer {
	return NewOTelFrom(otel.GetTracerProvider())
}

// NewOTelFrom uses an explicit provider, e.g. noop.NewTracerProvider in tests.
func NewOTelFrom(provider trace.TracerProvider) *OTelTracer {
	return &OTelTracer{tracer: provider.Tracer(instrumentationName)}
}

func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(keyValues(attrs)...))
	return ctx, otelSpan{span}
}

type otelSpan struct {
	trace.Span
}

func (s otelSpan) End(err error) {
	if err != nil {
		s.Span.RecordError(err)
		s.Span.SetStatus(codes.Error, err.Error())
	}
	s.Span.End()
}

func (s otelSpan) SetAttributes(attrs ...Attribute) {
	s.Span.SetAttributes(keyValues(attrs)...)
}

func keyValues(attrs []Attribute) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, len(attrs))
	for i, a := range attrs {
		kvs[i] = a.kv
	}
	return kvs
}

var _ Tracer = (*OTelTracer)(nil)
