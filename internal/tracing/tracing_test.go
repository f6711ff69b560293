package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestInitTracer_NoEndpoint(t *testing.T) {
	tp, err := InitTracer(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tp.Shutdown(context.Background())

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	if !span.SpanContext().IsValid() {
		t.Error("expected recorded span to have a valid span context")
	}
	span.End()
}

func TestInitTracer_WithEndpoint(t *testing.T) {
	tp, err := InitTracer(context.Background(), "http://127.0.0.1:4318/v1/traces")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Logf("shutdown returned %v", err)
	}
}
