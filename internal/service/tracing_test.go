package service

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordingTracer remembers which spans were started and ended.
type recordingTracer struct {
	embedded.Tracer

	mu      sync.Mutex
	started []string
	ended   []string
}

func (r *recordingTracer) Start(ctx context.Context, name string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
	r.mu.Lock()
	r.started = append(r.started, name)
	r.mu.Unlock()

	span := &recordedSpan{name: name, tracer: r}
	return trace.ContextWithSpan(ctx, span), span
}

func (r *recordingTracer) Ended() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ended...)
}

type recordedSpan struct {
	noop.Span
	name   string
	tracer *recordingTracer
}

func (s *recordedSpan) End(...trace.SpanEndOption) {
	s.tracer.mu.Lock()
	s.tracer.ended = append(s.tracer.ended, s.name)
	s.tracer.mu.Unlock()
}

// activeSpanName returns the name of the recorded span carried by ctx, if any.
func activeSpanName(ctx context.Context) string {
	if span, ok := trace.SpanFromContext(ctx).(*recordedSpan); ok {
		return span.name
	}
	return ""
}
