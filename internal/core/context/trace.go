package context

import (
	"context"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TraceContext ties log lines and audit entries to the request (or worker
// job) that caused them.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
	// Operation is "METHOD /route" for HTTP requests or the job name.
	Operation string
}

type traceContextKey struct{}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetRequestID returns request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewTraceContext creates a TraceContext for operation. Trace and span IDs
// come from the active OpenTelemetry span when there is one, so log lines
// line up with exported spans; otherwise they are generated.
func NewTraceContext(ctx context.Context, operation string) *TraceContext {
	t := &TraceContext{
		RequestID: uuid.New().String(),
		Operation: operation,
	}
	if sc := oteltrace.SpanContextFromContext(ctx); sc.IsValid() {
		t.TraceID = sc.TraceID().String()
		t.SpanID = sc.SpanID().String()
		return t
	}
	t.TraceID = uuid.New().String()
	t.SpanID = uuid.New().String()[:16]
	return t
}
