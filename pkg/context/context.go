// Package context 拓展上下文功能，把请求 ID、日志等集成到上下文中，方便在各层传递.
package context

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	nlog "github.com/yeisme/dontfile/pkg/log"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "requestID"
)

// WithRequestID 把请求 ID 写入 context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID 从 context 中读取请求 ID，不存在时返回空串.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}

	return ""
}

// Logger 返回带请求 ID 与追踪信息的 logger.
func Logger(ctx context.Context) zerolog.Logger {
	l := *nlog.Logger()

	if id := RequestID(ctx); id != "" {
		l = l.With().Str("request_id", id).Logger()
	}

	return WithTraceContext(ctx, l)
}

// WithTraceContext 创建带有追踪上下文的logger.
func WithTraceContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		return logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return logger
}
