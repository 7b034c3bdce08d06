package ai

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/benvon/homework-helper/internal/services/ai"

// callInfo describes one provider round trip for logs and spans
type callInfo struct {
	provider  string
	model     string
	operation string
	prompt    string
}

// observeCall runs call inside a span and, in debug mode, logs the sanitized
// prompt, response and latency the way every provider does.
func observeCall(ctx context.Context, logger *zap.Logger, debugMode bool, info callInfo, call func(context.Context) (string, error)) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ai."+info.operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("ai.provider", info.provider),
			attribute.String("ai.model", info.model),
			attribute.Int("ai.prompt_length", len(info.prompt)),
		),
	)
	defer span.End()

	requestID := ExtractRequestID(ctx)
	debug := logger != nil && debugMode

	if debug {
		logger.Debug("llm_api_request",
			zap.String("operation", info.operation),
			zap.String("provider", info.provider),
			zap.String("model", info.model),
			zap.Int("prompt_length", len(info.prompt)),
			zap.String("prompt_preview", SanitizePrompt(info.prompt, true)),
			zap.String("request_id", requestID),
		)
	}

	start := time.Now()
	content, err := call(ctx)
	latency := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider call failed")
		if debug {
			logger.Debug("llm_api_error",
				zap.String("operation", info.operation),
				zap.String("provider", info.provider),
				zap.String("model", info.model),
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		return "", err
	}

	span.SetAttributes(attribute.Int("ai.response_length", len(content)))
	if debug {
		logger.Debug("llm_api_response",
			zap.String("operation", info.operation),
			zap.String("provider", info.provider),
			zap.String("model", info.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}
	return content, nil
}
