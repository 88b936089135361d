package common

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok {
		return logger
	}
	return zap.NewNop().Sugar()
}

func typeName(request Request) string {
	return fmt.Sprintf("%T", request)
}

// LoggingMiddleware logs every dispatched request type and its outcome.
func LoggingMiddleware(logger *zap.SugaredLogger) Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		response, err := next(WithLogger(ctx, logger), request)
		if err != nil {
			logger.Debugw("request failed", "request", typeName(request), "error", err)
			return response, err
		}
		logger.Debugw("request handled", "request", typeName(request))
		return response, nil
	}
}
