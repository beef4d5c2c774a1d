package log

import "context"

type loggerKey struct{}

// ToContext returns a new context carrying logger, retrievable via FromContext.
func ToContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the Logger previously stored in ctx by ToContext, or nil if
// none was stored.
func FromContext(ctx context.Context) Logger {
	logger, _ := ctx.Value(loggerKey{}).(Logger)
	return logger
}
