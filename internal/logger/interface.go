package logger

import "context"

// Logger is a leveled, printf-style logger. Every call takes the request
// context so run-scoped fields can travel with it.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}
