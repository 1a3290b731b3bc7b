package ui

import "context"

type reporterKey struct{}

func WithReporter(ctx context.Context, r Reporter) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, reporterKey{}, r)
}

func ReporterFrom(ctx context.Context) Reporter {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(reporterKey{}).(Reporter); ok {
		return v
	}
	return nil
}

// Stepf reports the start of a step through the context-bound reporter.
// Without a reporter the event is dropped.
func Stepf(ctx context.Context, format string, args ...any) {
	sendf(ReporterFrom(ctx), LevelStep, format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	sendf(ReporterFrom(ctx), LevelInfo, format, args...)
}

func Successf(ctx context.Context, format string, args ...any) {
	sendf(ReporterFrom(ctx), LevelSuccess, format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	sendf(ReporterFrom(ctx), LevelWarn, format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	sendf(ReporterFrom(ctx), LevelError, format, args...)
}
