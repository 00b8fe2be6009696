package errs

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs err with its goerr values and reports it to Sentry.
// Reporting is a no-op unless sentry.Init has been called with a DSN.
func Handle(ctx context.Context, err error, attrs ...any) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)

	tags := goerr.Tags(err)
	values := map[string]any{}
	if e := goerr.Unwrap(err); e != nil {
		for k, v := range e.Values() {
			values[k] = v
		}
	}

	args := append([]any{
		slog.Any("error", err),
		slog.Any("values", values),
		slog.Any("tags", tags),
	}, attrs...)
	logger.Error(err.Error(), args...)

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		if len(values) > 0 {
			scope.SetContext("goerr", sentry.Context(values))
		}
		for _, tag := range tags {
			scope.SetTag("error."+tag, "true")
		}
	})
	if evID := hub.CaptureException(err); evID != nil {
		logger.Debug("Sent error to Sentry", "event_id", *evID)
	}
}
