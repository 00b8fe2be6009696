package errs_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/backporter/pkg/utils/errs"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := ctxlog.With(context.Background(), logger)

	t.Run("logs goerr values and tags", func(t *testing.T) {
		buf.Reset()
		err := goerr.New("replay failed",
			goerr.T(types.ErrTagReplay),
			goerr.V("target", "1.3"))
		errs.Handle(ctx, err, "run_id", "abc")

		out := buf.String()
		gt.String(t, out).Contains("replay failed")
		gt.String(t, out).Contains("target:1.3")
		gt.String(t, out).Contains("replay")
		gt.String(t, out).Contains("run_id=abc")
	})

	t.Run("plain error", func(t *testing.T) {
		buf.Reset()
		errs.Handle(ctx, errors.New("plain"))
		gt.String(t, buf.String()).Contains("plain")
	})

	t.Run("nil error is ignored", func(t *testing.T) {
		buf.Reset()
		errs.Handle(ctx, nil)
		gt.Equal(t, buf.String(), "")
	})
}

// recordingTransport keeps events in memory instead of sending them
type recordingTransport struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (x *recordingTransport) Configure(options sentry.ClientOptions)    {}
func (x *recordingTransport) Flush(timeout time.Duration) bool          { return true }
func (x *recordingTransport) FlushWithContext(ctx context.Context) bool { return true }
func (x *recordingTransport) Close()                                    {}

func (x *recordingTransport) SendEvent(event *sentry.Event) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.events = append(x.events, event)
}

func TestHandle_ReportsToSentry(t *testing.T) {
	transport := &recordingTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:       "https://public@sentry.example.com/1",
		Transport: transport,
	})
	gt.NoError(t, err)

	hub := sentry.CurrentHub()
	prev := hub.Client()
	hub.BindClient(client)
	t.Cleanup(func() { hub.BindClient(prev) })

	ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	errs.Handle(ctx, goerr.New("push rejected",
		goerr.T(types.ErrTagPublish),
		goerr.V("branch", "release/version-2-cherry-pick-1")))

	transport.mu.Lock()
	defer transport.mu.Unlock()
	gt.Number(t, len(transport.events)).Equal(1)

	event := transport.events[0]
	gt.Equal(t, event.Tags["error.publish"], "true")
	gt.Equal(t, event.Contexts["goerr"]["branch"], any("release/version-2-cherry-pick-1"))
}
