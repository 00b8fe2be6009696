package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/backporter/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
)

// lockedBuffer collects log output written from dispatched goroutines
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newLoggedContext() (context.Context, *lockedBuffer) {
	buf := &lockedBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.With(context.Background(), logger), buf
}

func waitGroup(t *testing.T, g *async.Group) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	gt.NoError(t, g.Wait(ctx))
}

func TestGroup_Dispatch(t *testing.T) {
	t.Run("run finishes after caller returned", func(t *testing.T) {
		var g async.Group
		release := make(chan struct{})
		var finished bool

		g.Dispatch(context.Background(), func(ctx context.Context) error {
			<-release
			finished = true
			return nil
		})

		close(release)
		waitGroup(t, &g)
		gt.True(t, finished)
	})

	t.Run("failed run is logged with its cause", func(t *testing.T) {
		ctx, buf := newLoggedContext()
		var g async.Group

		g.Dispatch(ctx, func(ctx context.Context) error {
			return errors.New("push rejected for release/version-2")
		})

		waitGroup(t, &g)
		gt.String(t, buf.String()).Contains("error in async handler")
		gt.String(t, buf.String()).Contains("push rejected for release/version-2")
	})

	t.Run("panicking run is reported with its stack", func(t *testing.T) {
		ctx, buf := newLoggedContext()
		var g async.Group

		g.Dispatch(ctx, func(ctx context.Context) error {
			panic("replay state corrupted")
		})

		waitGroup(t, &g)
		out := buf.String()
		gt.String(t, out).Contains("panic in async handler")
		gt.String(t, out).Contains("replay state corrupted")
		gt.String(t, out).Contains("dispatch_test.go")
		gt.String(t, out).Contains("level=ERROR")
	})

	t.Run("logger survives but cancellation does not", func(t *testing.T) {
		ctx, buf := newLoggedContext()
		ctx, cancel := context.WithCancel(ctx)
		var g async.Group
		var ctxErr error

		cancel()
		g.Dispatch(ctx, func(ctx context.Context) error {
			ctxErr = ctx.Err()
			ctxlog.From(ctx).Info("backport run started", "pr", 42)
			return nil
		})

		waitGroup(t, &g)
		gt.NoError(t, ctxErr)
		gt.String(t, buf.String()).Contains("backport run started")
	})
}

func TestGroup_Wait(t *testing.T) {
	t.Run("empty group returns at once", func(t *testing.T) {
		var g async.Group
		gt.NoError(t, g.Wait(context.Background()))
	})

	t.Run("waits for every run", func(t *testing.T) {
		var g async.Group
		var mu sync.Mutex
		done := 0

		for i := 0; i < 3; i++ {
			g.Dispatch(context.Background(), func(ctx context.Context) error {
				time.Sleep(10 * time.Millisecond)
				mu.Lock()
				done++
				mu.Unlock()
				return nil
			})
		}

		gt.Number(t, g.Running()).Greater(0)
		waitGroup(t, &g)
		gt.Equal(t, done, 3)
		gt.Equal(t, g.Running(), 0)
	})

	t.Run("gives up when context expires", func(t *testing.T) {
		var g async.Group
		release := make(chan struct{})
		defer close(release)

		g.Dispatch(context.Background(), func(ctx context.Context) error {
			<-release
			return nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := g.Wait(ctx)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}
