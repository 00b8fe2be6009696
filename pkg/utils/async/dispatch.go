package async

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/m-mizutani/backporter/pkg/utils/errs"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Group runs handlers in background and keeps track of them so that a shutting down
// server can wait for runs it has already accepted. The zero value is ready to use.
type Group struct {
	wg      sync.WaitGroup
	running atomic.Int64
}

// Dispatch runs handler in a new goroutine. The handler gets a background context that
// keeps the ctxlog logger of ctx but not its cancellation. Returned errors and panics are
// passed to errs.Handle.
func (g *Group) Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	g.wg.Add(1)
	g.running.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.running.Add(-1)
		run(newCtx, handler)
	}()
}

// Running returns the number of handlers that have not returned yet
func (g *Group) Running() int {
	return int(g.running.Load())
}

// Wait blocks until every dispatched handler has returned or ctx is done
func (g *Group) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "dispatched handlers are still running")
	}
}

func run(ctx context.Context, handler func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			errs.Handle(ctx, goerr.New("panic in async handler",
				goerr.V("recover", r),
				goerr.V("stack", string(debug.Stack()))))
		}
	}()

	if err := handler(ctx); err != nil {
		errs.Handle(ctx, goerr.Wrap(err, "error in async handler"))
	}
}

func newBackgroundContext(ctx context.Context) context.Context {
	return ctxlog.With(context.Background(), ctxlog.From(ctx))
}
