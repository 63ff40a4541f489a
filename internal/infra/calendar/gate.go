package calendar

import (
	"context"
	"sync"
)

// AccessGate resolves a permission request once and shares the result.
// The first Wait starts the request; every caller, including those that arrive
// while it is running, receives the same result when it resolves.
type AccessGate struct {
	err     error
	request func(ctx context.Context) (bool, error)
	done    chan struct{}
	once    sync.Once
	granted bool
}

// NewAccessGate creates a gate around request.
func NewAccessGate(request func(ctx context.Context) (bool, error)) *AccessGate {
	return &AccessGate{
		request: request,
		done:    make(chan struct{}),
	}
}

// Wait blocks until the request resolved or ctx is done.
// A cancelled waiter does not cancel the request for the others.
func (g *AccessGate) Wait(ctx context.Context) (bool, error) {
	g.once.Do(func() {
		go g.resolve(context.WithoutCancel(ctx))
	})

	select {
	case <-g.done:
		return g.granted, g.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Resolved reports whether the request has completed.
func (g *AccessGate) Resolved() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

func (g *AccessGate) resolve(ctx context.Context) {
	defer close(g.done)
	g.granted, g.err = g.request(ctx)
}
