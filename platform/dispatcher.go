package platform

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

// ErrClosed is returned for calls submitted after Close
var ErrClosed = errors.New("platform dispatcher closed")

// PanicError wraps a panic raised by a platform call
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("platform call panicked: %v", e.Value)
}

type contextKey struct{}

type task struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

// Dispatcher runs functions on a single designated goroutine.
// Functions receive a context marking the platform goroutine, so nested calls run inline.
type Dispatcher struct {
	tasks chan *task
	done  chan struct{}

	mux    sync.RWMutex
	closed bool
}

// New creates a dispatcher and starts its goroutine
func New() *Dispatcher {
	d := &Dispatcher{
		tasks: make(chan *task),
		done:  make(chan struct{}),
	}
	go d.loop()
	return d
}

// IsPlatform reports whether ctx belongs to a function running on this dispatcher
func (d *Dispatcher) IsPlatform(ctx context.Context) bool {
	owner, _ := ctx.Value(contextKey{}).(*Dispatcher)
	return owner == d
}

// Call runs fn on the platform goroutine and blocks until it completes.
// When ctx already belongs to the platform goroutine fn runs inline.
func (d *Dispatcher) Call(ctx context.Context, fn func(ctx context.Context) error) error {
	if d.IsPlatform(ctx) {
		return d.run(ctx, fn)
	}
	t := &task{ctx: ctx, fn: fn, result: make(chan error, 1)}
	d.mux.RLock()
	if d.closed {
		d.mux.RUnlock()
		return ErrClosed
	}
	select {
	case d.tasks <- t:
	case <-ctx.Done():
		d.mux.RUnlock()
		return ctx.Err()
	}
	d.mux.RUnlock()
	return <-t.result
}

// Close stops accepting calls and waits for the platform goroutine to exit
func (d *Dispatcher) Close() {
	d.mux.Lock()
	if d.closed {
		d.mux.Unlock()
		return
	}
	d.closed = true
	close(d.tasks)
	d.mux.Unlock()
	<-d.done
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for t := range d.tasks {
		t.result <- d.run(context.WithValue(t.ctx, contextKey{}, d), t.fn)
	}
}

func (d *Dispatcher) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(ctx)
}
