// Package promise provides a resolve-once completion handle.
//
// A Promise is settled exactly once, either with a value or an error. Settling
// runs the registered continuations synchronously on the settling goroutine, in
// registration order. Waiters on other goroutines can block on Done or Wait.
package promise

import (
	"context"
	"errors"
	"sync"
)

// ErrRejected is returned by Result and Wait for a promise rejected with a nil
// error.
var ErrRejected = errors.New("promise rejected")

// Promise is a resolve-once completion handle carrying a value of type T.
type Promise[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	value   T
	err     error
	thens   []func(T, error)
}

// New returns an unsettled promise.
func New[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Resolved returns a promise already fulfilled with v.
func Resolved[T any](v T) *Promise[T] {
	p := New[T]()
	p.Resolve(v)
	return p
}

// Resolve fulfills the promise with v. Only the first settlement wins; Resolve
// reports whether this call settled the promise.
func (p *Promise[T]) Resolve(v T) bool {
	return p.settle(v, nil)
}

// Reject settles the promise with err.
func (p *Promise[T]) Reject(err error) bool {
	if err == nil {
		err = ErrRejected
	}
	var zero T
	return p.settle(zero, err)
}

func (p *Promise[T]) settle(v T, err error) bool {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		return false
	}
	p.settled = true
	p.value, p.err = v, err
	thens := p.thens
	p.thens = nil
	close(p.done)
	p.mu.Unlock()

	for _, fn := range thens {
		fn(v, err)
	}
	return true
}

// Then registers fn to run when the promise settles. If the promise is already
// settled fn runs immediately on the calling goroutine.
func (p *Promise[T]) Then(fn func(T, error)) {
	p.mu.Lock()
	if !p.settled {
		p.thens = append(p.thens, fn)
		p.mu.Unlock()
		return
	}
	v, err := p.value, p.err
	p.mu.Unlock()
	fn(v, err)
}

// Done returns a channel closed once the promise settles.
func (p *Promise[T]) Done() <-chan struct{} { return p.done }

// Settled reports whether the promise has been resolved or rejected.
func (p *Promise[T]) Settled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled
}

// Result returns the settled value and error. On an unsettled promise it
// returns the zero value and a nil error; check Settled first.
func (p *Promise[T]) Result() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.err
}

// Wait blocks until the promise settles or ctx is done.
func (p *Promise[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
