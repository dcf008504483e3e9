// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"context"
)

// Operation is a unit of work run against an Engine, typically one
// transaction or script followed by event extraction.
type Operation[T any] func(ctx context.Context, e *Engine) (T, error)

// Execute runs op on e and returns its result.
func Execute[T any](ctx context.Context, e *Engine, op Operation[T]) (T, error) {
	return op(ctx, e)
}

// futureResult is the outcome delivered through a Future.
type futureResult[T any] struct {
	value T
	err   error
}

// Future is a promise to deliver the result of an ExecuteAsync invocation.
type Future[T any] chan *futureResult[T]

// Receive waits for the operation promised by the future and returns its
// result.
func (f Future[T]) Receive() (T, error) {
	r := <-f
	return r.value, r.err
}

// ExecuteAsync runs op on e in its own goroutine.  Use Receive on the
// returned future to wait for the result.  A submitted transaction is not
// withdrawn when ctx is cancelled.
func ExecuteAsync[T any](ctx context.Context, e *Engine, op Operation[T]) Future[T] {
	f := make(Future[T], 1)
	go func() {
		v, err := op(ctx, e)
		f <- &futureResult[T]{value: v, err: err}
	}()
	return f
}
