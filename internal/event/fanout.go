package event

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// PanicError is a panic recovered from a callback.
type PanicError struct {
	Op         string
	Value      any
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: callback panicked: %v", e.Op, e.Value)
}

// safeCall calls fn with panic recovery. One callback failing shouldn't block others.
func safeCall(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Op: op, Value: r, StackTrace: string(debug.Stack())}
		}
	}()
	fn()
	return nil
}

// Result is the outcome of one fanned-out callback, at the callback's
// registration index.
type Result[R any] struct {
	Value R
	Err   error
}

// FanOut launches every fn concurrently, in slice order, and waits for all of
// them. There is no early exit: a failing or panicking callback does not stop
// or cancel the others, so every side effect has run when FanOut returns.
// ctx is handed to each callback unchanged; FanOut never cancels it.
func FanOut[R any](ctx context.Context, op string, fns []func(context.Context) (R, error)) []Result[R] {
	results := make([]Result[R], len(fns))
	var g errgroup.Group
	for i, fn := range fns {
		i, fn := i, fn
		g.Go(func() error {
			var v R
			var err error
			if perr := safeCall(op, func() { v, err = fn(ctx) }); perr != nil {
				err = perr
			}
			results[i] = Result[R]{Value: v, Err: err}
			return err
		})
	}
	_ = g.Wait() // per-callback errors are in results
	return results
}

// Errors joins the non-nil errors of results, or returns nil.
func Errors[R any](results []Result[R]) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return joinErrors(errs)
}

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
