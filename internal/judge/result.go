package judge

import "context"

// Result is the outcome of a judge call whose failure a scorer has chosen to tolerate.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Try runs fn and captures its outcome instead of propagating the error.
// Scorers use it only at call sites whose recovery policy is a neutral contribution.
func Try[T any](ctx context.Context, fn func(context.Context) (T, error)) Result[T] {
	v, err := fn(ctx)
	return Result[T]{Value: v, Err: err}
}
