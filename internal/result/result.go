// Package result provides a success-or-error container used to thread
// store lookups, authorization checks and persistence through the
// session coordinator without intermediate error plumbing. Expected
// failures travel as values; panics are reserved for programming
// errors.
package result

// Result holds either a value or an error, never both.
type Result[T any] struct {
	value T
	err   error
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func Err[T any](err error) Result[T] {
	if err == nil {
		panic("result: Err with nil error")
	}
	return Result[T]{err: err}
}

// IsOk reports whether the result carries a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Value unwraps the result into Go's usual (value, error) pair.
func (r Result[T]) Value() (T, error) { return r.value, r.err }

// Error returns the carried error, or nil for a success.
func (r Result[T]) Error() error { return r.err }

// Filter downgrades a success to an error when pred rejects the
// value. Errors pass through untouched.
func (r Result[T]) Filter(pred func(T) bool, errFn func(T) error) Result[T] {
	if r.err != nil || pred(r.value) {
		return r
	}
	return Err[T](errFn(r.value))
}

// Process applies f to the value of a success and does nothing for an
// error. Used for side effects such as broadcasting.
func (r Result[T]) Process(f func(T)) {
	if r.err == nil {
		f(r.value)
	}
}

// ProcessErr applies f to the error of a failure.
func (r Result[T]) ProcessErr(f func(error)) {
	if r.err != nil {
		f(r.err)
	}
}

// Map transforms the value of a success; an error propagates
// untouched.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(f(r.value))
}

// FlatMap chains a dependent operation that itself may fail,
// short-circuiting on error.
func FlatMap[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return f(r.value)
}

// Resolve consumes the result into a single value, picking the branch
// that matches its state. The transport layer uses this to choose a
// response.
func Resolve[T, O any](r Result[T], onOk func(T) O, onErr func(error) O) O {
	if r.err != nil {
		return onErr(r.err)
	}
	return onOk(r.value)
}
