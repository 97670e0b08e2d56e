package shared

import "context"

// RunBlocking runs call, which cannot be cancelled, and stops waiting for it when ctx
// is done. The call keeps running in the background and its result is dropped.
func RunBlocking[T any](ctx context.Context, call func() (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := call()
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case result := <-done:
		return result.value, result.err
	}
}
