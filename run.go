package breaker

import "context"

// Run executes fn through c and returns its value alongside the error. It is
// the value-returning form of Do: rejections come back as *OpenError with T's
// zero value, and fn's own error is passed through unchanged.
func Run[T any](ctx context.Context, c *Circuit, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := c.Do(ctx, func(ctx context.Context) error {
		var fnErr error
		result, fnErr = fn(ctx)
		return fnErr
	})
	return result, err
}
