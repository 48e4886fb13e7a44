package dispatch

import "context"

type currentKey struct{}

// WithCurrent returns a new context recording that the caller runs on ec.
func WithCurrent(ctx context.Context, ec ExecutionContext) context.Context {
	return context.WithValue(ctx, currentKey{}, ec)
}

// Current extracts the execution context recorded by WithCurrent.
// Returns nil if none was recorded.
func Current(ctx context.Context) ExecutionContext {
	if v := ctx.Value(currentKey{}); v != nil {
		if ec, ok := v.(ExecutionContext); ok {
			return ec
		}
	}
	return nil
}

// IsCurrent reports whether ec is the execution context recorded in ctx.
func IsCurrent(ctx context.Context, ec ExecutionContext) bool {
	return ec != nil && Current(ctx) == ec
}
