package notify

import "context"

// Observer receives occurrences of type T.
type Observer[T any] interface {
	Receive(ctx context.Context, occ T)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc[T any] func(ctx context.Context, occ T)

// Receive calls f(ctx, occ).
func (f ObserverFunc[T]) Receive(ctx context.Context, occ T) {
	f(ctx, occ)
}

// isNil reports whether target can never be called.
func isNil[T any](target Observer[T]) bool {
	if target == nil {
		return true
	}
	if f, ok := target.(ObserverFunc[T]); ok && f == nil {
		return true
	}
	return false
}
