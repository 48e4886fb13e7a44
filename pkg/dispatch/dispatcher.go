package dispatch

import "context"

// ExecutionContext runs posted work at some later time, typically on a
// dedicated goroutine such as a UI loop.
type ExecutionContext interface {
	// Post queues fn for execution and returns without waiting for it.
	Post(fn func())
}

// Receiver is one registered subscriber as seen by Deliver.
type Receiver[T any] interface {
	// Live reports whether the subscriber may still receive occurrences.
	Live() bool

	// Context returns the context the subscriber wants callbacks on, or nil.
	Context() ExecutionContext

	// Receive hands the occurrence to the subscriber.
	Receive(ctx context.Context, occ T)
}

// Mode is the dispatch decision taken for one receiver.
type Mode uint8

const (
	// ModeSkipped means the receiver was not live.
	ModeSkipped Mode = iota

	// ModeInline means the receiver ran on the calling goroutine.
	ModeInline

	// ModeMarshaled means the receiver was posted to its execution context.
	ModeMarshaled
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeSkipped:
		return "SKIPPED"
	case ModeInline:
		return "INLINE"
	case ModeMarshaled:
		return "MARSHALED"
	default:
		return "UNKNOWN"
	}
}

// Deliver hands occ to r, inline or through r's execution context.
//
// Panics raised by an inline receiver propagate to the caller. Panics raised
// by a marshaled receiver happen on the target context and are never
// observed here.
func Deliver[T any](ctx context.Context, r Receiver[T], occ T) Mode {
	if !r.Live() {
		return ModeSkipped
	}

	target := r.Context()
	if target == nil || Current(ctx) == target {
		r.Receive(ctx, occ)
		return ModeInline
	}

	posted := occ
	hop := WithCurrent(context.WithoutCancel(ctx), target)
	target.Post(func() {
		// Removal between Post and execution wins.
		if !r.Live() {
			return
		}
		r.Receive(hop, posted)
	})
	return ModeMarshaled
}
