// Package dispatch decides, for each subscriber of a notification, whether
// the notification is delivered inline or marshaled onto the subscriber's
// execution context.
//
// # Execution Contexts
//
// An ExecutionContext is whatever queue a subscriber wants its callbacks to
// run on, typically a UI thread. It only has to accept work via Post.
// Contexts are compared by identity, so implementations must be comparable
// (pointer types are).
//
// There is no ambient "current context". The caller states which context it
// is running on by attaching it to a context.Context with WithCurrent:
//
//	ctx := dispatch.WithCurrent(context.Background(), uiLoop)
//	hub.Publish(ctx, occurrence)
//
// # Delivery Rules
//
//   - no target context, or the target equals Current(ctx): the callback runs
//     synchronously on the calling goroutine (ModeInline)
//   - otherwise the callback is posted to the target and Deliver returns
//     immediately (ModeMarshaled); the posted work re-checks liveness before
//     running and sees the target as its current context
//   - a receiver that is no longer live is not called at all (ModeSkipped)
package dispatch
