// Package notify implements the subscription and publish engine shared by
// commands and observable objects.
//
// A Hub holds an ordered set of subscriptions. Publishing an occurrence
// reaches every subscription that is live at that moment, exactly once, in
// subscription order. Each subscription may name an execution context; the
// dispatch package decides whether the callback runs inline or is posted.
//
// # Subscriber Set
//
// The set is an immutable slice swapped atomically on every Subscribe and
// Dispose (copy-on-write). Publish loads the current slice without locking
// and without allocating, so:
//   - subscribers added during a publish do not see the in-flight occurrence
//   - a subscriber removed during a publish, including one that disposes
//     itself from its own callback, is not called once its removal is visible
//   - publishing with no subscribers is free
//
// # Handles
//
// Subscribe returns a *Handle. Disposing the handle is the only way to
// remove a subscription. Dispose is idempotent and is a no-op after the hub
// itself was disposed.
//
// # Errors
//
// Subscribe fails with ErrInvalidArgument for a nil target and with
// ErrObjectDisposed after DisposeAll. Panics raised by subscribers are not
// recovered: they propagate to the goroutine running the callback, and
// subscribers later in the same publish are not reached.
package notify
