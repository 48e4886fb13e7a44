// Package observable provides the notifying object at the base of
// view-models.
//
// An Object has two independent subscriber channels for the same
// occurrence: a handler channel (OnPropertyChanged) for bindings that want a
// plain callback and an observer channel (Subscribe) for components that
// implement notify.Observer. RaisePropertyChanged always reaches the handler
// channel first. Within a channel, subscribers are called in subscription
// order.
//
// Property storage is up to the embedding type:
//
//	type Counter struct {
//		*observable.Object
//		value int
//	}
//
//	func (c *Counter) SetValue(ctx context.Context, v int) {
//		if c.value == v {
//			return
//		}
//		c.value = v
//		c.RaisePropertyChanged(ctx, "Value")
//	}
//
// Raising with no subscribers on either channel does not allocate.
package observable
