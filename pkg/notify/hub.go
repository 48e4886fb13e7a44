package notify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mvvm-kit/mvvm-go/pkg/dispatch"
	"github.com/mvvm-kit/mvvm-go/pkg/log"
)

// Option configures a Hub.
type Option func(*hubOptions)

type hubOptions struct {
	name       string
	logger     log.Logger
	defaultCtx dispatch.ExecutionContext
}

// WithName sets the channel name reported in log events.
func WithName(name string) Option {
	return func(o *hubOptions) { o.name = name }
}

// WithLogger sets the diagnostic logger. Nil disables logging.
func WithLogger(logger log.Logger) Option {
	return func(o *hubOptions) { o.logger = logger }
}

// WithDefaultContext sets the execution context used by subscriptions that
// do not name one.
func WithDefaultContext(ec dispatch.ExecutionContext) Option {
	return func(o *hubOptions) { o.defaultCtx = ec }
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	ec dispatch.ExecutionContext
}

// WithContext delivers the subscription's callbacks on ec.
func WithContext(ec dispatch.ExecutionContext) SubscribeOption {
	return func(o *subscribeOptions) { o.ec = ec }
}

// Hub manages subscriptions for one channel of occurrences.
type Hub[T any] struct {
	id         string
	name       string
	logger     log.Logger
	defaultCtx dispatch.ExecutionContext

	// mu serializes writers; readers only load subs.
	mu       sync.Mutex
	nextID   uint64
	disposed atomic.Bool

	// subs is nil when there are no subscribers.
	subs atomic.Pointer[[]*subscription[T]]
}

// NewHub creates an empty hub.
func NewHub[T any](opts ...Option) *Hub[T] {
	var o hubOptions
	for _, opt := range opts {
		opt(&o)
	}

	h := &Hub[T]{
		id:         uuid.NewString(),
		name:       o.name,
		logger:     o.logger,
		defaultCtx: o.defaultCtx,
	}
	if h.logger != nil {
		h.log(log.CategoryLifecycle, func(e *log.Event) {
			e.Lifecycle = &log.LifecycleEvent{State: log.LifecycleCreated}
		})
	}
	return h
}

// ID returns the hub's unique identity.
func (h *Hub[T]) ID() string {
	return h.id
}

// Name returns the channel name.
func (h *Hub[T]) Name() string {
	return h.name
}

// Subscribe registers target and returns the handle that removes it.
func (h *Hub[T]) Subscribe(target Observer[T], opts ...SubscribeOption) (*Handle, error) {
	if isNil(target) {
		return nil, fmt.Errorf("%w: nil subscriber", ErrInvalidArgument)
	}

	o := subscribeOptions{ec: h.defaultCtx}
	for _, opt := range opts {
		opt(&o)
	}

	h.mu.Lock()
	if h.disposed.Load() {
		h.mu.Unlock()
		return nil, ErrObjectDisposed
	}

	h.nextID++
	sub := &subscription[T]{
		id:     h.nextID,
		target: target,
		ec:     o.ec,
	}
	sub.live.Store(true)

	var next []*subscription[T]
	if cur := h.subs.Load(); cur != nil {
		next = make([]*subscription[T], len(*cur), len(*cur)+1)
		copy(next, *cur)
	}
	next = append(next, sub)
	h.subs.Store(&next)
	count := len(next)
	h.mu.Unlock()

	if h.logger != nil {
		h.log(log.CategorySubscription, func(e *log.Event) {
			e.Subscription = &log.SubscriptionEvent{
				SubscriptionID: sub.id,
				Action:         log.SubscriptionAdded,
				HasContext:     sub.ec != nil,
				Subscribers:    count,
			}
		})
	}

	return &Handle{id: sub.id, release: func() { h.unsubscribe(sub) }}, nil
}

// unsubscribe clears liveness and removes sub from the set.
func (h *Hub[T]) unsubscribe(sub *subscription[T]) {
	if !sub.live.CompareAndSwap(true, false) {
		return
	}

	h.mu.Lock()
	cur := h.subs.Load()
	if cur == nil {
		h.mu.Unlock()
		return
	}

	var next []*subscription[T]
	for _, s := range *cur {
		if s != sub {
			next = append(next, s)
		}
	}
	if len(next) == 0 {
		h.subs.Store(nil)
	} else {
		h.subs.Store(&next)
	}
	count := len(next)
	h.mu.Unlock()

	if h.logger != nil {
		h.log(log.CategorySubscription, func(e *log.Event) {
			e.Subscription = &log.SubscriptionEvent{
				SubscriptionID: sub.id,
				Action:         log.SubscriptionRemoved,
				Subscribers:    count,
			}
		})
	}
}

// Publish delivers occ to every live subscription, in subscription order,
// and returns how many were dispatched (inline or posted).
func (h *Hub[T]) Publish(ctx context.Context, occ T) int {
	snap := h.subs.Load()
	if snap == nil {
		return 0
	}

	if h.logger != nil {
		h.log(log.CategoryPublish, func(e *log.Event) {
			e.Publish = &log.PublishEvent{Occurrence: describe(occ), Subscribers: len(*snap)}
		})
	}

	n := 0
	for _, sub := range *snap {
		mode := dispatch.Deliver[T](ctx, sub, occ)
		if mode != dispatch.ModeSkipped {
			n++
		}
		if h.logger != nil {
			h.logDelivery(sub.id, mode)
		}
	}
	return n
}

// DisposeAll releases every subscription. Later Publish calls are no-ops
// and later Subscribe calls fail with ErrObjectDisposed. Idempotent.
func (h *Hub[T]) DisposeAll() {
	h.mu.Lock()
	if h.disposed.Swap(true) {
		h.mu.Unlock()
		return
	}

	released := 0
	if cur := h.subs.Load(); cur != nil {
		for _, s := range *cur {
			if s.live.CompareAndSwap(true, false) {
				released++
			}
		}
	}
	h.subs.Store(nil)
	h.mu.Unlock()

	if h.logger != nil {
		h.log(log.CategoryLifecycle, func(e *log.Event) {
			e.Lifecycle = &log.LifecycleEvent{State: log.LifecycleDisposed, Released: released}
		})
	}
}

// Disposed reports whether DisposeAll was called.
func (h *Hub[T]) Disposed() bool {
	return h.disposed.Load()
}

// Count returns the number of live subscriptions.
func (h *Hub[T]) Count() int {
	snap := h.subs.Load()
	if snap == nil {
		return 0
	}
	return len(*snap)
}

func (h *Hub[T]) logDelivery(id uint64, mode dispatch.Mode) {
	var m log.DeliveryMode
	switch mode {
	case dispatch.ModeInline:
		m = log.DeliveryInline
	case dispatch.ModeMarshaled:
		m = log.DeliveryMarshaled
	default:
		m = log.DeliverySkipped
	}
	h.log(log.CategoryDelivery, func(e *log.Event) {
		e.Delivery = &log.DeliveryEvent{SubscriptionID: id, Mode: m}
	})
}

func (h *Hub[T]) log(category log.Category, fill func(*log.Event)) {
	e := log.Event{
		Timestamp: time.Now(),
		HubID:     h.id,
		Channel:   h.name,
		Category:  category,
	}
	fill(&e)
	h.logger.Log(e)
}

func describe(occ any) string {
	if s, ok := occ.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", occ)
}

// subscription is one registered observer. Owned by its hub.
type subscription[T any] struct {
	id     uint64
	target Observer[T]
	ec     dispatch.ExecutionContext
	live   atomic.Bool
}

func (s *subscription[T]) Live() bool {
	return s.live.Load()
}

func (s *subscription[T]) Context() dispatch.ExecutionContext {
	return s.ec
}

func (s *subscription[T]) Receive(ctx context.Context, occ T) {
	s.target.Receive(ctx, occ)
}

// Handle is the subscriber's capability to end its subscription.
type Handle struct {
	id      uint64
	release func()
}

// ID returns the subscription identity, unique within its hub.
func (h *Handle) ID() uint64 {
	if h == nil {
		return 0
	}
	return h.id
}

// Dispose ends the subscription. A delivery whose liveness check runs after
// Dispose returns is skipped; one that passed the check just before may
// still call the subscriber. Safe to call more than once and on a nil handle.
func (h *Handle) Dispose() {
	if h == nil || h.release == nil {
		return
	}
	h.release()
}
