package observable

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/mvvm-kit/mvvm-go/pkg/dispatch"
	"github.com/mvvm-kit/mvvm-go/pkg/log"
	"github.com/mvvm-kit/mvvm-go/pkg/notify"
)

// Channel names reported in log events.
const (
	EventChannel    = "property-changed"
	ObserverChannel = "property-changed-observer"
)

// PropertyChanged is published when a named property changed.
// An empty PropertyName means every property may have changed.
type PropertyChanged struct {
	Source       any
	PropertyName string
}

// String implements fmt.Stringer.
func (e PropertyChanged) String() string {
	if e.PropertyName == "" {
		return "*"
	}
	return e.PropertyName
}

// Option configures an Object.
type Option func(*options)

type options struct {
	source any
	ec     dispatch.ExecutionContext
	logger log.Logger
}

// WithSource sets the sender reported in occurrences. Defaults to the Object.
func WithSource(source any) Option {
	return func(o *options) { o.source = source }
}

// WithExecutionContext delivers notifications on ec unless a subscription
// names its own context.
func WithExecutionContext(ec dispatch.ExecutionContext) Option {
	return func(o *options) { o.ec = ec }
}

// WithLogger sets the diagnostic logger for both channels.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Object raises property-changed notifications on two channels: handlers
// registered with OnPropertyChanged and observers registered with Subscribe.
// View-models embed or hold an Object and call RaisePropertyChanged from
// their setters.
type Object struct {
	source any
	ec     dispatch.ExecutionContext

	events    *notify.Hub[PropertyChanged]
	observers *notify.Hub[PropertyChanged]

	cleanup  runtime.Cleanup
	disposed atomic.Bool
}

// New creates an Object.
func New(opts ...Option) *Object {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	obj := &Object{
		source: o.source,
		ec:     o.ec,
		events: notify.NewHub[PropertyChanged](
			notify.WithName(EventChannel),
			notify.WithLogger(o.logger),
			notify.WithDefaultContext(o.ec),
		),
		observers: notify.NewHub[PropertyChanged](
			notify.WithName(ObserverChannel),
			notify.WithLogger(o.logger),
			notify.WithDefaultContext(o.ec),
		),
	}
	if obj.source == nil {
		obj.source = obj
	}
	obj.cleanup = runtime.AddCleanup(obj, disposeHubs, [2]*notify.Hub[PropertyChanged]{obj.events, obj.observers})
	return obj
}

func disposeHubs(hubs [2]*notify.Hub[PropertyChanged]) {
	for _, h := range hubs {
		h.DisposeAll()
	}
}

// OnPropertyChanged registers handler on the event channel.
func (o *Object) OnPropertyChanged(handler func(ctx context.Context, e PropertyChanged), opts ...notify.SubscribeOption) (*notify.Handle, error) {
	return o.events.Subscribe(notify.ObserverFunc[PropertyChanged](handler), opts...)
}

// Subscribe registers observer on the observer channel.
func (o *Object) Subscribe(observer notify.Observer[PropertyChanged], opts ...notify.SubscribeOption) (*notify.Handle, error) {
	return o.observers.Subscribe(observer, opts...)
}

// RaisePropertyChanged notifies the event channel and then the observer
// channel with the same occurrence, which it returns.
func (o *Object) RaisePropertyChanged(ctx context.Context, name string) PropertyChanged {
	e := PropertyChanged{Source: o.source, PropertyName: name}
	o.events.Publish(ctx, e)
	o.observers.Publish(ctx, e)
	return e
}

// ExecutionContext returns the default context for notification delivery.
func (o *Object) ExecutionContext() dispatch.ExecutionContext {
	return o.ec
}

// Subscribers returns the subscriber counts of the event and observer channels.
func (o *Object) Subscribers() (events, observers int) {
	return o.events.Count(), o.observers.Count()
}

// Dispose releases the subscribers of both channels. Idempotent.
func (o *Object) Dispose() {
	if o.disposed.Swap(true) {
		return
	}
	o.cleanup.Stop()
	disposeHubs([2]*notify.Hub[PropertyChanged]{o.events, o.observers})
}
