// Package command provides a bindable command: an action with an optional
// executability predicate and a "state changed" notification channel that UI
// bindings subscribe to in order to re-query CanExecute.
package command

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync/atomic"

	"github.com/mvvm-kit/mvvm-go/pkg/dispatch"
	"github.com/mvvm-kit/mvvm-go/pkg/log"
	"github.com/mvvm-kit/mvvm-go/pkg/notify"
)

// ChannelName is the hub name used in log events.
const ChannelName = "state-changed"

// ErrInvalidCast is returned when an untyped parameter does not convert to
// the command's parameter type.
var ErrInvalidCast = errors.New("invalid cast")

// StateChanged is published when the result of CanExecute may have changed.
type StateChanged struct {
	// Source is the command that raised the occurrence.
	Source any
}

// String implements fmt.Stringer.
func (StateChanged) String() string {
	return ChannelName
}

// Bindable is the untyped surface a UI binding works against.
type Bindable interface {
	CanExecuteAny(parameter any) (bool, error)
	ExecuteAny(parameter any) error
	RaiseStateChanged(ctx context.Context) (StateChanged, bool)
	OnStateChanged(handler func(ctx context.Context, e StateChanged), opts ...notify.SubscribeOption) (*notify.Handle, error)
	Dispose()
}

// Option configures a Command.
type Option func(*options)

type options struct {
	ec     dispatch.ExecutionContext
	logger log.Logger
}

// WithExecutionContext delivers state-changed notifications on ec unless a
// subscription names its own context.
func WithExecutionContext(ec dispatch.ExecutionContext) Option {
	return func(o *options) { o.ec = ec }
}

// WithLogger sets the diagnostic logger for the state-changed channel.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Command wraps an action taking a parameter of type T.
type Command[T any] struct {
	action    func(T)
	predicate func(T) bool
	ec        dispatch.ExecutionContext

	changed  *notify.Hub[StateChanged]
	cleanup  runtime.Cleanup
	disposed atomic.Bool
}

var _ Bindable = (*Command[int])(nil)

// New creates a command that can always execute.
func New[T any](action func(T), opts ...Option) (*Command[T], error) {
	if action == nil {
		return nil, fmt.Errorf("%w: nil action", notify.ErrInvalidArgument)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Command[T]{
		action: action,
		ec:     o.ec,
		changed: notify.NewHub[StateChanged](
			notify.WithName(ChannelName),
			notify.WithLogger(o.logger),
			notify.WithDefaultContext(o.ec),
		),
	}
	// Best effort: release subscribers if the command is dropped undisposed.
	c.cleanup = runtime.AddCleanup(c, func(h *notify.Hub[StateChanged]) { h.DisposeAll() }, c.changed)
	return c, nil
}

// NewWithPredicate creates a command whose executability is decided by predicate.
func NewWithPredicate[T any](action func(T), predicate func(T) bool, opts ...Option) (*Command[T], error) {
	if predicate == nil {
		return nil, fmt.Errorf("%w: nil predicate", notify.ErrInvalidArgument)
	}
	c, err := New(action, opts...)
	if err != nil {
		return nil, err
	}
	c.predicate = predicate
	return c, nil
}

// CanExecute reports whether the command can execute with parameter.
func (c *Command[T]) CanExecute(parameter T) bool {
	return c.predicate == nil || c.predicate(parameter)
}

// Execute runs the action. It does not consult CanExecute.
func (c *Command[T]) Execute(parameter T) {
	c.action(parameter)
}

// CanExecuteAny converts parameter to T and calls CanExecute.
func (c *Command[T]) CanExecuteAny(parameter any) (bool, error) {
	p, err := convert[T](parameter)
	if err != nil {
		return false, err
	}
	return c.CanExecute(p), nil
}

// ExecuteAny converts parameter to T and calls Execute.
func (c *Command[T]) ExecuteAny(parameter any) error {
	p, err := convert[T](parameter)
	if err != nil {
		return err
	}
	c.Execute(p)
	return nil
}

// OnStateChanged subscribes handler to state-changed notifications.
func (c *Command[T]) OnStateChanged(handler func(ctx context.Context, e StateChanged), opts ...notify.SubscribeOption) (*notify.Handle, error) {
	return c.changed.Subscribe(notify.ObserverFunc[StateChanged](handler), opts...)
}

// Subscribe registers an observer on the state-changed channel.
func (c *Command[T]) Subscribe(observer notify.Observer[StateChanged], opts ...notify.SubscribeOption) (*notify.Handle, error) {
	return c.changed.Subscribe(observer, opts...)
}

// RaiseStateChanged notifies state-changed subscribers. It returns the
// occurrence and whether any subscriber was dispatched to.
func (c *Command[T]) RaiseStateChanged(ctx context.Context) (StateChanged, bool) {
	e := StateChanged{Source: c}
	if c.changed.Publish(ctx, e) == 0 {
		return StateChanged{}, false
	}
	return e, true
}

// ExecutionContext returns the default context for state-changed delivery.
func (c *Command[T]) ExecutionContext() dispatch.ExecutionContext {
	return c.ec
}

// Subscribers returns the number of state-changed subscribers.
func (c *Command[T]) Subscribers() int {
	return c.changed.Count()
}

// Dispose releases all state-changed subscribers. Safe to call more than once.
func (c *Command[T]) Dispose() {
	if c.disposed.Swap(true) {
		return
	}
	c.cleanup.Stop()
	c.changed.DisposeAll()
}

// convert performs the untyped-to-typed cast at the binding boundary.
func convert[T any](parameter any) (T, error) {
	var zero T
	if parameter == nil {
		if nilable(reflect.TypeFor[T]()) {
			return zero, nil
		}
		return zero, fmt.Errorf("%w: nil is not a valid %s", ErrInvalidCast, reflect.TypeFor[T]())
	}
	p, ok := parameter.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T is not %s", ErrInvalidCast, parameter, reflect.TypeFor[T]())
	}
	return p, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
