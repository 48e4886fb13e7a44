package interactive

import (
	"context"
	"fmt"
	"sync"

	"github.com/mvvm-kit/mvvm-go/pkg/command"
	"github.com/mvvm-kit/mvvm-go/pkg/dispatch"
	"github.com/mvvm-kit/mvvm-go/pkg/log"
	"github.com/mvvm-kit/mvvm-go/pkg/observable"
)

// PropertyValue is the name raised when Counter.Value changes.
const PropertyValue = "Value"

// CounterConfig bounds the demo counter.
type CounterConfig struct {
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
	Initial int `yaml:"initial"`
}

// Validate checks that the bounds are ordered and contain Initial.
func (c CounterConfig) Validate() error {
	if c.Min > c.Max {
		return fmt.Errorf("counter min %d is above max %d", c.Min, c.Max)
	}
	if c.Initial < c.Min || c.Initial > c.Max {
		return fmt.Errorf("counter initial %d is outside [%d, %d]", c.Initial, c.Min, c.Max)
	}
	return nil
}

// Counter is a bounded integer view-model. Its commands are enabled while
// the step they would take stays within bounds.
type Counter struct {
	*observable.Object

	cfg CounterConfig
	// ctx is the context the commands' actions run under.
	ctx context.Context

	mu    sync.Mutex
	value int

	Increment *command.Command[int]
	Decrement *command.Command[int]
	// Reset sets the value to its parameter, or to the initial value for nil.
	Reset *command.Command[*int]
}

// NewCounter creates a Counter whose notifications are delivered on ec.
// ctx is the context actions execute under; when they run on ec it should
// carry ec as the current execution context.
func NewCounter(ctx context.Context, cfg CounterConfig, ec dispatch.ExecutionContext, logger log.Logger) (*Counter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Counter{cfg: cfg, ctx: ctx, value: cfg.Initial}
	c.Object = observable.New(
		observable.WithSource(c),
		observable.WithExecutionContext(ec),
		observable.WithLogger(logger),
	)

	cmdOpts := []command.Option{command.WithExecutionContext(ec), command.WithLogger(logger)}

	var err error
	c.Increment, err = command.NewWithPredicate(
		func(step int) { c.add(step) },
		func(step int) bool { return step > 0 && c.Value()+step <= cfg.Max },
		cmdOpts...,
	)
	if err != nil {
		return nil, err
	}
	c.Decrement, err = command.NewWithPredicate(
		func(step int) { c.add(-step) },
		func(step int) bool { return step > 0 && c.Value()-step >= cfg.Min },
		cmdOpts...,
	)
	if err != nil {
		c.Dispose()
		return nil, err
	}
	c.Reset, err = command.NewWithPredicate(
		func(v *int) {
			if v == nil {
				c.set(cfg.Initial)
				return
			}
			c.set(*v)
		},
		func(v *int) bool { return v == nil || (*v >= cfg.Min && *v <= cfg.Max) },
		cmdOpts...,
	)
	if err != nil {
		c.Dispose()
		return nil, err
	}
	return c, nil
}

// Value returns the current value.
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Commands returns the bindable commands by name.
func (c *Counter) Commands() map[string]command.Bindable {
	return map[string]command.Bindable{
		"inc":   c.Increment,
		"dec":   c.Decrement,
		"reset": c.Reset,
	}
}

func (c *Counter) add(delta int) {
	c.set(c.Value() + delta)
}

// set stores v and raises Value and the command states. Execute does not
// consult the predicates, so v is clamped here.
func (c *Counter) set(v int) {
	v = min(max(v, c.cfg.Min), c.cfg.Max)

	c.mu.Lock()
	if c.value == v {
		c.mu.Unlock()
		return
	}
	c.value = v
	c.mu.Unlock()

	c.RaisePropertyChanged(c.ctx, PropertyValue)
	c.Increment.RaiseStateChanged(c.ctx)
	c.Decrement.RaiseStateChanged(c.ctx)
}

// Dispose releases every subscriber of the counter and its commands.
func (c *Counter) Dispose() {
	c.Object.Dispose()
	if c.Increment != nil {
		c.Increment.Dispose()
	}
	if c.Decrement != nil {
		c.Decrement.Dispose()
	}
	if c.Reset != nil {
		c.Reset.Dispose()
	}
}
