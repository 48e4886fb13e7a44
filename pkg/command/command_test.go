package command_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mvvm-kit/mvvm-go/pkg/command"
	"github.com/mvvm-kit/mvvm-go/pkg/dispatch"
	"github.com/mvvm-kit/mvvm-go/pkg/dispatch/mocks"
	"github.com/mvvm-kit/mvvm-go/pkg/log"
	"github.com/mvvm-kit/mvvm-go/pkg/notify"
	"github.com/mvvm-kit/mvvm-go/pkg/runloop"
)

type recordingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingLogger) categories() []log.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]log.Category, len(r.events))
	for i, e := range r.events {
		out[i] = e.Category
	}
	return out
}

func TestNewRejectsNilAction(t *testing.T) {
	c, err := command.New[int](nil)
	assert.ErrorIs(t, err, notify.ErrInvalidArgument)
	assert.Nil(t, c)

	c, err = command.NewWithPredicate[int](nil, func(int) bool { return true })
	assert.ErrorIs(t, err, notify.ErrInvalidArgument)
	assert.Nil(t, c)
}

func TestNewRejectsNilPredicate(t *testing.T) {
	c, err := command.NewWithPredicate(func(int) {}, nil)
	assert.ErrorIs(t, err, notify.ErrInvalidArgument)
	assert.Nil(t, c)
}

func TestCanExecuteWithoutPredicate(t *testing.T) {
	c, err := command.New(func(string) {})
	require.NoError(t, err)

	for _, p := range []string{"", "x", "anything"} {
		assert.True(t, c.CanExecute(p), "parameter %q", p)
	}
}

func TestPredicateDoesNotGateExecute(t *testing.T) {
	var executed []int
	c, err := command.NewWithPredicate(
		func(p int) { executed = append(executed, p) },
		func(p int) bool { return p != 5 },
	)
	require.NoError(t, err)

	assert.False(t, c.CanExecute(5))
	assert.True(t, c.CanExecute(4))

	c.Execute(5)
	assert.Equal(t, []int{5}, executed)
}

func TestExecuteAny(t *testing.T) {
	var got []int
	c, err := command.New(func(p int) { got = append(got, p) })
	require.NoError(t, err)

	require.NoError(t, c.ExecuteAny(7))
	assert.Equal(t, []int{7}, got)

	err = c.ExecuteAny("seven")
	assert.ErrorIs(t, err, command.ErrInvalidCast)
	assert.Equal(t, []int{7}, got)

	err = c.ExecuteAny(nil)
	assert.ErrorIs(t, err, command.ErrInvalidCast)
}

func TestCanExecuteAny(t *testing.T) {
	c, err := command.NewWithPredicate(func(int) {}, func(p int) bool { return p > 0 })
	require.NoError(t, err)

	ok, err := c.CanExecuteAny(1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.CanExecuteAny(-1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.CanExecuteAny(1.5)
	assert.ErrorIs(t, err, command.ErrInvalidCast)
	assert.False(t, ok)
}

func TestNilParameterForNilableType(t *testing.T) {
	type item struct{ name string }

	var got []*item
	c, err := command.New(func(p *item) { got = append(got, p) })
	require.NoError(t, err)

	require.NoError(t, c.ExecuteAny(nil))
	require.Len(t, got, 1)
	assert.Nil(t, got[0])

	ok, err := c.CanExecuteAny(nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInterfaceParameter(t *testing.T) {
	var got []any
	c, err := command.New(func(p any) { got = append(got, p) })
	require.NoError(t, err)

	require.NoError(t, c.ExecuteAny(3))
	require.NoError(t, c.ExecuteAny("x"))
	require.NoError(t, c.ExecuteAny(nil))
	assert.Equal(t, []any{3, "x", nil}, got)
}

func TestRaiseStateChangedWithoutSubscribers(t *testing.T) {
	c, err := command.New(func(int) {})
	require.NoError(t, err)

	e, raised := c.RaiseStateChanged(context.Background())
	assert.False(t, raised)
	assert.Nil(t, e.Source)
}

func TestRaiseStateChangedInline(t *testing.T) {
	c, err := command.New(func(int) {})
	require.NoError(t, err)

	var got []command.StateChanged
	_, err = c.OnStateChanged(func(_ context.Context, e command.StateChanged) {
		got = append(got, e)
	})
	require.NoError(t, err)

	e, raised := c.RaiseStateChanged(context.Background())
	require.True(t, raised)
	assert.Same(t, c, e.Source)
	require.Len(t, got, 1)
	assert.Same(t, c, got[0].Source)
}

func TestHandlerCanQueryCanExecute(t *testing.T) {
	enabled := false
	c, err := command.NewWithPredicate(func(int) {}, func(int) bool { return enabled })
	require.NoError(t, err)

	var seen []bool
	_, err = c.OnStateChanged(func(context.Context, command.StateChanged) {
		seen = append(seen, c.CanExecute(0))
	})
	require.NoError(t, err)

	c.RaiseStateChanged(context.Background())
	enabled = true
	c.RaiseStateChanged(context.Background())

	assert.Equal(t, []bool{false, true}, seen)
}

func TestSameContextDeliversInline(t *testing.T) {
	ui := runloop.New("ui")
	c, err := command.New(func(int) {}, command.WithExecutionContext(ui))
	require.NoError(t, err)
	assert.Same(t, ui, c.ExecutionContext())

	calls := 0
	_, err = c.OnStateChanged(func(ctx context.Context, _ command.StateChanged) {
		calls++
		assert.True(t, dispatch.IsCurrent(ctx, ui))
	})
	require.NoError(t, err)

	c.RaiseStateChanged(ui.Context(context.Background()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, ui.Len())
}

func TestDifferentContextDefersDelivery(t *testing.T) {
	ui := runloop.New("ui")
	c, err := command.New(func(int) {}, command.WithExecutionContext(ui))
	require.NoError(t, err)

	calls := 0
	_, err = c.OnStateChanged(func(ctx context.Context, _ command.StateChanged) {
		calls++
		assert.True(t, dispatch.IsCurrent(ctx, ui))
	})
	require.NoError(t, err)

	_, raised := c.RaiseStateChanged(context.Background())
	assert.True(t, raised)
	assert.Equal(t, 0, calls, "delivery must wait for the loop")
	assert.Equal(t, 1, ui.Len())

	assert.Equal(t, 1, ui.RunPending())
	assert.Equal(t, 1, calls)
}

func TestSubscriptionContextOverridesCommandContext(t *testing.T) {
	ec := mocks.NewMockExecutionContext(t)
	var posted []func()
	ec.EXPECT().Post(mock.Anything).Run(func(fn func()) { posted = append(posted, fn) }).Once()

	c, err := command.New(func(int) {})
	require.NoError(t, err)

	calls := 0
	_, err = c.OnStateChanged(func(context.Context, command.StateChanged) { calls++ }, notify.WithContext(ec))
	require.NoError(t, err)

	c.RaiseStateChanged(context.Background())
	assert.Equal(t, 0, calls)
	require.Len(t, posted, 1)

	posted[0]()
	assert.Equal(t, 1, calls)
}

func TestSubscribeObserver(t *testing.T) {
	c, err := command.New(func(int) {})
	require.NoError(t, err)

	var got []command.StateChanged
	h, err := c.Subscribe(notify.ObserverFunc[command.StateChanged](func(_ context.Context, e command.StateChanged) {
		got = append(got, e)
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Subscribers())

	c.RaiseStateChanged(context.Background())
	h.Dispose()
	c.RaiseStateChanged(context.Background())

	assert.Len(t, got, 1)
	assert.Equal(t, 0, c.Subscribers())
}

func TestDispose(t *testing.T) {
	var executed []int
	c, err := command.NewWithPredicate(
		func(p int) { executed = append(executed, p) },
		func(p int) bool { return p%2 == 0 },
	)
	require.NoError(t, err)

	calls := 0
	_, err = c.OnStateChanged(func(context.Context, command.StateChanged) { calls++ })
	require.NoError(t, err)

	c.Dispose()
	c.Dispose()

	_, raised := c.RaiseStateChanged(context.Background())
	assert.False(t, raised)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, c.Subscribers())

	_, err = c.OnStateChanged(func(context.Context, command.StateChanged) {})
	assert.ErrorIs(t, err, notify.ErrObjectDisposed)

	// Execution does not depend on the notification channel.
	assert.True(t, c.CanExecute(2))
	c.Execute(3)
	assert.Equal(t, []int{3}, executed)
}

func TestDisposeBeforeMarshaledDelivery(t *testing.T) {
	ui := runloop.New("ui")
	c, err := command.New(func(int) {}, command.WithExecutionContext(ui))
	require.NoError(t, err)

	calls := 0
	_, err = c.OnStateChanged(func(context.Context, command.StateChanged) { calls++ })
	require.NoError(t, err)

	c.RaiseStateChanged(context.Background())
	c.Dispose()
	ui.RunPending()

	assert.Equal(t, 0, calls)
}

func TestLogger(t *testing.T) {
	rec := &recordingLogger{}
	c, err := command.New(func(int) {}, command.WithLogger(rec))
	require.NoError(t, err)

	h, err := c.OnStateChanged(func(context.Context, command.StateChanged) {})
	require.NoError(t, err)
	c.RaiseStateChanged(context.Background())
	h.Dispose()
	c.Dispose()

	assert.Equal(t, []log.Category{
		log.CategoryLifecycle,
		log.CategorySubscription,
		log.CategoryPublish,
		log.CategoryDelivery,
		log.CategorySubscription,
		log.CategoryLifecycle,
	}, rec.categories())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, e := range rec.events {
		assert.Equal(t, command.ChannelName, e.Channel)
	}
	assert.Equal(t, command.ChannelName, rec.events[2].Publish.Occurrence)
}

func TestBindable(t *testing.T) {
	var got []string
	c, err := command.New(func(p string) { got = append(got, p) })
	require.NoError(t, err)

	var b command.Bindable = c
	ok, err := b.CanExecuteAny("a")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, b.ExecuteAny("a"))
	assert.Equal(t, []string{"a"}, got)
	b.Dispose()
}

func TestStateChangedString(t *testing.T) {
	assert.Equal(t, "state-changed", command.StateChanged{}.String())
}
