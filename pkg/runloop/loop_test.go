package runloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvvm-kit/mvvm-go/pkg/dispatch"
)

func TestRunPendingIsFIFO(t *testing.T) {
	l := New("ui")
	var order []int
	for i := 0; i < 5; i++ {
		l.Post(func() { order = append(order, i) })
	}

	assert.Equal(t, 5, l.Len())
	assert.Equal(t, 5, l.RunPending())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Equal(t, uint64(5), l.Executed())
	assert.Equal(t, 0, l.Len())
}

func TestRunPendingDrainsWorkPostedWhileDraining(t *testing.T) {
	l := New("ui")
	var ran []string
	l.Post(func() {
		ran = append(ran, "outer")
		l.Post(func() { ran = append(ran, "inner") })
	})

	assert.Equal(t, 2, l.RunPending())
	assert.Equal(t, []string{"outer", "inner"}, ran)
}

func TestPostNilIsIgnored(t *testing.T) {
	l := New("ui")
	l.Post(nil)
	assert.Equal(t, 0, l.Len())
}

func TestContextMarksLoopCurrent(t *testing.T) {
	l := New("ui")
	ctx := l.Context(context.Background())

	assert.True(t, dispatch.IsCurrent(ctx, l))
	assert.False(t, dispatch.IsCurrent(ctx, New("other")))
	assert.Equal(t, "ui", l.Name())
}

func TestStartRunsPostedWorkOnLoopGoroutine(t *testing.T) {
	l := New("ui")
	l.Start()
	defer l.Stop()

	done := make(chan struct{})
	l.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("posted work did not run")
	}
}

func TestStartDrainsWorkQueuedWhileStopped(t *testing.T) {
	l := New("ui")
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		l.Post(wg.Done)
	}

	l.Start()
	defer l.Stop()

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(2 * time.Second):
		t.Fatal("queued work did not run after Start")
	}
}

func TestStartStopAreIdempotent(t *testing.T) {
	l := New("ui")
	l.Start()
	l.Start()
	l.Stop()
	l.Stop()
}

func TestRunPendingWhileStartedRunsNothing(t *testing.T) {
	l := New("ui")
	l.Start()
	defer l.Stop()
	assert.True(t, l.Running())

	const items = 20
	var (
		mu           sync.Mutex
		active, peak int
		wg           sync.WaitGroup
	)
	wg.Add(items)
	for i := 0; i < items; i++ {
		l.Post(func() {
			defer wg.Done()
			mu.Lock()
			active++
			peak = max(peak, active)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		})
	}

	assert.Equal(t, 0, l.RunPending())
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, peak, "posted items must never overlap")
}

func TestRunPendingAfterStopDrains(t *testing.T) {
	l := New("ui")
	l.Start()
	l.Stop()
	assert.False(t, l.Running())

	ran := 0
	l.Post(func() { ran++ })
	assert.Equal(t, 1, l.RunPending())
	assert.Equal(t, 1, ran)
}

func TestNestedRunPendingRunsNothing(t *testing.T) {
	l := New("ui")
	var inner int
	l.Post(func() {
		l.Post(func() {})
		inner = l.RunPending()
	})

	assert.Equal(t, 2, l.RunPending())
	assert.Equal(t, 0, inner)
}

func TestCloseDropsQueuedAndLaterWork(t *testing.T) {
	l := New("ui")
	l.Post(func() { t.Error("discarded work must not run") })

	require.Equal(t, 1, l.Close())

	l.Post(func() { t.Error("work posted after Close must not run") })
	assert.Equal(t, 0, l.RunPending())
	assert.Equal(t, uint64(1), l.Dropped())
}

func TestConcurrentPostersAllRun(t *testing.T) {
	l := New("ui")
	l.Start()
	defer l.Stop()

	const posters, perPoster = 8, 100
	var wg sync.WaitGroup
	wg.Add(posters * perPoster)
	for i := 0; i < posters; i++ {
		go func() {
			for j := 0; j < perPoster; j++ {
				l.Post(wg.Done)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("not all posted work ran")
	}
}
