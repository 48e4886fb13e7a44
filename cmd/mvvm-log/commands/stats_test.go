package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mvvm-kit/mvvm-go/pkg/command"
	"github.com/mvvm-kit/mvvm-go/pkg/log"
	"github.com/mvvm-kit/mvvm-go/pkg/runloop"
)

func TestStatsAggregation(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	stats := newStats()
	for _, e := range sampleEvents(ts) {
		stats.add(e)
	}

	if stats.TotalEvents != 5 {
		t.Errorf("expected 5 events, got %d", stats.TotalEvents)
	}
	if len(stats.Hubs) != 2 {
		t.Errorf("expected 2 hubs, got %d", len(stats.Hubs))
	}
	if got := stats.Deliveries[log.DeliveryMarshaled]; got != 1 {
		t.Errorf("expected 1 marshaled delivery, got %d", got)
	}

	hub := stats.Hubs["hub-aaaa-1111"]
	if hub.Subscribed != 1 || hub.Publishes != 1 || hub.PeakObservers != 1 {
		t.Errorf("unexpected hub stats: %+v", hub)
	}
	if !stats.Hubs["hub-bbbb-2222"].Disposed {
		t.Error("expected hub-bbbb-2222 to be disposed")
	}
}

// A log written by a live command reads back into consistent statistics.
func TestRunStatsFromCommandLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd.mlog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	ui := runloop.New("ui")
	cmd, err := command.New(func(int) {}, command.WithExecutionContext(ui), command.WithLogger(logger))
	if err != nil {
		t.Fatalf("command.New: %v", err)
	}
	if _, err := cmd.OnStateChanged(func(context.Context, command.StateChanged) {}); err != nil {
		t.Fatalf("OnStateChanged: %v", err)
	}
	cmd.RaiseStateChanged(context.Background())
	cmd.RaiseStateChanged(ui.Context(context.Background()))
	ui.RunPending()
	cmd.Dispose()
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 7",
		"PUBLISH:       2",
		"INLINE:        1",
		"MARSHALED:     1",
		"Hubs: 1",
		"state-changed: 7 events, 2 publishes",
		"Subscriptions: +1 -0 (peak 1)",
		"Disposed",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}
