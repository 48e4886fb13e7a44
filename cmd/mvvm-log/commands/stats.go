package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mvvm-kit/mvvm-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Deliveries       map[log.DeliveryMode]int
	Hubs             map[string]*HubStats
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// HubStats holds statistics for a single hub.
type HubStats struct {
	Channel       string
	FirstSeen     time.Time
	LastSeen      time.Time
	Events        int
	Subscribed    int
	Unsubscribed  int
	Publishes     int
	PeakObservers int
	Disposed      bool
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func newStats() *Stats {
	return &Stats{
		EventsByCategory: make(map[log.Category]int),
		Deliveries:       make(map[log.DeliveryMode]int),
		Hubs:             make(map[string]*HubStats),
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++

	// Track time range
	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	hub, ok := s.Hubs[event.HubID]
	if !ok {
		hub = &HubStats{
			Channel:   event.Channel,
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		s.Hubs[event.HubID] = hub
	}
	hub.Events++
	if event.Timestamp.After(hub.LastSeen) {
		hub.LastSeen = event.Timestamp
	}

	switch {
	case event.Subscription != nil:
		if event.Subscription.Action == log.SubscriptionAdded {
			hub.Subscribed++
		} else {
			hub.Unsubscribed++
		}
		hub.PeakObservers = max(hub.PeakObservers, event.Subscription.Subscribers)
	case event.Publish != nil:
		hub.Publishes++
	case event.Delivery != nil:
		s.Deliveries[event.Delivery.Mode]++
	case event.Lifecycle != nil:
		if event.Lifecycle.State == log.LifecycleDisposed {
			hub.Disposed = true
		}
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== MVVM Notification Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategorySubscription, log.CategoryPublish, log.CategoryDelivery, log.CategoryLifecycle} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Deliveries by Mode:")
	for _, mode := range []log.DeliveryMode{log.DeliveryInline, log.DeliveryMarshaled, log.DeliverySkipped} {
		if count := stats.Deliveries[mode]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", mode.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Hubs: %d\n", len(stats.Hubs))
	if len(stats.Hubs) == 0 {
		return
	}

	// Sort by first seen time
	type hubInfo struct {
		id    string
		stats *HubStats
	}
	hubs := make([]hubInfo, 0, len(stats.Hubs))
	for id, hs := range stats.Hubs {
		hubs = append(hubs, hubInfo{id, hs})
	}
	sort.Slice(hubs, func(i, j int) bool {
		return hubs[i].stats.FirstSeen.Before(hubs[j].stats.FirstSeen)
	})

	fmt.Fprintln(w)
	for _, h := range hubs {
		channel := h.stats.Channel
		if channel == "" {
			channel = "-"
		}
		fmt.Fprintf(w, "  [%s] %s: %d events, %d publishes\n", shortenID(h.id), channel, h.stats.Events, h.stats.Publishes)
		fmt.Fprintf(w, "           Subscriptions: +%d -%d (peak %d)\n", h.stats.Subscribed, h.stats.Unsubscribed, h.stats.PeakObservers)
		if h.stats.Disposed {
			fmt.Fprintln(w, "           Disposed")
		}
	}
}
