// Package commands implements the mvvm-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/mvvm-kit/mvvm-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	HubID    string
	Channel  string
	Category *log.Category
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{HubID: f.HubID, Channel: f.Channel, Category: f.Category}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [hub:id] channel CATEGORY Detail
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	channel := event.Channel
	if channel == "" {
		channel = "-"
	}

	fmt.Fprintf(w, "%s [hub:%s] %s %s %s\n", ts, shortenID(event.HubID), channel, event.Category.String(), eventLabel(event))

	switch {
	case event.Subscription != nil:
		formatSubscriptionDetails(w, event.Subscription)
	case event.Publish != nil:
		fmt.Fprintf(w, "  Occurrence: %s\n", event.Publish.Occurrence)
		fmt.Fprintf(w, "  Subscribers: %d\n", event.Publish.Subscribers)
	case event.Delivery != nil:
		fmt.Fprintf(w, "  SubscriptionID: %d\n", event.Delivery.SubscriptionID)
	case event.Lifecycle != nil:
		if event.Lifecycle.State == log.LifecycleDisposed {
			fmt.Fprintf(w, "  Released: %d\n", event.Lifecycle.Released)
		}
	}

	fmt.Fprintln(w) // Blank line between events
}

// eventLabel returns the short label shown in the header line.
func eventLabel(event log.Event) string {
	switch {
	case event.Subscription != nil:
		return event.Subscription.Action.String()
	case event.Publish != nil:
		return event.Publish.Occurrence
	case event.Delivery != nil:
		return event.Delivery.Mode.String()
	case event.Lifecycle != nil:
		return event.Lifecycle.State.String()
	default:
		return "Unknown"
	}
}

// shortenID returns the first 8 characters of a hub ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatSubscriptionDetails(w io.Writer, s *log.SubscriptionEvent) {
	fmt.Fprintf(w, "  SubscriptionID: %d\n", s.SubscriptionID)
	if s.HasContext {
		fmt.Fprintln(w, "  Context: bound")
	}
	fmt.Fprintf(w, "  Subscribers: %d\n", s.Subscribers)
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "subscription":
		return log.CategorySubscription, nil
	case "publish":
		return log.CategoryPublish, nil
	case "delivery":
		return log.CategoryDelivery, nil
	case "lifecycle":
		return log.CategoryLifecycle, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be subscription, publish, delivery, or lifecycle)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
