// Package log provides structured diagnostic logging for notification hubs.
//
// This package defines the Logger interface and Event types for capturing
// what a hub does: subscriptions being added and removed, occurrences being
// published, the delivery mode chosen for every subscriber, and disposal.
// It is separate from operational logging (slog) - the event log is a
// machine-readable trace for debugging dispatch and thread-affinity issues.
//
// # Basic Usage
//
// Hubs, commands and observable objects accept a Logger option:
//
//	// For development: log to console via slog
//	hub := notify.NewHub[Changed](notify.WithLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For analysis: write to binary file
//	fileLogger, _ := log.NewFileLogger("/tmp/viewmodel.mlog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fileLogger)
//
// Nothing is logged (and nothing is allocated for logging) when no Logger is
// configured.
//
// # Event Types
//
// Every Event carries the hub identity and the channel name plus exactly one
// payload:
//   - SubscriptionEvent: a subscriber was added or removed
//   - PublishEvent: an occurrence was published to N subscribers
//   - DeliveryEvent: one subscriber was served inline, marshaled or skipped
//   - LifecycleEvent: the hub was disposed
//
// # File Format
//
// Log files use CBOR encoding with integer keys and the .mlog extension. The
// mvvm-log CLI tool provides viewing, filtering and statistics.
package log
