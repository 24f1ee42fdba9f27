// Package notification delivers alert messages to external channels
// (LINE, Google Chat) with a log fallback for development.
package notification

import (
	"context"
	"log"
)

// Notifier is the interface for all delivery backends.
type Notifier interface {
	// Name identifies the channel in logs and dispatch results.
	Name() string
	// Send delivers a message. Returns error if delivery fails.
	Send(ctx context.Context, message string) error
}

// LogNotifier writes messages to the process log (useful for development).
type LogNotifier struct{}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Send(ctx context.Context, message string) error {
	log.Printf("[notify] %s", message)
	return nil
}
