package notify

import (
	"context"
	"log"
)

// Notifier delivers a rendered message to a set of recipients.  The monitor
// treats delivery failure as a logged, non-fatal condition; implementations
// should not retry.
type Notifier interface {
	Send(ctx context.Context, subject, body string, recipients []string) error
}

// LogNotifier writes messages to a logger instead of delivering them.  It is
// used when no delivery transport is configured, so the monitor keeps
// running and every would-be notification still lands in the diagnostics.
type LogNotifier struct {
	Logger *log.Logger
}

func (n *LogNotifier) Send(_ context.Context, subject, body string, recipients []string) error {
	logger := n.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("notification (no transport configured) to %v: %s\n%s", recipients, subject, body)
	return nil
}
