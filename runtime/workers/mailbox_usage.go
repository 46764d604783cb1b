package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"relay-lab/runtime"
)

// MailboxUsageWorker periodically reports the depth and capacity of every
// registered peer's mailbox. Reading len and cap of a channel is
// non-blocking, so sampling never interferes with delivery.
type MailboxUsageWorker struct {
	log                  *slog.Logger
	registry             *runtime.Registry
	metricInterval       time.Duration
	lowCapacityThreshold int
}

func NewMailboxUsageWorker(log *slog.Logger, registry *runtime.Registry,
	metricInterval time.Duration, lowCapacityThreshold int) *MailboxUsageWorker {
	return &MailboxUsageWorker{
		log:                  log,
		registry:             registry,
		metricInterval:       metricInterval,
		lowCapacityThreshold: lowCapacityThreshold,
	}
}

func (w *MailboxUsageWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping mailbox sampling")
			return nil
		case <-ticker.C:
			snapshot := w.registry.Snapshot()
			w.log.Debug(fmt.Sprintf("Sampling %d mailboxes", len(snapshot)))
			for name, mailbox := range snapshot {
				capacity := mailbox.Cap()
				length := mailbox.Len()
				w.log.Debug(fmt.Sprintf("Mailbox %s usage: %d / %d", name, length, capacity))
				capacityLeft := capacity - length
				if capacityLeft <= w.lowCapacityThreshold {
					w.log.Warn("Mailbox nearly full, slow reader suspected",
						"peer", name, "capacity_left", capacityLeft)
				}
			}
		}
	}
}
