package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"relay-lab/domain"
	"relay-lab/runtime"
)

func TestMailboxUsageWorker_StopsOnContextDone(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := runtime.NewRegistry(log, 4)

	// Given a peer with a partially filled mailbox
	registry.Register("alice")
	req.NoError(registry.Broadcast(domain.NewChat("bob", "one")))
	req.NoError(registry.Broadcast(domain.NewChat("bob", "two")))

	worker := NewMailboxUsageWorker(log, registry, 10*time.Millisecond, 2)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// Let a few sampling ticks happen, then stop
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("worker should stop when the context is done")
	}

	// Sampling never consumed anything from the mailbox
	snapshot := registry.Snapshot()
	req.Equal(2, snapshot["alice"].Len())
}
