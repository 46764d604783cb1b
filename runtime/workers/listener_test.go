package workers

import (
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"relay-lab/runtime"
	"relay-lab/transport"
)

func TestListenerWorker_AcceptsAndRegistersPeer(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := runtime.NewRegistry(log, 16)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewListenerWorker(log, registry, listener)
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// When a client connects and completes the handshake
	conn, err := net.Dial("tcp", listener.Addr().String())
	req.NoError(err)
	defer conn.Close()
	channel := transport.NewTextConn(conn)

	prompt, err := channel.ReadLine()
	req.NoError(err)
	req.Equal("Please enter your name:", prompt)
	req.NoError(channel.WriteLine("alice"))

	// Then the peer shows up in the registry
	req.Eventually(func() bool {
		return lo.Contains(registry.Names(), "alice")
	}, time.Second, 5*time.Millisecond)

	// And canceling the context stops the accept loop cleanly
	cancel()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("listener worker should stop on context cancel")
	}
}

func TestListenerWorker_StopsWhenListenerCloses(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := runtime.NewRegistry(log, 16)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)

	worker := NewListenerWorker(log, registry, listener)
	done := make(chan error, 1)
	go func() { done <- worker.Run(context.Background()) }()

	// When the listener goes away underneath the worker
	req.NoError(listener.Close())

	// Then Run returns instead of spinning on the dead listener
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("listener worker should stop once the listener is closed")
	}
}
