package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"relay-lab/internal"
	"relay-lab/runtime"
	"relay-lab/runtime/workers"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes
// error reporting, so every defer executes before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Listener
	// Binding happens here so a bad address is fatal at startup; later accept
	// failures are absorbed by the listener worker.
	listener, err := net.Listen("tcp", config.Addr)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", config.Addr, err)
	}
	defer func() {
		_ = listener.Close()
	}()

	// 3. Registry & Supervised workers
	registry := runtime.NewRegistry(logger, config.MailboxCapacity)
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(workers.NewListenerWorker(logger, registry, listener))
	sup.Add(workers.NewMailboxUsageWorker(logger, registry, config.MetricInterval, config.LowCapacityThreshold))

	// 4. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		logger.Info("Relay listening", "address", config.Addr, "mailbox_capacity", config.MailboxCapacity)
		sup.Run(ctx)
		close(done)
	}()

	// 5. Wait for Stop
	<-ctx.Done()
	logger.Info("Shutdown signal received")

	sup.Stop()
	<-done
	logger.Info("Relay stopped cleanly")

	return exitOK, nil
}
