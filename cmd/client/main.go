package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"

	"relay-lab/transport"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"RELAY_SERVER_ADDR,default=localhost:8080"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the connection lifecycle: dial, answer the name prompt from
// stdin, then relay stdin lines up and print incoming lines until the server
// goes away or the user interrupts.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Establish the connection to the relay.
	conn, err := net.Dial("tcp", config.ServerAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to relay at %s: %w", config.ServerAddress, err)
	}
	channel := transport.NewTextConn(conn)
	defer func() {
		log.Info("Closing connection...")
		_ = channel.Close()
	}()

	log.Info("Connected", "address", config.ServerAddress)

	errChan := make(chan error, 2)

	// 4. Reception loop: print every incoming line.
	go func() {
		for {
			line, err := channel.ReadLine()
			if err != nil {
				errChan <- fmt.Errorf("server closed the connection: %w", err)
				return
			}
			printLine(line)
		}
	}()

	// 5. Input loop: the first line answers the name prompt, the rest is chat.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := channel.WriteLine(scanner.Text()); err != nil {
				errChan <- fmt.Errorf("send failed: %w", err)
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return exitOK, nil
	case err := <-errChan:
		return exitRuntime, err
	}
}

// printLine colors presence notifications differently from chat lines.
func printLine(line string) {
	if strings.HasSuffix(line, "] joined") || strings.HasSuffix(line, "] left") {
		color.Yellow.Println(line)
		return
	}
	color.Cyan.Println(line)
}
