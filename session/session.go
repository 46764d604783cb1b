// Package session drives one connected peer from handshake to teardown.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"relay-lab/contract"
	"relay-lab/domain"
	relayerrors "relay-lab/errors"
)

const namePrompt = "Please enter your name:"

type State int

const (
	Handshaking State = iota
	Active
	Closing
	Closed
)

func (s State) String() string {
	switch s {
	case Handshaking:
		return "Handshaking"
	case Active:
		return "Active"
	case Closing:
		return "Closing"
	default:
		return "Closed"
	}
}

// Session owns one line channel and, once a name has been read, one mailbox
// receiver. It is the only goroutine consuming either, so no cancellation
// signal beyond the channel itself is needed: a read or write failure drives
// the session straight to teardown.
type Session struct {
	id       string
	log      *slog.Logger
	registry contract.IRegistry
	channel  contract.LineChannel
	state    State
}

func New(log *slog.Logger, registry contract.IRegistry, channel contract.LineChannel) *Session {
	id := uuid.NewString()
	return &Session{
		id:       id,
		log:      log.With("session_id", id),
		registry: registry,
		channel:  channel,
		state:    Handshaking,
	}
}

func (s *Session) State() State {
	return s.state
}

// Run executes the full lifecycle: handshake, active relay loop, teardown.
// It returns once the peer has disconnected or the context is canceled.
// Errors local to this peer are returned for logging, never propagated to
// other sessions.
func (s *Session) Run(ctx context.Context) error {
	defer func() {
		s.transition(Closed)
		_ = s.channel.Close()
	}()

	name, err := s.handshake()
	if err != nil {
		// No registration happened, so nobody is told about this peer.
		s.log.Debug("Handshake aborted", "error", err)
		return nil
	}

	mailbox := s.registry.Register(name)
	defer mailbox.Close()
	s.transition(Active)
	s.log.Info("Peer joined", "peer", name)

	if err := s.registry.Broadcast(domain.NewJoined(name)); err != nil {
		s.log.Warn("Join broadcast reaped peers", "peer", name, "error", err)
	}

	activeErr := s.active(ctx, name, mailbox)

	s.transition(Closing)
	s.registry.Unregister(name)
	s.log.Info("Peer left", "peer", name)
	if err := s.registry.Broadcast(domain.NewLeft(name)); err != nil {
		// Teardown still completes; the caller just learns about the reaping.
		activeErr = errors.Join(activeErr, err)
	}

	return activeErr
}

// handshake prompts for a name and reads it verbatim.
// The name is not trimmed or validated; empty names are accepted.
func (s *Session) handshake() (string, error) {
	if err := s.channel.WriteLine(namePrompt); err != nil {
		return "", fmt.Errorf("send name prompt: %w", err)
	}
	name, err := s.channel.ReadLine()
	if err != nil {
		return "", fmt.Errorf("read name: %w", err)
	}
	return name, nil
}

type lineResult struct {
	line string
	err  error
}

// active is the dual-wait loop: it races the next mailbox message against
// the next incoming line and handles whichever is ready first, so neither
// a chatty room nor a chatty peer can starve the other side.
func (s *Session) active(ctx context.Context, name string, mailbox contract.MailboxReceiver) error {
	pumpCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan lineResult)
	go s.readPump(pumpCtx, lines)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-mailbox.Messages():
			if err := s.channel.WriteLine(msg.String()); err != nil {
				return fmt.Errorf("deliver to peer %q: %w", name, err)
			}
		case res := <-lines:
			switch {
			case res.err == nil:
				if err := s.registry.Broadcast(domain.NewChat(name, res.line)); err != nil {
					s.log.Warn("Chat broadcast reaped peers", "peer", name, "error", err)
				}
			case errors.Is(res.err, relayerrors.ErrMalformedLine):
				s.log.Debug("Skipping malformed line", "peer", name)
			default:
				// Peer disconnected.
				return nil
			}
		}
	}
}

// readPump feeds incoming lines into the active loop. It exits on the first
// fatal read error or once the loop is gone.
func (s *Session) readPump(ctx context.Context, lines chan<- lineResult) {
	for {
		line, err := s.channel.ReadLine()
		select {
		case lines <- lineResult{line: line, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil && !errors.Is(err, relayerrors.ErrMalformedLine) {
			return
		}
	}
}

func (s *Session) transition(next State) {
	s.log.Debug("Session state change", "from", s.state.String(), "to", next.String())
	s.state = next
}
