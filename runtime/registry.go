// Package runtime handles peer registration and message fan-out.
// It coordinates delivery between sessions without owning any transport logic.
package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"relay-lab/contract"
	"relay-lab/domain"
	relayerrors "relay-lab/errors"
)

// Registry is the process-wide map of connected peers.
// It is the only state shared across sessions; every access goes through
// the mutex so register, unregister and snapshot stay atomic per entry.
type Registry struct {
	mu       sync.RWMutex
	log      *slog.Logger
	peers    map[string]*Mailbox // peer name -> mailbox producer side
	capacity int
}

func NewRegistry(log *slog.Logger, capacity int) *Registry {
	return &Registry{
		log:      log,
		peers:    make(map[string]*Mailbox),
		capacity: capacity,
	}
}

// Register creates a fresh mailbox for name and returns its receiving end.
// A prior entry for the same name is overwritten: a reconnect replaces the
// old sender and the orphaned mailbox is reaped when next broadcast to.
func (r *Registry) Register(name string) contract.MailboxReceiver {
	mailbox := NewMailbox(r.capacity)

	r.mu.Lock()
	r.peers[name] = mailbox
	r.mu.Unlock()

	return mailbox
}

// Unregister removes the entry for name if present. Idempotent.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.peers, name)
	r.mu.Unlock()
}

// Snapshot copies the current peer map so callers can iterate while
// registrations and removals proceed concurrently.
func (r *Registry) Snapshot() map[string]*Mailbox {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Assign(make(map[string]*Mailbox, len(r.peers)), r.peers)
}

// Names lists currently registered peers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.peers)
}

// Broadcast fans msg out to every registered peer except its sender.
// Peers whose mailbox has been closed are treated as disconnected: they are
// unregistered first, then a synthetic Left message is broadcast for them.
// The reap queue replaces the naive recursive formulation, so two peers
// failing at the same time cannot loop. Delivery failures are joined and
// returned to the caller; the fan-out itself always runs to completion.
func (r *Registry) Broadcast(msg *domain.Message) error {
	var errs []error

	queue := []*domain.Message{msg}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, name := range r.fanout(current) {
			// Unregister before announcing the departure so the Left
			// broadcast can never target the reaped peer again.
			r.Unregister(name)
			r.log.Warn("Reaping peer with closed mailbox", "peer", name)
			queue = append(queue, domain.NewLeft(name))
			errs = append(errs, fmt.Errorf("deliver %q to %q: %w", current, name, relayerrors.ErrMailboxClosed))
		}
	}

	return errors.Join(errs...)
}

// fanout delivers msg to all peers except the sender and reports the names
// whose mailbox refused it. One goroutine per target: a full mailbox may
// delay delivery to that peer, never to the others.
func (r *Registry) fanout(msg *domain.Message) []string {
	snapshot := r.Snapshot()

	failed := make(chan string, len(snapshot))
	var wg sync.WaitGroup

	for name, mailbox := range snapshot {
		if name == msg.Sender {
			continue
		}
		wg.Add(1)
		go func(name string, mailbox *Mailbox) {
			defer wg.Done()
			if err := mailbox.Send(msg); err != nil {
				failed <- name
			}
		}(name, mailbox)
	}

	wg.Wait()
	close(failed)

	var reaped []string
	for name := range failed {
		reaped = append(reaped, name)
	}
	return reaped
}
