package runtime

import (
	"sync"

	"relay-lab/domain"
	"relay-lab/errors"
)

// Mailbox is the bounded outbound queue of one peer.
// Any session may produce into it through Send; only the owning session
// consumes from Messages. Delivery is FIFO. Send blocks while the mailbox
// is full rather than dropping, and fails with ErrMailboxClosed once the
// owner has closed it.
type Mailbox struct {
	messages chan *domain.Message
	done     chan struct{}
	once     sync.Once
}

func NewMailbox(capacity int) *Mailbox {
	return &Mailbox{
		messages: make(chan *domain.Message, capacity),
		done:     make(chan struct{}),
	}
}

// Send enqueues a message for the owning session.
// A closed mailbox is reported immediately even when buffer space is left,
// so a dead peer never absorbs messages silently.
func (m *Mailbox) Send(msg *domain.Message) error {
	select {
	case <-m.done:
		return errors.ErrMailboxClosed
	default:
	}
	select {
	case m.messages <- msg:
		return nil
	case <-m.done:
		return errors.ErrMailboxClosed
	}
}

func (m *Mailbox) Messages() <-chan *domain.Message {
	return m.messages
}

// Close marks the mailbox abandoned. Idempotent; pending messages are
// simply never consumed.
func (m *Mailbox) Close() {
	m.once.Do(func() {
		close(m.done)
	})
}

// Len and Cap are sampled by telemetry; both reads are non-blocking.
func (m *Mailbox) Len() int { return len(m.messages) }

func (m *Mailbox) Cap() int { return cap(m.messages) }
