//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"relay-lab/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// LineChannel is one framed text connection to a peer.
// ReadLine blocks until the next line arrives; a malformed line is reported
// with errors.ErrMalformedLine and the stream stays usable, any other error
// means the channel is gone for good.
type LineChannel interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
}

// MailboxReceiver is the consuming end of a peer's mailbox.
// It is owned by exactly one session; Close tells producers the
// owner is gone so the broadcast engine can reap the peer.
type MailboxReceiver interface {
	Messages() <-chan *domain.Message
	Close()
}

type IRegistry interface {
	Register(name string) MailboxReceiver
	Unregister(name string)
	Broadcast(msg *domain.Message) error
}
