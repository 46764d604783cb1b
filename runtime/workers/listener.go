package workers

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"relay-lab/contract"
	"relay-lab/session"
	"relay-lab/transport"
)

// ListenerWorker accepts connections and spawns one session goroutine per
// peer. It does not own the net.Listener: binding happens at startup so a
// bind failure is fatal to the whole process, while accept errors after
// startup are logged and the loop keeps going.
type ListenerWorker struct {
	log      *slog.Logger
	registry contract.IRegistry
	listener net.Listener
}

func NewListenerWorker(log *slog.Logger, registry contract.IRegistry, listener net.Listener) *ListenerWorker {
	return &ListenerWorker{log: log, registry: registry, listener: listener}
}

func (w *ListenerWorker) Run(ctx context.Context) error {
	// Unblock Accept when the context is canceled.
	go func() {
		<-ctx.Done()
		_ = w.listener.Close()
	}()

	for {
		conn, err := w.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			w.log.Warn("Accept failed, continuing", "error", err)
			continue
		}

		w.log.Info("Peer connected", "remote", conn.RemoteAddr().String())
		sess := session.New(w.log, w.registry, transport.NewTextConn(conn))
		go func() {
			// A session failure stays local to its peer.
			if err := sess.Run(ctx); err != nil {
				w.log.Warn("Session ended with error", "error", err)
			}
		}()
	}
}
