package transport

import (
	"context"

	"github.com/ValentinKolb/dComm/rpc/common"
)

// --------------------------------------------------------------------------
// Listener
// --------------------------------------------------------------------------

// IListener accepts connections and serves each one with its own message loop
type IListener interface {
	// Start binds the endpoint and starts the accept loop in the background.
	// The returned channel is closed once the accept loop has fully terminated.
	// A bind failure is returned and nothing else happens.
	Start(endpoint string) (<-chan struct{}, error)

	// Stop requests shutdown: the listener context is cancelled and the blocked
	// accept call is woken by a QUIT from a transient connection to the own address.
	// Stop is idempotent.
	Stop() error

	// Addr returns the bound address, empty before Start
	Addr() string

	// Running reports whether the listener has not been cancelled yet
	Running() bool

	// ActiveSessions returns the number of connections currently being served
	ActiveSessions() int
}

// --------------------------------------------------------------------------
// Connector
// --------------------------------------------------------------------------

// IConnector is the client side of a duplex message channel
type IConnector interface {
	// PostMessage queues a message for sending. It never blocks and reports nothing.
	PostMessage(msg *common.Message)

	// GetMessage blocks until a message was received. It returns nil once the
	// connection is gone and every received message has been consumed.
	GetMessage() *common.Message

	// GetMessageContext is GetMessage bounded by ctx
	GetMessageContext(ctx context.Context) (*common.Message, error)

	// HasMsg reports whether received messages are waiting (a hint, not a guarantee)
	HasMsg() bool

	// IsConnected reports the outcome of the initial connect
	IsConnected() bool

	// Close stops accepting new messages. Already queued messages are still sent,
	// then the write side of the connection is shut down.
	// Callers must always call Close: a peer closing the connection only ends the
	// receive side, the send pump and the connection are released by Close
	// (or by a failed send).
	Close()

	// Done is closed when both pumps have exited and the connection is closed
	Done() <-chan struct{}

	// SendErr returns the error that stopped the send pump, if any
	SendErr() error
}
