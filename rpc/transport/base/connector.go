package base

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/ValentinKolb/dComm/lib/queue"
	"github.com/ValentinKolb/dComm/rpc/common"
	"github.com/ValentinKolb/dComm/rpc/processing"
	"github.com/ValentinKolb/dComm/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect dials the endpoint, a timeout of 0 means no timeout
	Connect(endpoint string, timeout time.Duration) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, socket common.SocketConf, tcp common.TCPConf) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// halfCloser is implemented by connections that can shut down one direction
type halfCloser interface {
	CloseRead() error
	CloseWrite() error
}

// connector implements transport.IConnector on top of any stream connection
type connector struct {
	outbound  *queue.BlockingQueue[*common.Message]
	inbound   *queue.BlockingQueue[*common.Message]
	connected bool
	endpoint  string
	log       logger.ILogger

	done    chan struct{}
	errMu   sync.Mutex
	sendErr error
}

// -----------------------------------------------------------
// Connector Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewConnector dials config.Endpoint once. On failure the error wraps ErrConnectFailed
// and no goroutine is started. On success the send and receive pumps run until the
// connection ends, independent of the returned value.
func NewConnector(client IClientConnector, config common.ConnectorConfig, proc processing.IProcessing, opts ...Option) (transport.IConnector, error) {
	o := buildOptions(opts)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}

	conn, err := client.Connect(config.Endpoint, config.DialTimeout())
	if err != nil {
		connectFailuresTotal.Inc()
		o.logger.Errorf("Connection to %s failed: %v", config.Endpoint, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrConnectFailed, config.Endpoint, err)
	}

	if err := client.UpgradeConnection(conn, config.SocketConf, config.TCPConf); err != nil {
		_ = conn.Close()
		connectFailuresTotal.Inc()
		o.logger.Errorf("Failed to upgrade %s connection to %s: %v", client.GetName(), config.Endpoint, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrConnectFailed, config.Endpoint, err)
	}

	bufferSize := config.BufferSize
	if bufferSize <= 0 {
		bufferSize = common.DefaultBufferSize
	}

	c := &connector{
		outbound:  queue.NewBlockingQueue[*common.Message](),
		inbound:   queue.NewBlockingQueue[*common.Message](),
		connected: true,
		endpoint:  config.Endpoint,
		log:       o.logger,
		done:      make(chan struct{}),
	}

	w := bufio.NewWriterSize(conn, bufferSize)
	r := bufio.NewReaderSize(conn, bufferSize)

	var pumps sync.WaitGroup
	pumps.Add(2)
	go func() {
		defer pumps.Done()
		if err := sendPump(conn, w, c.outbound, proc, c.log); err != nil {
			c.errMu.Lock()
			c.sendErr = err
			c.errMu.Unlock()
		}
	}()
	go func() {
		defer pumps.Done()
		recvPump(r, c.inbound, proc, c.log)
	}()
	go func() {
		pumps.Wait()
		_ = conn.Close()
		c.outbound.Close()
		close(c.done)
	}()

	connectsTotal.Inc()
	o.logger.Debugf("Connected to %s using %s transport", config.Endpoint, client.GetName())
	return c, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IConnector)
// --------------------------------------------------------------------------

func (c *connector) PostMessage(msg *common.Message) {
	if !c.outbound.EnQ(msg) {
		c.log.Debugf("Dropping %s message for %s, connector closed", msg.GetType(), c.endpoint)
	}
}

func (c *connector) GetMessage() *common.Message {
	msg, ok := c.inbound.DeQ()
	if !ok {
		return nil
	}
	return msg
}

func (c *connector) GetMessageContext(ctx context.Context) (*common.Message, error) {
	msg, ok, err := c.inbound.DeQContext(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConnectionClosed
	}
	return msg, nil
}

func (c *connector) HasMsg() bool {
	return c.inbound.Len() > 0
}

func (c *connector) IsConnected() bool {
	return c.connected
}

func (c *connector) Close() {
	c.outbound.Close()
}

func (c *connector) Done() <-chan struct{} {
	return c.done
}

func (c *connector) SendErr() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.sendErr
}

// --------------------------------------------------------------------------
// Pumps
// --------------------------------------------------------------------------

// sendPump writes queued messages until a terminal END was sent, a write fails
// or the queue is closed. A closed queue shuts down the write side of conn.
func sendPump(conn net.Conn, w *bufio.Writer, outbound *queue.BlockingQueue[*common.Message], proc processing.IProcessing, log logger.ILogger) error {
	sent := messagesSent("connector")
	for {
		msg, ok := outbound.DeQ()
		if !ok {
			if hc, ok := conn.(halfCloser); ok {
				_ = hc.CloseWrite()
			}
			log.Debugf("Outbound queue closed, terminating send pump")
			return nil
		}

		msgType := msg.GetType()
		if err := proc.Send(msg, w); err != nil {
			log.Warningf("Failed to send %s message: %v", msgType, err)
			return err
		}
		sent.Inc()

		if msgType == common.MsgTEnd {
			log.Debugf("END message sent, terminating send pump")
			return nil
		}
	}
}

// recvPump moves received messages into inbound until the stream fails or ends.
// inbound is closed on exit so blocked readers return.
func recvPump(r *bufio.Reader, inbound *queue.BlockingQueue[*common.Message], proc processing.IProcessing, log logger.ILogger) {
	defer inbound.Close()

	received := messagesReceived("connector")
	for {
		if err := proc.Recv(r, inbound); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				log.Debugf("Connection closed, terminating receive pump")
			} else {
				log.Debugf("Receive failed, terminating receive pump: %v", err)
			}
			return
		}
		received.Inc()
	}
}
