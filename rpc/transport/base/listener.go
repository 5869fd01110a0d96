package base

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dComm/lib/pool"
	"github.com/ValentinKolb/dComm/lib/queue"
	"github.com/ValentinKolb/dComm/rpc/common"
	"github.com/ValentinKolb/dComm/rpc/processing"
	"github.com/ValentinKolb/dComm/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener bound to endpoint and returns it
	Listen(endpoint string) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, socket common.SocketConf, tcp common.TCPConf) error

	// Client returns the client connector of the same medium, used by Stop to
	// connect to the own address
	Client() IClientConnector
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// listener implements transport.IListener
type listener struct {
	ctx    context.Context
	cancel context.CancelFunc

	server IServerConnector
	config common.ListenerConfig
	proc   processing.IProcessing
	log    logger.ILogger

	mu      sync.Mutex
	started bool
	addr    string

	wakeOnce sync.Once
	wakeErr  error

	sessions      *xsync.MapOf[uint64, string]
	nextSessionID atomic.Uint64
}

// -----------------------------------------------------------
// Listener Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewListener creates a listener. Nothing is bound and no goroutine is started
// until Start. Cancelling ctx has the same effect as calling Stop.
func NewListener(ctx context.Context, server IServerConnector, config common.ListenerConfig, proc processing.IProcessing, opts ...Option) transport.IListener {
	o := buildOptions(opts)
	ctx, cancel := context.WithCancel(ctx)

	return &listener{
		ctx:      ctx,
		cancel:   cancel,
		server:   server,
		config:   config,
		proc:     proc,
		log:      o.logger,
		sessions: xsync.NewMapOf[uint64, string](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IListener)
// --------------------------------------------------------------------------

func (l *listener) Start(endpoint string) (<-chan struct{}, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return nil, ErrAlreadyStarted
	}
	if l.ctx.Err() != nil {
		return nil, ErrListenerStopped
	}
	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	nl, err := l.server.Listen(endpoint)
	if err != nil {
		l.log.Errorf("Failed to bind %s listener to %s: %v", l.server.GetName(), endpoint, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrBindFailed, endpoint, err)
	}

	l.started = true
	l.addr = nl.Addr().String()

	l.log.Infof("Starting %s listener on %s with %d workers", l.server.GetName(), l.addr, l.config.Workers)

	done := make(chan struct{})
	stopWatch := context.AfterFunc(l.ctx, func() {
		if err := l.wake(); err != nil {
			l.log.Warningf("Failed to wake listener on %s: %v", l.addr, err)
		}
	})
	go l.acceptLoop(nl, done, stopWatch)

	return done, nil
}

func (l *listener) Stop() error {
	l.cancel()

	l.mu.Lock()
	started := l.started
	l.mu.Unlock()

	if !started {
		return ErrNotStarted
	}
	return l.wake()
}

func (l *listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addr
}

func (l *listener) Running() bool {
	return l.ctx.Err() == nil
}

func (l *listener) ActiveSessions() int {
	return l.sessions.Size()
}

// --------------------------------------------------------------------------
// Accept Loop
// --------------------------------------------------------------------------

// acceptLoop hands accepted connections to the pool until the context is cancelled
func (l *listener) acceptLoop(nl net.Listener, done chan struct{}, stopWatch func() bool) {
	defer close(done)

	workers := pool.NewThreadPool[net.Conn](l.ctx, l.config.Workers, l.dispatch,
		pool.WithMetricsPrefix[net.Conn]("dcomm_listener_pool"))

	for {
		conn, err := nl.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				l.log.Warningf("Listener on %s closed unexpectedly", l.addr)
				break
			}
			acceptErrorsTotal.Inc()
			l.log.Debugf("Accept error: %v", err)
			continue
		}

		if l.ctx.Err() != nil {
			_ = conn.Close()
			break
		}

		acceptedTotal.Inc()
		if err := workers.Post(conn); err != nil {
			l.log.Warningf("Failed to dispatch connection from %s: %v", conn.RemoteAddr(), err)
			_ = conn.Close()
		}
	}

	if err := workers.Stop(l.config.StopTimeout()); err != nil {
		l.log.Warningf("Failed to stop listener workers: %v", err)
	}
	for _, conn := range workers.Drain() {
		_ = conn.Close()
	}
	_ = nl.Close()
	stopWatch()

	l.log.Infof("Terminating %s listener on %s", l.server.GetName(), l.addr)
}

// dispatch is the pool work function: every connection gets its own handler goroutine
func (l *listener) dispatch(ctx context.Context, conn net.Conn) error {
	if ctx.Err() != nil {
		l.log.Debugf("Terminating listener worker")
		_ = conn.Close()
		return pool.ErrStopWorker
	}
	go l.handle(conn)
	return nil
}

// wake connects to the own address once and posts QUIT so the blocked accept returns
func (l *listener) wake() error {
	l.wakeOnce.Do(func() {
		config := common.DefaultConnectorConfig(l.Addr())
		config.SocketConf = l.config.SocketConf
		config.TCPConf = l.config.TCPConf

		c, err := NewConnector(l.server.Client(), config, l.proc, WithLogger(l.log))
		if err != nil {
			l.wakeErr = err
			return
		}
		c.PostMessage(common.NewQuitMessage())
		c.Close()
	})
	return l.wakeErr
}

// --------------------------------------------------------------------------
// Connection Handler
// --------------------------------------------------------------------------

// handle runs the message loop of one accepted connection and closes it on exit
func (l *listener) handle(conn net.Conn) {
	id := l.nextSessionID.Add(1)
	remote := conn.RemoteAddr().String()

	l.sessions.Store(id, remote)
	handlersActive.Inc()
	defer func() {
		_ = conn.Close()
		handlersActive.Dec()
		l.sessions.Delete(id)
	}()

	reason := l.serve(id, conn)
	handlerTerminations(reason).Inc()
	l.log.Debugf("Session %d (%s) terminated: %s", id, remote, reason)
}

// serve loops receive, process, send until a terminal message or an I/O failure
// and returns the termination reason
func (l *listener) serve(id uint64, conn net.Conn) string {
	if err := l.server.UpgradeConnection(conn, l.config.SocketConf, l.config.TCPConf); err != nil {
		l.log.Warningf("Session %d: failed to upgrade connection: %v", id, err)
		return reasonUpgrade
	}

	bufferSize := l.config.BufferSize
	if bufferSize <= 0 {
		bufferSize = common.DefaultBufferSize
	}
	r := bufio.NewReaderSize(conn, bufferSize)
	w := bufio.NewWriterSize(conn, bufferSize)

	inbound := queue.NewBlockingQueue[*common.Message]()
	defer inbound.Close()

	sent := messagesSent("listener")
	received := messagesReceived("listener")

	for {
		// AWAIT_MESSAGE
		if err := l.proc.Recv(r, inbound); err != nil {
			if errors.Is(err, io.EOF) {
				l.log.Debugf("Session %d: connection closed by peer", id)
				return reasonEOF
			}
			l.log.Warningf("Session %d: receive failed: %v", id, err)
			return reasonRecvError
		}
		received.Inc()

		msg, ok := inbound.DeQ()
		if !ok {
			return reasonRecvError
		}

		switch msg.GetType() {
		case common.MsgTEnd:
			l.log.Debugf("Session %d: listener received END message", id)
			return reasonEnd
		case common.MsgTQuit:
			l.log.Debugf("Session %d: listener received QUIT message", id)
			return reasonQuit
		case common.MsgTShutdown:
			if hc, ok := conn.(halfCloser); ok {
				_ = hc.CloseRead()
				_ = hc.CloseWrite()
			}
			l.log.Debugf("Session %d: listener received SHUTDOWN message", id)
			return reasonShutdown
		}

		// PROCESS
		start := time.Now()
		reply := l.proc.Process(msg)
		processDuration.UpdateDuration(start)
		if reply == nil {
			continue
		}

		if err := l.proc.Send(reply, w); err != nil {
			l.log.Warningf("Session %d: failed to send reply: %v", id, err)
			return reasonSendError
		}
		sent.Inc()
	}
}
