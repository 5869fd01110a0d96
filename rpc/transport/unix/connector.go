package unix

import (
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/ValentinKolb/dComm/rpc/common"
	"github.com/ValentinKolb/dComm/rpc/transport/base"
)

const staleDialTimeout = 500 * time.Millisecond

// clientConnector implements the IClientConnector interface for Unix sockets
type clientConnector struct{}

// serverConnector implements the IServerConnector interface for Unix sockets
type serverConnector struct {
	clientConnector
}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "unix"
}

func (c *clientConnector) Connect(endpoint string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", endpoint, timeout)
}

// UpgradeConnection applies the socket buffer sizes, TCPConf does not apply here
func (c *clientConnector) UpgradeConnection(conn net.Conn, socket common.SocketConf, _ common.TCPConf) error {
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return nil
	}

	if socket.WriteBufferSize > 0 {
		if err := unixConn.SetWriteBuffer(socket.WriteBufferSize); err != nil {
			return err
		}
	}
	if socket.ReadBufferSize > 0 {
		if err := unixConn.SetReadBuffer(socket.ReadBufferSize); err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IServerConnector)
// --------------------------------------------------------------------------

func (c *serverConnector) Listen(socketPath string) (net.Listener, error) {
	if _, err := os.Stat(socketPath); err == nil {
		// A socket that still accepts connections belongs to a live listener
		if conn, err := net.DialTimeout("unix", socketPath, staleDialTimeout); err == nil {
			_ = conn.Close()
			return nil, fmt.Errorf("socket %s is in use: %w", socketPath, syscall.EADDRINUSE)
		}

		// Remove a stale socket file left behind by a crashed process
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove existing socket: %v", err)
		}
	}

	return net.Listen("unix", socketPath)
}

func (c *serverConnector) Client() base.IClientConnector {
	return &clientConnector{}
}
