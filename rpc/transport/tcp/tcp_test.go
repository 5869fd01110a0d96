package tcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ValentinKolb/dComm/rpc/common"
	"github.com/ValentinKolb/dComm/rpc/processing"
	"github.com/ValentinKolb/dComm/rpc/serializer"
	"github.com/ValentinKolb/dComm/rpc/transport/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tunedSocket() (common.SocketConf, common.TCPConf) {
	return common.SocketConf{WriteBufferSize: 128 * 1024, ReadBufferSize: 128 * 1024},
		common.TCPConf{TCPNoDelay: true, TCPKeepAliveSec: 30, TCPLingerSec: 1}
}

func TestUpgradeConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			_ = conn.Close()
		}
	}()

	client := &clientConnector{}
	conn, err := client.Connect(ln.Addr().String(), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	socket, tcpConf := tunedSocket()
	assert.NoError(t, client.UpgradeConnection(conn, socket, tcpConf))
	assert.Equal(t, "tcp", client.GetName())

	// non tcp connections are left alone
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	assert.NoError(t, client.UpgradeConnection(a, socket, tcpConf))
}

func TestListenerConnectorRoundTrip(t *testing.T) {
	proc := processing.NewFrameProcessing(serializer.NewJSONSerializer(), processing.UpperHandler, 0)
	socket, tcpConf := tunedSocket()

	config := common.DefaultListenerConfig()
	config.Workers = 2
	config.SocketConf = socket
	config.TCPConf = tcpConf

	l := NewListener(context.Background(), config, proc, base.WithLogger(common.NewMuteLogger()))
	done, err := l.Start("127.0.0.1:0")
	require.NoError(t, err)

	connConfig := common.DefaultConnectorConfig(l.Addr())
	connConfig.SocketConf = socket
	connConfig.TCPConf = tcpConf

	c, err := NewConnector(connConfig, proc, base.WithLogger(common.NewMuteLogger()))
	require.NoError(t, err)

	c.PostMessage(common.NewTextMessage("hello"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := c.GetMessageContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", string(msg.Body))

	c.PostMessage(common.NewEndMessage())
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("connector did not terminate after END")
	}

	require.NoError(t, l.Stop())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not terminate")
	}
}

func TestConnectRefused(t *testing.T) {
	config := common.DefaultConnectorConfig("127.0.0.1:1")
	config.TimeoutSecond = 1

	c, err := NewConnector(config, processing.NewFrameProcessing(serializer.NewBinarySerializer(), nil, 0),
		base.WithLogger(common.NewMuteLogger()))
	assert.ErrorIs(t, err, base.ErrConnectFailed)
	assert.Nil(t, c)
}
