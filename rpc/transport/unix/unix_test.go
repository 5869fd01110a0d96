package unix

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ValentinKolb/dComm/rpc/common"
	"github.com/ValentinKolb/dComm/rpc/processing"
	"github.com/ValentinKolb/dComm/rpc/serializer"
	"github.com/ValentinKolb/dComm/rpc/transport/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// socketPath returns a short path, unix socket paths are limited to ~100 bytes
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "dcomm")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "test.sock")
}

func TestListenerConnectorRoundTrip(t *testing.T) {
	path := socketPath(t)
	proc := processing.NewFrameProcessing(serializer.NewGOBSerializer(), processing.EchoHandler, 0)

	config := common.DefaultListenerConfig()
	config.SocketConf = common.SocketConf{WriteBufferSize: 64 * 1024, ReadBufferSize: 64 * 1024}

	l := NewListener(context.Background(), config, proc, base.WithLogger(common.NewMuteLogger()))
	done, err := l.Start(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.Addr())

	c, err := NewConnector(common.DefaultConnectorConfig(path), proc, base.WithLogger(common.NewMuteLogger()))
	require.NoError(t, err)

	for _, body := range []string{"a", "b", "c"} {
		c.PostMessage(common.NewTextMessage(body))
	}
	for _, want := range []string{"a", "b", "c"} {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		msg, err := c.GetMessageContext(ctx)
		cancel()
		require.NoError(t, err)
		assert.Equal(t, want, string(msg.Body))
	}
	c.Close()

	// Stop wakes the accept loop over the socket path as well
	require.NoError(t, l.Stop())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not terminate")
	}
}

func TestListenRemovesStaleSocket(t *testing.T) {
	path := socketPath(t)
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	server := &serverConnector{}
	ln, err := server.Listen(path)
	require.NoError(t, err)
	defer ln.Close()
	assert.Equal(t, "unix", server.GetName())
}

func TestBindFailureOnLiveSocket(t *testing.T) {
	path := socketPath(t)
	proc := processing.NewFrameProcessing(serializer.NewBinarySerializer(), nil, 0)

	first := NewListener(context.Background(), common.DefaultListenerConfig(), proc, base.WithLogger(common.NewMuteLogger()))
	done, err := first.Start(path)
	require.NoError(t, err)

	second := NewListener(context.Background(), common.DefaultListenerConfig(), proc, base.WithLogger(common.NewMuteLogger()))
	_, err = second.Start(path)
	assert.ErrorIs(t, err, base.ErrBindFailed)
	assert.True(t, second.Running())

	// the first listener still serves its socket
	c, err := NewConnector(common.DefaultConnectorConfig(path), proc, base.WithLogger(common.NewMuteLogger()))
	require.NoError(t, err)
	c.PostMessage(common.NewTextMessage("still here"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := c.GetMessageContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "still here", string(msg.Body))
	c.Close()

	require.NoError(t, first.Stop())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not terminate")
	}
}
