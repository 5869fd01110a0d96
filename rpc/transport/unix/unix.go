package unix

import (
	"context"

	"github.com/ValentinKolb/dComm/rpc/common"
	"github.com/ValentinKolb/dComm/rpc/processing"
	"github.com/ValentinKolb/dComm/rpc/transport"
	"github.com/ValentinKolb/dComm/rpc/transport/base"
)

// --------------------------------------------------------------------------
// Factory Methods
// --------------------------------------------------------------------------

// NewListener creates a Unix socket listener, the endpoint passed to Start is the socket path
func NewListener(ctx context.Context, config common.ListenerConfig, proc processing.IProcessing, opts ...base.Option) transport.IListener {
	return base.NewListener(ctx, &serverConnector{}, config, proc, opts...)
}

// NewConnector connects to a Unix socket listener, config.Endpoint is the socket path
func NewConnector(config common.ConnectorConfig, proc processing.IProcessing, opts ...base.Option) (transport.IConnector, error) {
	return base.NewConnector(&clientConnector{}, config, proc, opts...)
}
