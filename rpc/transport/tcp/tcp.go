package tcp

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

// NewListener creates a TCP listener, see base.NewListener
func NewListener(ctx context.Context, config common.ListenerConfig, proc processing.IProcessing, opts ...base.Option) transport.IListener {
	return base.NewListener(ctx, &serverConnector{}, config, proc, opts...)
}

// NewConnector connects to a TCP listener, see base.NewConnector
func NewConnector(config common.ConnectorConfig, proc processing.IProcessing, opts ...base.Option) (transport.IConnector, error) {
	return base.NewConnector(&clientConnector{}, config, proc, opts...)
}
