package processing

import (
	"bufio"

	"github.com/ValentinKolb/dComm/lib/queue"
	"github.com/ValentinKolb/dComm/rpc/common"
)

// IProcessing is the pluggable message strategy used by Connector and Listener
type IProcessing interface {
	// Send encodes msg onto w and flushes it
	Send(msg *common.Message, w *bufio.Writer) error
	// Recv decodes exactly one message from r and pushes it to q
	// A clean close by the peer is reported as io.EOF
	Recv(r *bufio.Reader, q *queue.BlockingQueue[*common.Message]) error
	// Process turns a received message into its reply
	// A nil reply means nothing is sent back
	Process(msg *common.Message) *common.Message
}

// HandleFunc is the application logic behind Process
type HandleFunc func(req *common.Message) (resp *common.Message)
