package processing

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/ValentinKolb/dComm/lib/queue"
	"github.com/ValentinKolb/dComm/rpc/common"
	"github.com/ValentinKolb/dComm/rpc/serializer"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("processing")

var ErrQueueClosed = errors.New("receive queue closed")

var (
	framesWritten = metrics.NewCounter("dcomm_frames_written_total")
	framesRead    = metrics.NewCounter("dcomm_frames_read_total")
	bytesWritten  = metrics.NewCounter("dcomm_frame_bytes_written_total")
	bytesRead     = metrics.NewCounter("dcomm_frame_bytes_read_total")
)

// frameProcessing implements IProcessing with length-prefixed frames
type frameProcessing struct {
	serializer   serializer.IRPCSerializer
	handler      HandleFunc
	maxFrameSize uint32
}

// NewFrameProcessing creates the default processing strategy.
// A nil handler falls back to EchoHandler, maxFrameSize 0 uses DefaultMaxFrameSize.
//
// Usage:
//
//	proc := processing.NewFrameProcessing(
//		serializer.NewBinarySerializer(),
//		processing.EchoHandler,
//		0,
//	)
func NewFrameProcessing(s serializer.IRPCSerializer, handler HandleFunc, maxFrameSize uint32) IProcessing {
	if handler == nil {
		handler = EchoHandler
	}
	if maxFrameSize == 0 {
		maxFrameSize = DefaultMaxFrameSize
	}
	return &frameProcessing{
		serializer:   s,
		handler:      handler,
		maxFrameSize: maxFrameSize,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see processing.IProcessing)
// --------------------------------------------------------------------------

func (p *frameProcessing) Send(msg *common.Message, w *bufio.Writer) error {
	data, err := p.serializer.Serialize(*msg)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", msg.MsgType, err)
	}
	if uint32(len(data)) > p.maxFrameSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrFrameTooLarge, len(data), p.maxFrameSize)
	}

	if err := writeFrame(w, data); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	framesWritten.Inc()
	bytesWritten.Add(frameHeaderSize + len(data))
	return nil
}

func (p *frameProcessing) Recv(r *bufio.Reader, q *queue.BlockingQueue[*common.Message]) error {
	data, err := readFrame(r, p.maxFrameSize)
	if err != nil {
		return err
	}
	framesRead.Inc()
	bytesRead.Add(frameHeaderSize + len(data))

	msg := &common.Message{}
	if err := p.serializer.Deserialize(data, msg); err != nil {
		Logger.Debugf("dropping undecodable frame of %d bytes", len(data))
		return fmt.Errorf("failed to deserialize frame: %w", err)
	}

	if !q.EnQ(msg) {
		return ErrQueueClosed
	}
	return nil
}

func (p *frameProcessing) Process(msg *common.Message) *common.Message {
	return p.handler(msg)
}

// --------------------------------------------------------------------------
// Handlers
// --------------------------------------------------------------------------

// EchoHandler replies with a data message carrying a copy of the request body
func EchoHandler(req *common.Message) *common.Message {
	resp := req.Clone()
	resp.SetType(common.MsgTData)
	return resp
}

// UpperHandler replies with the request body upper-cased (text payloads)
func UpperHandler(req *common.Message) *common.Message {
	return common.NewTextMessage(strings.ToUpper(string(req.Body)))
}

// HandlerFromName returns the handler registered under name (echo, upper)
func HandlerFromName(name string) (HandleFunc, error) {
	switch name {
	case "echo":
		return EchoHandler, nil
	case "upper":
		return UpperHandler, nil
	default:
		return nil, fmt.Errorf("invalid handler %s", name)
	}
}
