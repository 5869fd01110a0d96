package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/dComm/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format:
//
//	1 byte  MsgType
//	1 byte  flags
//	4 bytes body length (uint32, big endian)  - only if hasBody is set
//	N bytes body                               - only if hasBody is set
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasBody byte = 1 << 0
)

const binaryHeaderSize = 2

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	if !msg.MsgType.IsValid() {
		return nil, fmt.Errorf("cannot serialize message type %s", msg.MsgType)
	}

	result := make([]byte, b.sizeBytes(msg))
	result[0] = byte(msg.MsgType)

	var flags byte = 0
	pos := binaryHeaderSize

	// A nil body is omitted, an empty body is kept so it survives the round trip
	if msg.Body != nil {
		flags |= hasBody
		bodyLen := len(msg.Body)

		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(bodyLen))
		pos += 4

		copy(result[pos:pos+bodyLen], msg.Body)
	}

	result[1] = flags
	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	if len(data) < binaryHeaderSize {
		return fmt.Errorf("data too short for message header")
	}

	msgType := common.MessageType(data[0])
	if !msgType.IsValid() {
		return fmt.Errorf("unknown message type %d", data[0])
	}
	msg.MsgType = msgType

	flags := data[1]
	pos := binaryHeaderSize

	if flags&hasBody == 0 {
		msg.Body = nil
		return nil
	}

	if pos+4 > len(data) {
		return fmt.Errorf("data too short for body length")
	}
	bodyLen := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4

	if pos+bodyLen > len(data) {
		return fmt.Errorf("data too short for body data")
	}

	// reuse the callers buffer when it is large enough
	if msg.Body == nil || cap(msg.Body) < bodyLen {
		msg.Body = make([]byte, bodyLen)
	} else {
		msg.Body = msg.Body[:bodyLen]
	}
	copy(msg.Body, data[pos:pos+bodyLen])

	return nil
}

// sizeBytes returns the exact number of bytes Serialize will produce
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	size := binaryHeaderSize
	if msg.Body != nil {
		size += 4 + len(msg.Body)
	}
	return size
}
