package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ValentinKolb/dComm/rpc/common"
)

// NewJSONSerializer creates a new serializer producing one json object per message.
// Decoding is strict: unknown fields and trailing data are rejected.
func NewJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IRPCSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	if !msg.MsgType.IsValid() {
		return nil, fmt.Errorf("json: unknown message type %d", uint8(msg.MsgType))
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return b, nil
}

func (j jsonSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	*msg = common.Message{}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	// a frame carries exactly one message
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("json: trailing data after message")
	}
	return nil
}
