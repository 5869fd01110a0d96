package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message is the unit exchanged between a Connector and a Listener.
// The transport only looks at MsgType, Body is opaque application payload.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Application payload
	Body []byte `json:"body,omitempty"`
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewMessage creates an ordinary data message carrying body
func NewMessage(body []byte) *Message {
	return &Message{
		MsgType: MsgTData,
		Body:    body,
	}
}

// NewTextMessage creates a data message from a string
func NewTextMessage(text string) *Message {
	return NewMessage([]byte(text))
}

// NewControlMessage creates a message of the given type without payload
func NewControlMessage(t MessageType) *Message {
	return &Message{MsgType: t}
}

// NewEndMessage creates an END message (graceful close initiated by the peer)
func NewEndMessage() *Message {
	return NewControlMessage(MsgTEnd)
}

// NewQuitMessage creates a QUIT message (used to wake a listener on shutdown)
func NewQuitMessage() *Message {
	return NewControlMessage(MsgTQuit)
}

// NewShutdownMessage creates a SHUTDOWN message (server shuts the socket down)
func NewShutdownMessage() *Message {
	return NewControlMessage(MsgTShutdown)
}

// --------------------------------------------------------------------------
// Message Methods
// --------------------------------------------------------------------------

// GetType returns the discriminant of the message
func (m *Message) GetType() MessageType {
	return m.MsgType
}

// SetType changes the discriminant of the message
func (m *Message) SetType(t MessageType) {
	m.MsgType = t
}

// IsTerminal reports whether the message ends a message loop instead of being answered
func (m *Message) IsTerminal() bool {
	return m.MsgType.IsTerminal()
}

// Clone returns a deep copy, safe to hand to another goroutine
func (m *Message) Clone() *Message {
	c := &Message{MsgType: m.MsgType}
	if m.Body != nil {
		c.Body = append([]byte{}, m.Body...)
	}
	return c
}

func (m *Message) String() string {
	return fmt.Sprintf("Message{type=%s, body=%d bytes}", m.MsgType, len(m.Body))
}

// --------------------------------------------------------------------------
// Message Type
// --------------------------------------------------------------------------

// MessageType is the discriminant of a Message
type MessageType uint8

const (
	MsgTUnknown  MessageType = iota // Zero value, handled like data
	MsgTData                        // Ordinary application message
	MsgTEnd                         // Peer is done, close the session
	MsgTQuit                        // Listener shutdown wake-up
	MsgTShutdown                    // Shut down both directions of the socket
)

// IsTerminal reports whether t is one of END, QUIT or SHUTDOWN
func (t MessageType) IsTerminal() bool {
	return t == MsgTEnd || t == MsgTQuit || t == MsgTShutdown
}

// IsValid reports whether t belongs to the closed set of message types
func (t MessageType) IsValid() bool {
	return t <= MsgTShutdown
}

func (t MessageType) String() string {
	switch t {
	case MsgTUnknown:
		return "unknown"
	case MsgTData:
		return "data"
	case MsgTEnd:
		return "end"
	case MsgTQuit:
		return "quit"
	case MsgTShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(t))
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseMessageType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseMessageType converts the name of a message type back to its value
func ParseMessageType(s string) (MessageType, error) {
	switch s {
	case "unknown":
		return MsgTUnknown, nil
	case "data":
		return MsgTData, nil
	case "end":
		return MsgTEnd, nil
	case "quit":
		return MsgTQuit, nil
	case "shutdown":
		return MsgTShutdown, nil
	default:
		return MsgTUnknown, fmt.Errorf("unknown message type: %s", s)
	}
}
