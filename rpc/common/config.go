package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	DefaultWorkers           = 4
	DefaultBufferSize        = 64 * 1024 // 64 KB bufio reader/writer per connection
	DefaultStopTimeoutSecond = 5
	DefaultLogLevel          = "info"
)

// --------------------------------------------------------------------------
// Socket configuration (shared by listener and connector)
// --------------------------------------------------------------------------

// SocketConf holds socket buffer settings, 0 keeps the OS default
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP specific settings, ignored by other transports
type TCPConf struct {
	// TCPNoDelay disables Nagle's algorithm
	TCPNoDelay bool
	// TCPKeepAliveSec enables keep-alive with this period if > 0
	TCPKeepAliveSec int
	// TCPLingerSec sets SO_LINGER if > 0, 0 keeps the OS default
	TCPLingerSec int
}

// --------------------------------------------------------------------------
// Listener configuration struct
// --------------------------------------------------------------------------

// ListenerConfig holds all configuration parameters of a Listener
type ListenerConfig struct {
	// Workers is the number of pool workers dispatching accepted connections
	Workers int

	// StopTimeoutSecond bounds how long the accept loop waits for the pool on exit
	StopTimeoutSecond int

	// BufferSize of the bufio reader and writer of every accepted connection
	BufferSize int

	SocketConf SocketConf
	TCPConf    TCPConf

	// Logging configuration
	LogLevel string
}

// DefaultListenerConfig returns a config with sensible defaults
func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		Workers:           DefaultWorkers,
		StopTimeoutSecond: DefaultStopTimeoutSecond,
		BufferSize:        DefaultBufferSize,
		TCPConf:           TCPConf{TCPNoDelay: true},
		LogLevel:          DefaultLogLevel,
	}
}

// Validate checks the configuration for obvious mistakes
func (c *ListenerConfig) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("listener needs at least one worker, got %d", c.Workers)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("invalid buffer size %d", c.BufferSize)
	}
	return nil
}

// StopTimeout returns StopTimeoutSecond as a duration, falling back to the default
func (c *ListenerConfig) StopTimeout() time.Duration {
	if c.StopTimeoutSecond <= 0 {
		return DefaultStopTimeoutSecond * time.Second
	}
	return time.Duration(c.StopTimeoutSecond) * time.Second
}

// String returns a formatted string representation of the configuration
func (c *ListenerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Listener")
	addField("Workers", strconv.Itoa(c.Workers))
	addField("Stop Timeout", fmt.Sprintf("%d sec", c.StopTimeoutSecond))
	addField("Buffer Size", fmt.Sprintf("%d KB", c.BufferSize/1024))

	writeSocketFields(addSection, addField, c.SocketConf, c.TCPConf)

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Connector configuration struct
// --------------------------------------------------------------------------

// ConnectorConfig holds all configuration parameters of a Connector
type ConnectorConfig struct {
	// Endpoint is the address of the listener
	Endpoint string

	// TimeoutSecond bounds the initial dial, 0 means no timeout
	TimeoutSecond int

	// BufferSize of the bufio reader and writer
	BufferSize int

	SocketConf SocketConf
	TCPConf    TCPConf
}

// DefaultConnectorConfig returns a config with sensible defaults for endpoint
func DefaultConnectorConfig(endpoint string) ConnectorConfig {
	return ConnectorConfig{
		Endpoint:      endpoint,
		TimeoutSecond: 5,
		BufferSize:    DefaultBufferSize,
		TCPConf:       TCPConf{TCPNoDelay: true},
	}
}

// Validate checks the configuration for obvious mistakes
func (c *ConnectorConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("connector needs an endpoint")
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("invalid buffer size %d", c.BufferSize)
	}
	return nil
}

// DialTimeout returns TimeoutSecond as a duration (0 = none)
func (c *ConnectorConfig) DialTimeout() time.Duration {
	if c.TimeoutSecond <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSecond) * time.Second
}

// String returns a formatted string representation of the connector configuration
func (c *ConnectorConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Connector")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Buffer Size", fmt.Sprintf("%d KB", c.BufferSize/1024))

	writeSocketFields(addSection, addField, c.SocketConf, c.TCPConf)

	return sb.String()
}

// writeSocketFields adds the socket and tcp sections shared by both configs
func writeSocketFields(addSection func(string), addField func(string, string), s SocketConf, t TCPConf) {
	addSection("Socket")
	addField("Write Buffer", fmt.Sprintf("%d bytes", s.WriteBufferSize))
	addField("Read Buffer", fmt.Sprintf("%d bytes", s.ReadBufferSize))
	addField("TCP No Delay", strconv.FormatBool(t.TCPNoDelay))
	addField("TCP Keep Alive", fmt.Sprintf("%d sec", t.TCPKeepAliveSec))
	addField("TCP Linger", fmt.Sprintf("%d sec", t.TCPLingerSec))
}
