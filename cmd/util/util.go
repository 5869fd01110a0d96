package util

import (
	"context"
	"fmt"
	"strings"

	"github.com/ValentinKolb/dComm/rpc/common"
	"github.com/ValentinKolb/dComm/rpc/processing"
	"github.com/ValentinKolb/dComm/rpc/serializer"
	"github.com/ValentinKolb/dComm/rpc/transport"
	"github.com/ValentinKolb/dComm/rpc/transport/tcp"
	"github.com/ValentinKolb/dComm/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig loads .env files and binds environment variables (DCOMM_<FLAG>)
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dcomm")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// --------------------------------------------------------------------------
// Flags
// --------------------------------------------------------------------------

// SetupSocketFlags adds the socket tuning flags shared by listener and connector commands
func SetupSocketFlags(cmd *cobra.Command) {
	key := "buffer-size"
	cmd.PersistentFlags().Int(key, common.DefaultBufferSize/1024, WrapString("Size of the read and write buffer of every connection (in KB)"))

	key = "socket-write-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("Socket send buffer size (in KB, 0 keeps the OS default)"))

	key = "socket-read-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("Socket receive buffer size (in KB, 0 keeps the OS default)"))

	key = "tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("The keepalive interval (in seconds, only for tcp)"))

	key = "tcp-linger"
	cmd.PersistentFlags().Int(key, 0, WrapString("The linger time (in seconds, only for tcp)"))
}

// SetupConnectorFlags adds the flags of commands acting as connector
func SetupConnectorFlags(cmd *cobra.Command) {
	key := "endpoint"
	cmd.PersistentFlags().String(key, "localhost:8080", WrapString("The address of the listener (host:port for tcp, a path for unix)"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, 5, WrapString("Timeout in seconds for connecting and waiting for replies"))

	SetupSocketFlags(cmd)
}

// --------------------------------------------------------------------------
// Config
// --------------------------------------------------------------------------

func getSocketConf() (common.SocketConf, common.TCPConf) {
	return common.SocketConf{
			WriteBufferSize: viper.GetInt("socket-write-buffer") * 1024,
			ReadBufferSize:  viper.GetInt("socket-read-buffer") * 1024,
		}, common.TCPConf{
			TCPNoDelay:      viper.GetBool("tcp-nodelay"),
			TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("tcp-linger"),
		}
}

// GetConnectorConfig reads the connector configuration from viper
func GetConnectorConfig() common.ConnectorConfig {
	conf := common.DefaultConnectorConfig(viper.GetString("endpoint"))
	conf.TimeoutSecond = viper.GetInt("timeout")
	conf.BufferSize = viper.GetInt("buffer-size") * 1024
	conf.SocketConf, conf.TCPConf = getSocketConf()
	return conf
}

// GetListenerConfig reads the listener configuration from viper
func GetListenerConfig() common.ListenerConfig {
	conf := common.DefaultListenerConfig()
	conf.Workers = viper.GetInt("workers")
	conf.StopTimeoutSecond = viper.GetInt("stop-timeout")
	conf.BufferSize = viper.GetInt("buffer-size") * 1024
	conf.LogLevel = viper.GetString("log-level")
	conf.SocketConf, conf.TCPConf = getSocketConf()
	return conf
}

// --------------------------------------------------------------------------
// Factories
// --------------------------------------------------------------------------

// GetProcessing creates the processing strategy from the serializer, handler and max-frame-size flags
func GetProcessing() (processing.IProcessing, error) {
	s, err := serializer.FromName(viper.GetString("serializer"))
	if err != nil {
		return nil, err
	}

	var handler processing.HandleFunc
	if name := viper.GetString("handler"); name != "" {
		if handler, err = processing.HandlerFromName(name); err != nil {
			return nil, err
		}
	}

	return processing.NewFrameProcessing(s, handler, uint32(viper.GetInt("max-frame-size"))*1024), nil
}

// NewListener creates a listener for the configured transport
func NewListener(ctx context.Context, config common.ListenerConfig, proc processing.IProcessing) (transport.IListener, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewListener(ctx, config, proc), nil
	case "unix":
		return unix.NewListener(ctx, config, proc), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// NewConnector connects to a listener using the configured transport
func NewConnector(config common.ConnectorConfig, proc processing.IProcessing) (transport.IConnector, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewConnector(config, proc)
	case "unix":
		return unix.NewConnector(config, proc)
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}
