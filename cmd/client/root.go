package client

import (
	"context"
	"time"

	"github.com/ValentinKolb/dComm/cmd/util"
	"github.com/ValentinKolb/dComm/rpc/common"
	"github.com/ValentinKolb/dComm/rpc/processing"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Logger = logger.GetLogger("cmd")

var (
	connectorConfig common.ConnectorConfig
	proc            processing.IProcessing
)

func init() {
	util.SetupConnectorFlags(SendCmd)
	util.SetupConnectorFlags(BenchCmd)
}

// setupConnector reads the connector configuration and the processing strategy
func setupConnector(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	if err := common.InitLoggers(viper.GetString("log-level")); err != nil {
		return err
	}

	connectorConfig = util.GetConnectorConfig()

	var err error
	proc, err = util.GetProcessing()
	return err
}

// replyContext bounds a reply wait by the configured timeout, 0 waits forever
func replyContext(timeoutSecond int) (context.Context, context.CancelFunc) {
	if timeoutSecond <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), time.Duration(timeoutSecond)*time.Second)
}
