package client

import (
	"fmt"

	"github.com/ValentinKolb/dComm/cmd/util"
	"github.com/ValentinKolb/dComm/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	SendCmd = &cobra.Command{
		Use:   "send [message]...",
		Short: "Send text messages to a listener and print the replies",
		Long: `Connects to a listener, sends every argument as a data message and prints one reply per message.
The session is finished with a terminal message (end, quit or shutdown).`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: setupConnector,
		RunE:    runSend,
	}
)

func init() {
	key := "terminate"
	SendCmd.Flags().String(key, "end", util.WrapString("Terminal message sent after the last reply (end, quit, shutdown)"))
}

func runSend(_ *cobra.Command, args []string) error {
	terminal, err := common.ParseMessageType(viper.GetString("terminate"))
	if err != nil {
		return err
	}
	if !terminal.IsTerminal() {
		return fmt.Errorf("%s is not a terminal message type", terminal)
	}

	c, err := util.NewConnector(connectorConfig, proc)
	if err != nil {
		return err
	}
	defer c.Close()

	for _, arg := range args {
		c.PostMessage(common.NewTextMessage(arg))
	}

	for range args {
		ctx, cancel := replyContext(connectorConfig.TimeoutSecond)
		reply, err := c.GetMessageContext(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to receive reply: %w", err)
		}
		fmt.Println(string(reply.Body))
	}

	c.PostMessage(common.NewControlMessage(terminal))
	c.Close()

	ctx, cancel := replyContext(connectorConfig.TimeoutSecond)
	defer cancel()
	select {
	case <-c.Done():
	case <-ctx.Done():
		Logger.Warningf("Listener did not close the session after %s", terminal)
	}
	return c.SendErr()
}
