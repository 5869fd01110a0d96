package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dComm/cmd/client"
	"github.com/ValentinKolb/dComm/cmd/serve"
	"github.com/ValentinKolb/dComm/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dcomm",
		Short: "symmetric message channel over tcp and unix sockets",
		Long: fmt.Sprintf(`dComm (v%s)

A listener and connector pair exchanging typed, length framed messages.
Every connection runs its own duplex message loop, accepted connections are
dispatched by a bounded worker pool.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dComm",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dComm v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(client.SendCmd)
	RootCmd.AddCommand(client.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (binary, json, gob)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
	key = "max-frame-size"
	RootCmd.PersistentFlags().Int(key, 16*1024, util.WrapString("Largest accepted message frame (in KB)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
