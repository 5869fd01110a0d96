package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cmdUtil "github.com/ValentinKolb/dComm/cmd/util"
	"github.com/ValentinKolb/dComm/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Logger = logger.GetLogger("cmd")

var (
	serveCmdConfig = common.DefaultListenerConfig()
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start a dComm listener",
		Long:    `Start a dComm listener with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DCOMM_<flag> (e.g. DCOMM_WORKERS=8)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the listener will accept connections (e.g. localhost:8080, /tmp/dcomm.sock, ...)"))

	key = "workers"
	ServeCmd.PersistentFlags().Int(key, common.DefaultWorkers, cmdUtil.WrapString("Number of pool workers dispatching accepted connections"))

	key = "handler"
	ServeCmd.PersistentFlags().String(key, "echo", cmdUtil.WrapString("How received messages are answered (echo, upper)"))

	key = "stop-timeout"
	ServeCmd.PersistentFlags().Int(key, common.DefaultStopTimeoutSecond, cmdUtil.WrapString("Seconds to wait for the workers when the listener stops"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("If set, Prometheus metrics are served on this address under /metrics (e.g. localhost:9090)"))

	cmdUtil.SetupSocketFlags(ServeCmd)
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	serveCmdConfig = cmdUtil.GetListenerConfig()
	if err := serveCmdConfig.Validate(); err != nil {
		return err
	}

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the listener and blocks until it terminated
func run(_ *cobra.Command, _ []string) error {
	proc, err := cmdUtil.GetProcessing()
	if err != nil {
		return err
	}

	// SIGINT and SIGTERM cancel the listener context, which stops the listener
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, err := cmdUtil.NewListener(ctx, serveCmdConfig, proc)
	if err != nil {
		return err
	}

	endpoint := viper.GetString("endpoint")
	fmt.Printf("Starting dComm listener on %s\n%s", endpoint, serveCmdConfig.String())

	done, err := l.Start(endpoint)
	if err != nil {
		return err
	}

	if addr := viper.GetString("metrics-endpoint"); addr != "" {
		srv := serveMetrics(addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	<-done
	Logger.Infof("Listener on %s stopped", l.Addr())
	return nil
}

// serveMetrics exposes all registered metrics in Prometheus text format
func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("Metrics endpoint on %s failed: %v", addr, err)
		}
	}()

	Logger.Infof("Serving metrics on http://%s/metrics", addr)
	return srv
}
