package client

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ValentinKolb/dComm/cmd/util"
	"github.com/ValentinKolb/dComm/rpc/common"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Performance testing tool for dComm listeners",
		PreRunE: setupConnector,
		RunE:    runBench,
	}
)

func init() {
	key := "clients"
	BenchCmd.Flags().Int(key, 10, util.WrapString("Number of concurrent connectors"))
	key = "messages"
	BenchCmd.Flags().Int(key, 1000, util.WrapString("Round trips per connector"))
	key = "size"
	BenchCmd.Flags().Int(key, 64, util.WrapString("Message body size (in bytes)"))
}

// benchResult collects the measurements of all connectors
type benchResult struct {
	registry  gometrics.Registry
	roundTrip gometrics.Timer
	errors    gometrics.Counter
	mismatch  gometrics.Counter
}

func newBenchResult() *benchResult {
	r := gometrics.NewRegistry()
	return &benchResult{
		registry:  r,
		roundTrip: gometrics.GetOrRegisterTimer("round-trip", r),
		errors:    gometrics.GetOrRegisterCounter("errors", r),
		mismatch:  gometrics.GetOrRegisterCounter("mismatch", r),
	}
}

func runBench(_ *cobra.Command, _ []string) error {
	clients := viper.GetInt("clients")
	messages := viper.GetInt("messages")
	size := viper.GetInt("size")

	fmt.Println("Performance testing tool for dComm listeners")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(connectorConfig.String())
	fmt.Printf("Clients: %d, messages per client: %d, body size: %d bytes\n\n", clients, messages, size)

	result := newBenchResult()
	body := bytes.Repeat([]byte{'x'}, size)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(clients)
	for i := 0; i < clients; i++ {
		go func(id int) {
			defer wg.Done()
			if err := benchClient(body, messages, result); err != nil {
				result.errors.Inc(1)
				Logger.Errorf("(client %d) - %v", id, err)
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	printResult(result, elapsed)
	return nil
}

// benchClient runs sequential round trips on its own connector
func benchClient(body []byte, messages int, result *benchResult) error {
	c, err := util.NewConnector(connectorConfig, proc)
	if err != nil {
		return err
	}
	defer c.Close()

	for i := 0; i < messages; i++ {
		sent := time.Now()
		c.PostMessage(common.NewMessage(body))

		ctx, cancel := replyContext(connectorConfig.TimeoutSecond)
		reply, err := c.GetMessageContext(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("round trip %d failed: %w", i, err)
		}
		result.roundTrip.UpdateSince(sent)

		if !bytes.Equal(reply.Body, body) {
			result.mismatch.Inc(1)
		}
	}

	c.PostMessage(common.NewEndMessage())
	return nil
}

func printResult(result *benchResult, elapsed time.Duration) {
	t := result.roundTrip
	ps := t.Percentiles([]float64{0.5, 0.95, 0.99})

	fmt.Printf("%-12s: %d\n", "round trips", t.Count())
	fmt.Printf("%-12s: %s\n", "elapsed", elapsed.Round(time.Millisecond))
	fmt.Printf("%-12s: %.0f msg/s\n", "throughput", float64(t.Count())/elapsed.Seconds())
	fmt.Printf("%-12s: %s\n", "mean", time.Duration(t.Mean()))
	fmt.Printf("%-12s: %s\n", "p50", time.Duration(ps[0]))
	fmt.Printf("%-12s: %s\n", "p95", time.Duration(ps[1]))
	fmt.Printf("%-12s: %s\n", "p99", time.Duration(ps[2]))
	fmt.Printf("%-12s: %s\n", "max", time.Duration(t.Max()))
	fmt.Printf("%-12s: %d\n", "errors", result.errors.Count())
	fmt.Printf("%-12s: %d\n", "mismatches", result.mismatch.Count())

	if viper.GetString("log-level") == "debug" {
		fmt.Println()
		gometrics.WriteOnce(result.registry, os.Stdout)
	}
}
