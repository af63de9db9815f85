package bench

import (
	"fmt"
	"net"
	"sync"
	"time"

	cmdUtil "github.com/ValentinKolb/tinyRedis/cmd/util"
	"github.com/ValentinKolb/tinyRedis/lib/common"
	"github.com/ValentinKolb/tinyRedis/lib/protocol"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	benchCmdConfig = &common.ClientConfig{}
	benchRequests  = 10000
	benchClients   = 4
	benchValueSize = 64

	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Measure SET/GET latency against a tinyRedis server",
		Long:    `Open several client connections and hammer the server with SET and GET commands, reporting latency percentiles and throughput per command.`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	cobra.OnInitialize(cmdUtil.InitConfig)
	cmdUtil.SetupClientFlags(BenchCmd)

	key := "requests"
	BenchCmd.PersistentFlags().Int(key, 10000, cmdUtil.WrapString("Requests per command and client"))

	key = "clients"
	BenchCmd.PersistentFlags().Int(key, 4, cmdUtil.WrapString("Number of concurrent client connections"))

	key = "value-size"
	BenchCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("Size of the SET value in bytes"))
}

// processConfig reads the bench configuration from flags and environment
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	benchCmdConfig.Endpoint = viper.GetString("endpoint")
	benchCmdConfig.TimeoutSecond = viper.GetInt("timeout")
	benchRequests = viper.GetInt("requests")
	benchClients = viper.GetInt("clients")
	benchValueSize = viper.GetInt("value-size")

	return nil
}

func run(_ *cobra.Command, _ []string) error {
	registry := gometrics.NewRegistry()
	setTimer := gometrics.GetOrRegisterTimer("set", registry)
	getTimer := gometrics.GetOrRegisterTimer("get", registry)

	value := make([]byte, benchValueSize)
	for i := range value {
		value[i] = 'a' + byte(i%26)
	}
	statement := fmt.Sprintf(`key "%s"`, value)

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)

	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	start := time.Now()
	for c := 0; c < benchClients; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()

			conn, err := net.DialTimeout("tcp", benchCmdConfig.Endpoint,
				time.Duration(benchCmdConfig.TimeoutSecond)*time.Second)
			if err != nil {
				fail(fmt.Errorf("client %d: %w", c, err))
				return
			}
			defer conn.Close()

			// Every client hits its own key so SETs do not serialize on one
			// skiplist node.
			setFrame := protocol.EncodeFrame(protocol.CmdSet, 0, fmt.Sprintf("%d-%s", c, statement))
			getFrame := protocol.EncodeFrame(protocol.CmdGet, 0, fmt.Sprintf("%d-key", c))
			reply := make([]byte, 64*1024)

			for i := 0; i < benchRequests; i++ {
				var err error
				setTimer.Time(func() { err = roundTrip(conn, setFrame, reply) })
				if err != nil {
					fail(fmt.Errorf("client %d SET: %w", c, err))
					return
				}

				getTimer.Time(func() { err = roundTrip(conn, getFrame, reply) })
				if err != nil {
					fail(fmt.Errorf("client %d GET: %w", c, err))
					return
				}
			}
		}(c)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	elapsed := time.Since(start)
	fmt.Printf("%d clients, %d requests per command, %d byte values, %.2fs total\n\n",
		benchClients, benchRequests, benchValueSize, elapsed.Seconds())
	report("SET", setTimer)
	report("GET", getTimer)

	return nil
}

// roundTrip sends one frame and waits for its reply.
func roundTrip(conn net.Conn, frame, reply []byte) error {
	if _, err := conn.Write(frame); err != nil {
		return err
	}
	_, err := conn.Read(reply)
	return err
}

// report prints one timer's latency distribution and throughput.
func report(name string, timer gometrics.Timer) {
	toMs := func(ns float64) float64 { return ns / float64(time.Millisecond) }

	fmt.Printf("%s: %d ops, %.0f ops/sec\n", name, timer.Count(), timer.RateMean())
	fmt.Printf("  mean %.3fms, p50 %.3fms, p95 %.3fms, p99 %.3fms, max %.3fms\n",
		toMs(timer.Mean()),
		toMs(timer.Percentile(0.50)),
		toMs(timer.Percentile(0.95)),
		toMs(timer.Percentile(0.99)),
		toMs(float64(timer.Max())),
	)
}
