package serve

import (
	cmdUtil "github.com/ValentinKolb/tinyRedis/cmd/util"
	"github.com/ValentinKolb/tinyRedis/lib/common"
	"github.com/ValentinKolb/tinyRedis/lib/database"
	"github.com/ValentinKolb/tinyRedis/reactor"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Logger = logger.GetLogger("cmd")

var (
	serveCmdConfig = &common.ServerConfig{}

	ServeCmd = &cobra.Command{
		Use:     "serve",
		Short:   "Start the tinyRedis server",
		Long:    `Start the tinyRedis server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is TINYREDIS_<flag> (e.g. TINYREDIS_LOG_LEVEL=debug)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:6379", cmdUtil.WrapString("The address on which the server will listen"))

	key = "workers"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Number of worker reactors (0 = one per hardware thread)"))

	key = "queue-depth"
	ServeCmd.PersistentFlags().Int(key, common.DefaultQueueDepth, cmdUtil.WrapString("Total completion queue budget, divided among the workers"))

	key = "buffer-count"
	ServeCmd.PersistentFlags().Int(key, common.DefaultBufferCount, cmdUtil.WrapString("Receive buffers per worker"))

	key = "buffer-size"
	ServeCmd.PersistentFlags().Int(key, common.DefaultBufferSize, cmdUtil.WrapString("Size of each receive buffer in bytes"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("Directory holding the database files, created if missing"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Optional address exposing Prometheus metrics (empty = disabled)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.Workers = viper.GetInt("workers")
	serveCmdConfig.QueueDepth = viper.GetInt("queue-depth")
	serveCmdConfig.BufferCount = viper.GetInt("buffer-count")
	serveCmdConfig.BufferSize = viper.GetInt("buffer-size")
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	return nil
}

// run starts the server and persists every database once the reactors have
// drained.
func run(_ *cobra.Command, _ []string) error {
	common.InitLoggers(serveCmdConfig.LogLevel)

	Logger.Infof("starting tinyRedis")
	Logger.Infof(serveCmdConfig.String())

	registry, err := database.Open(serveCmdConfig.DataDir)
	if err != nil {
		return err
	}

	if err := reactor.Serve(serveCmdConfig, registry.Query); err != nil {
		return err
	}

	return registry.Save()
}
