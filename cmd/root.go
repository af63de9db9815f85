package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/tinyRedis/cmd/bench"
	"github.com/ValentinKolb/tinyRedis/cmd/repl"
	"github.com/ValentinKolb/tinyRedis/cmd/serve"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "tinyredis",
		Short: "in-memory multi-database key-value store",
		Long: fmt.Sprintf(`tinyRedis (v%s)

A single-host, multi-database, in-memory key-value store with a text command
protocol. Databases are ordered indexes persisted to disk on shutdown.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of tinyRedis",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tinyRedis v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(repl.ReplCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
