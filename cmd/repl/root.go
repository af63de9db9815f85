package repl

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	cmdUtil "github.com/ValentinKolb/tinyRedis/cmd/util"
	"github.com/ValentinKolb/tinyRedis/lib/common"
	"github.com/ValentinKolb/tinyRedis/lib/protocol"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	replCmdConfig = &common.ClientConfig{}

	ReplCmd = &cobra.Command{
		Use:     "repl",
		Short:   "Open an interactive tinyRedis prompt",
		Long:    `Connect to a tinyRedis server and read commands interactively. The line QUIT prints OK and exits; every other non-empty line is split into command and statement and sent to the server, except that unknown command names and a SELECT without a numeric id are answered locally with an error.`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	cobra.OnInitialize(cmdUtil.InitConfig)
	cmdUtil.SetupClientFlags(ReplCmd)
}

// processConfig reads the client configuration from flags and environment
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	replCmdConfig.Endpoint = viper.GetString("endpoint")
	replCmdConfig.TimeoutSecond = viper.GetInt("timeout")

	return nil
}

func run(_ *cobra.Command, _ []string) error {
	// The REPL survives a stray Ctrl-C; QUIT is the exit path.
	signal.Ignore(syscall.SIGINT, syscall.SIGTERM)

	timeout := time.Duration(replCmdConfig.TimeoutSecond) * time.Second
	conn, err := net.DialTimeout("tcp", replCmdConfig.Endpoint, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", replCmdConfig.Endpoint, err)
	}
	defer conn.Close()

	var id uint64
	scanner := bufio.NewScanner(os.Stdin)
	reply := make([]byte, 64*1024)

	for {
		fmt.Print(prompt(replCmdConfig.Endpoint, id))

		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "QUIT" {
			fmt.Println("OK")
			return nil
		}

		frame, ok := formatRequest(line, &id)
		if !ok {
			fmt.Println("(error) unknown command")
			continue
		}

		if timeout > 0 {
			conn.SetDeadline(time.Now().Add(timeout))
		}
		if _, err := conn.Write(frame); err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}

		n, err := conn.Read(reply)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		fmt.Println(string(reply[:n]))
	}
}

// prompt renders "tinyRedis host:port> ", with the selected database id in
// brackets once it differs from the default.
func prompt(endpoint string, id uint64) string {
	if id == 0 {
		return fmt.Sprintf("tinyRedis %s> ", endpoint)
	}
	return fmt.Sprintf("tinyRedis %s[%d]> ", endpoint, id)
}

// formatRequest turns one input line into a request frame. SELECT is tracked
// locally: the chosen id rides in the frame header of every later command.
func formatRequest(line string, id *uint64) ([]byte, bool) {
	name, statement, _ := strings.Cut(line, " ")

	cmd, ok := protocol.ParseCommand(name)
	if !ok {
		return nil, false
	}

	if cmd == protocol.CmdSelect {
		newID, err := strconv.ParseUint(strings.TrimSpace(statement), 10, 64)
		if err != nil {
			return nil, false
		}
		*id = newID
		statement = ""
	}

	return protocol.EncodeFrame(cmd, *id, statement), true
}
