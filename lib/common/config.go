package common

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// Default sizing for the per-worker reactors.
const (
	DefaultQueueDepth  = 2048 // total submission budget, split across workers
	DefaultBufferCount = 256  // receive buffers per worker
	DefaultBufferSize  = 8 * 1024
)

// ServerConfig holds all configuration parameters for the tinyRedis server.
type ServerConfig struct {
	// Network settings
	Endpoint string

	// Reactor sizing
	Workers     int // 0 = one per hardware thread
	QueueDepth  int // total completion-queue budget, divided among workers
	BufferCount int // receive buffers per worker
	BufferSize  int // bytes per receive buffer

	// Storage
	DataDir string

	// Observability
	MetricsEndpoint string // empty = metrics endpoint disabled
	LogLevel        string
}

// WorkerCount resolves the configured worker count, defaulting to one reactor
// per hardware thread.
func (c *ServerConfig) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Server")
	addField("Endpoint", c.Endpoint)
	addField("Workers", strconv.Itoa(c.WorkerCount()))

	addSection("Reactor")
	addField("Queue Depth (total)", strconv.Itoa(c.QueueDepth))
	addField("Queue Depth (worker)", strconv.Itoa(c.QueueDepth/c.WorkerCount()))
	addField("Receive Buffers", strconv.Itoa(c.BufferCount))
	addField("Buffer Size", fmt.Sprintf("%d bytes", c.BufferSize))

	addSection("Storage")
	addField("Data Directory", c.DataDir)

	addSection("Observability")
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	} else {
		addField("Metrics Endpoint", "disabled")
	}
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds connection parameters for the REPL and bench commands.
type ClientConfig struct {
	Endpoint      string
	TimeoutSecond int
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	sb.WriteString("\nCLIENT CONFIGURATION\n")
	sb.WriteString(fmt.Sprintf("  %-22s: %s\n", "Endpoint", c.Endpoint))
	sb.WriteString(fmt.Sprintf("  %-22s: %d sec", "Timeout", c.TimeoutSecond))

	return sb.String()
}
