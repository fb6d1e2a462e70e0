package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Transport configuration structs
// --------------------------------------------------------------------------

// SocketConf holds the buffer sizes of socket based transports.
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP specific socket options.
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// ClientTransportConfig configures the client side of a transport.
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	SocketConf             SocketConf
	TCPConf                TCPConf
}

// ServerTransportConfig configures the server side of a transport.
type ServerTransportConfig struct {
	Endpoint string
	// WorkersPerConn limits the concurrently handled requests per connection
	WorkersPerConn int
	SocketConf     SocketConf
	TCPConf        TCPConf
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

type BackendType string

const (
	BackendTypeFile   BackendType = "file"
	BackendTypeMemory BackendType = "memory"
)

// ServerConfig holds all configuration parameters of the preference host.
type ServerConfig struct {
	// Channels served by the host, each backed by its own backend
	Channels []string

	// Backend settings
	Backend  BackendType
	DataDir  string
	Compress bool

	// DefaultStorageName is used by the host whenever a request carries no storage name
	DefaultStorageName string

	// TimeoutSecond bounds the handling of a single request
	TimeoutSecond int64

	Transport ServerTransportConfig

	// Logging configuration
	LogLevel string

	// MetricsInterval is the period in which request metrics are logged, 0 disables it
	MetricsInterval time.Duration
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Workers Per Conn", strconv.Itoa(c.Transport.WorkersPerConn))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)
	addField("Metrics Interval", c.MetricsInterval.String())

	// Storage
	addSection("Storage")
	addField("Backend", string(c.Backend))
	if c.Backend == BackendTypeFile {
		addField("Data Directory", c.DataDir)
		addField("Compress", strconv.FormatBool(c.Compress))
	}
	addField("Default Storage", c.DefaultStorageName)

	// Channels
	addSection("Channels")
	for i, channel := range c.Channels {
		addField(strconv.Itoa(i), fmt.Sprintf("%s (id %d)", channel, ChannelID(channel)))
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.Transport.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
