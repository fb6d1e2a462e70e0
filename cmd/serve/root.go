package serve

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cmdUtil "github.com/ValentinKolb/kvprefs/cmd/util"
	"github.com/ValentinKolb/kvprefs/rpc/common"
	"github.com/ValentinKolb/kvprefs/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the kvprefs host",
		Long:    `Start the kvprefs host with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is KVPREFS_<flag> (e.g. KVPREFS_DATA_DIR=/var/lib/kvprefs)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "channels"
	ServeCmd.PersistentFlags().String(key, common.DefaultChannel, cmdUtil.WrapString("Comma-separated list of channels to serve. Every channel gets its own backend"))

	key = "backend"
	ServeCmd.PersistentFlags().String(key, string(common.BackendTypeFile), cmdUtil.WrapString("The backend holding the preferences of a channel (file, memory)"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("(file backend) DataDir is the directory holding one sub directory per channel"))

	key = "compress"
	ServeCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("(file backend) Compress the storage files with zstd"))

	key = "default-storage"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The storage used for requests that name no storage"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds for handling a single request"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080, /tmp/kvprefs.sock, ...)"))

	key = "workers-per-conn"
	ServeCmd.PersistentFlags().Int(key, 16, cmdUtil.WrapString("Requests handled concurrently per connection (ignored for http)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "metrics-interval"
	ServeCmd.PersistentFlags().Duration(key, 0, cmdUtil.WrapString("Period in which request latencies are logged, 0 disables it"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// parse channels
	serveCmdConfig.Channels = []string{}
	for _, channel := range strings.Split(viper.GetString("channels"), ",") {
		if channel = strings.TrimSpace(channel); channel != "" {
			serveCmdConfig.Channels = append(serveCmdConfig.Channels, channel)
		}
	}
	if len(serveCmdConfig.Channels) == 0 {
		return fmt.Errorf("at least one channel is required")
	}

	// parse backend
	switch backend := common.BackendType(viper.GetString("backend")); backend {
	case common.BackendTypeFile, common.BackendTypeMemory:
		serveCmdConfig.Backend = backend
	default:
		return fmt.Errorf("invalid backend type: %s (expected one of: file, memory)", backend)
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.Compress = viper.GetBool("compress")
	serveCmdConfig.DefaultStorageName = viper.GetString("default-storage")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Transport.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.Transport.WorkersPerConn = viper.GetInt("workers-per-conn")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.MetricsInterval = viper.GetDuration("metrics-interval")

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the kvprefs host and stops it on SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		server.Logger.Infof("received %s, shutting down", sig)
		if err := serv.Close(); err != nil {
			server.Logger.Errorf("failed to close server: %v", err)
		}
	}()

	return serv.Serve()
}
