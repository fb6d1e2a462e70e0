package prefs

import (
	"context"

	"github.com/ValentinKolb/kvprefs/cmd/util"
	"github.com/ValentinKolb/kvprefs/lib/prefs"
	"github.com/ValentinKolb/kvprefs/rpc/client"
	"github.com/ValentinKolb/kvprefs/rpc/common"
	"github.com/ValentinKolb/kvprefs/rpc/transport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	registry     *prefs.Registry
	rpcTransport transport.IRPCClientTransport

	// PreferenceCommands represents the prefs command group
	PreferenceCommands = &cobra.Command{
		Use:                "prefs",
		Short:              "Read and write preferences of a kvprefs host",
		PersistentPreRunE:  setupPrefsClient,
		PersistentPostRunE: closePrefsClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common RPC flags to the prefs command
	util.SetupRPCClientFlags(PreferenceCommands)

	PreferenceCommands.PersistentFlags().String("storage", "", util.WrapString("Name of the storage to use, empty for the default storage of the host"))
	PreferenceCommands.PersistentFlags().String("log-level", "warn", util.WrapString("The level at which logs will be output (debug, info, warn, error)"))

	// Add subcommands
	PreferenceCommands.AddCommand(getCmd)
	PreferenceCommands.AddCommand(setCmd)
	PreferenceCommands.AddCommand(removeCmd)
	PreferenceCommands.AddCommand(clearCmd)
	PreferenceCommands.AddCommand(listCmd)
	PreferenceCommands.AddCommand(reloadCmd)
	PreferenceCommands.AddCommand(importCmd)
}

// setupPrefsClient creates a registry on top of a bridged backend
func setupPrefsClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	if err := common.InitLoggers(viper.GetString("log-level")); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	rpcTransport, err = util.GetTransport()
	if err != nil {
		return err
	}

	// Create the bridged backend
	backend, err := client.NewRPCBackend(
		util.GetChannel(),
		*config,
		rpcTransport,
		s,
	)
	if err != nil {
		return err
	}

	registry, err = prefs.NewRegistry(backend)
	return err
}

func closePrefsClient(_ *cobra.Command, _ []string) error {
	if rpcTransport == nil {
		return nil
	}
	return rpcTransport.Close()
}

// instance loads the preferences of the selected storage
func instance(cmd *cobra.Command) (*prefs.Preferences, context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), util.GetTimeout())
	p, err := registry.GetInstance(ctx, viper.GetString("storage"))
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return p, ctx, cancel, nil
}
