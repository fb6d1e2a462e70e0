package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/kvprefs/cmd/prefs"
	"github.com/ValentinKolb/kvprefs/cmd/serve"
	"github.com/ValentinKolb/kvprefs/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "kvprefs",
		Short: "typed key-value preference store",
		Long: fmt.Sprintf(`kvprefs (v%s)

A typed key-value preference store written in Go. Preferences are cached
in process and mirrored to a pluggable backend, either in memory, in flat
files, or on a kvprefs host reached over tcp, unix sockets or http.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kvprefs",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kvprefs v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(prefs.PreferenceCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
