// Package cmd implements the command-line interface of kvprefs. It provides a
// hierarchical command structure with operations for running a preference host
// and for reading and writing preferences through it.
//
// The package is organized into several subpackages:
//
//   - prefs: Commands for preference operations (get, set, remove, clear, list, reload, import)
//   - serve: Command for starting and configuring the preference host
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through the environment as KVPREFS_<FLAG> (dashes become
// underscores). .env and .env.local in the working directory are loaded first.
//
// See kvprefs -help for a list of all commands.
package cmd
