// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/crateplan/internal/cmdtypes"
	"github.com/opmodel/crateplan/internal/config"
	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/output"
)

// rootFlags holds the persistent flags of the root command.
type rootFlags struct {
	config     string
	output     string
	verbose    bool
	timestamps bool
}

// NewRootCmd creates the root command for the crateplan CLI.
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	gc := &cmdtypes.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "crateplan",
		Short: "Plan Bazel builds for Cargo workspaces",
		Long: `crateplan turns a resolved Cargo dependency graph into a build plan:
one record per third-party crate with its Bazel labels, classified
dependencies, platform conditions, license rating and source location.

The plan is written as YAML or JSON for a BUILD file renderer, or summarized
as a table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd, &flags, gc)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to config file (env: CRATEPLAN_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "yaml", "Output format: yaml, json, table (env: CRATEPLAN_OUTPUT)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewPlanCmd(gc))
	rootCmd.AddCommand(NewDiffCmd(gc))
	rootCmd.AddCommand(NewVersionCmd(gc))

	return rootCmd
}

// initializeGlobals loads the config file, sets up logging and fills gc.
func initializeGlobals(cmd *cobra.Command, flags *rootFlags, gc *cmdtypes.GlobalConfig) error {
	configPath, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: flags.config})
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitConfigError, Err: err}
	}

	cfg, err := config.NewLoader().Load(configPath.ConfigPath)
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitConfigError, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitConfigError, Err: err}
	}

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: flags.verbose}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	} else if cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	gc.Config = cfg
	gc.ConfigPath = configPath.ConfigPath
	gc.Verbose = flags.verbose
	gc.OutputFlag = ""
	if cmd.Flags().Changed("output") {
		gc.OutputFlag = flags.output
	}

	output.Debug("initializing CLI",
		"config", configPath.ConfigPath,
		"config-source", configPath.Source,
		"output", gc.OutputFlag,
	)

	return nil
}
