package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/crateplan/internal/cmdtypes"
	"github.com/opmodel/crateplan/internal/cmdutil"
	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/output"
)

// NewPlanCmd creates the plan command.
func NewPlanCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		inputFlags cmdutil.InputFlags
		planFlags  cmdutil.PlanFlags
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan Bazel rules for every third-party crate",
		Long: `Plan Bazel rules for every third-party crate of a Cargo workspace.

Inputs:
  - a cargo metadata snapshot (cargo metadata --format-version 1)
  - the raze settings table of a Cargo manifest
  - optionally Cargo.lock, for registry checksums

Crates are planned concurrently; the plan is identical for any --jobs.

Examples:
  # Plan using the defaults from ~/.crateplan/config.yaml
  crateplan plan

  # Summarize the plan as a table
  crateplan plan --metadata meta.json --settings Cargo.toml -o table

  # Keep planning past crates that fail and fail on missing checksums
  crateplan plan --keep-going --strict-checksums`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runPlan(c, gc, inputFlags, planFlags)
		},
	}

	inputFlags.AddTo(cmd)
	planFlags.AddTo(cmd)

	return cmd
}

func runPlan(cmd *cobra.Command, gc *cmdtypes.GlobalConfig, inputFlags cmdutil.InputFlags, planFlags cmdutil.PlanFlags) error {
	format, err := cmdutil.ResolveOutputFormat(gc)
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitConfigError, Err: err}
	}

	inputs, err := cmdutil.ResolveInputs(cmd, inputFlags, planFlags, gc.Config)
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitConfigError, Err: err}
	}

	build, err := cmdutil.RunPlan(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	if gc.Verbose {
		cmdutil.WriteCrateLines(build)
	}
	cmdutil.LogWarnings(build)

	if err := cmdutil.WritePlan(cmd.OutOrStdout(), build, format); err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: err}
	}

	output.Debug("plan written", "crates", len(build.Crates), "warnings", len(build.Warnings))
	return nil
}
