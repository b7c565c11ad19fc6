package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/crateplan/internal/cmdtypes"
	"github.com/opmodel/crateplan/internal/cmdutil"
	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/output"
	"github.com/opmodel/crateplan/internal/planner"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		inputFlags cmdutil.InputFlags
		planFlags  cmdutil.PlanFlags
	)

	cmd := &cobra.Command{
		Use:   "diff <old-plan> [new-plan]",
		Short: "Show differences between two plans",
		Long: `Show differences between a saved plan and another plan.

When new-plan is omitted the workspace is planned again from the current
inputs, so a plan checked into the repository can be verified in CI.

Crates are categorized as:
  - added:    only in the new plan
  - removed:  only in the old plan
  - modified: in both, with a semantic YAML diff (via dyff)

Warnings are ignored. Exits with code 7 when the plans differ.

Examples:
  # Compare two saved plans
  crateplan diff plan-old.yaml plan-new.yaml

  # Check that a saved plan is up to date
  crateplan diff plan.yaml --metadata meta.json --settings Cargo.toml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(c *cobra.Command, args []string) error {
			return runDiff(c, args, gc, inputFlags, planFlags)
		},
	}

	inputFlags.AddTo(cmd)
	planFlags.AddTo(cmd)

	return cmd
}

func runDiff(cmd *cobra.Command, args []string, gc *cmdtypes.GlobalConfig, inputFlags cmdutil.InputFlags, planFlags cmdutil.PlanFlags) error {
	from, err := planner.LoadPlan(args[0])
	if err != nil {
		cmdutil.PrintPlanError("loading plan failed", err)
		return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
	}

	var to *planner.PlannedBuild
	if len(args) > 1 {
		to, err = planner.LoadPlan(args[1])
		if err != nil {
			cmdutil.PrintPlanError("loading plan failed", err)
			return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
		}
	} else {
		inputs, err := cmdutil.ResolveInputs(cmd, inputFlags, planFlags, gc.Config)
		if err != nil {
			return &oerrors.ExitError{Code: oerrors.ExitConfigError, Err: err}
		}
		to, err = cmdutil.RunPlan(cmd.Context(), inputs)
		if err != nil {
			return err
		}
		cmdutil.LogWarnings(to)
	}

	result, err := planner.Diff(from, to, output.IsTTY())
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("comparing plans: %w", err)}
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Render())

	if !result.IsEmpty() {
		return &oerrors.ExitError{
			Code:    oerrors.ExitDiffFound,
			Err:     fmt.Errorf("plans differ: %d added, %d removed, %d modified", len(result.Added), len(result.Removed), len(result.Modified)),
			Printed: true,
		}
	}
	return nil
}
