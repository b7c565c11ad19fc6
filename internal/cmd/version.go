package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/crateplan/internal/cmdtypes"
	"github.com/opmodel/crateplan/internal/cmdutil"
	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/output"
	"github.com/opmodel/crateplan/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show crateplan version information.

Displays:
  - crateplan version, commit, and build date
  - the number of supported platform triples

With -o json or -o yaml the same information is printed as a document.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runVersion(c, gc)
		},
	}
}

func runVersion(cmd *cobra.Command, gc *cmdtypes.GlobalConfig) error {
	info := version.Get()

	if gc.OutputFlag == "" {
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return nil
	}

	format, err := cmdutil.ResolveOutputFormat(gc)
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitConfigError, Err: err}
	}
	if format == output.FormatTable {
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return nil
	}
	return output.WriteStructured(cmd.OutOrStdout(), info, format)
}
