package cmdutil

import (
	"errors"
	"fmt"
	"io"

	"github.com/opmodel/crateplan/internal/cmdtypes"
	"github.com/opmodel/crateplan/internal/config"
	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/output"
	"github.com/opmodel/crateplan/internal/planner"
	"github.com/opmodel/crateplan/internal/settings"
)

// ResolveOutputFormat resolves the output format using precedence:
// (1) --output flag, (2) CRATEPLAN_OUTPUT env, (3) config file, (4) yaml.
func ResolveOutputFormat(gc *cmdtypes.GlobalConfig) (output.OutputFormat, error) {
	var flag, cfg config.Setting[string]
	if gc.OutputFlag != "" {
		flag = config.Given(gc.OutputFlag)
	}
	if gc.Config != nil {
		cfg = configSetting(gc.Config, config.KeyOutput, gc.Config.Output)
	}

	value, rv, err := config.Resolve(config.KeyOutput, flag, cfg, string(output.FormatYAML), config.ParseString)
	if err != nil {
		return "", err
	}
	format, ok := output.ParseOutputFormat(value)
	if !ok {
		return "", oerrors.NewConfigError(
			fmt.Sprintf("unknown output format %q", value),
			map[string]string{"Source": string(rv.Source)},
			fmt.Sprintf("Use one of %v", output.ValidFormats()),
		)
	}
	config.LogResolvedValues([]config.ResolvedValue{rv})
	return format, nil
}

// PrintPlanError prints a planning error in a user-friendly format.
// Structured errors print a summary line followed by their details, errors
// about a single crate are logged under the crate's prefix.
func PrintPlanError(msg string, err error) {
	var detailErr *oerrors.DetailError
	var ambiguousErr *settings.AmbiguousSettingsError
	var pkgErr planner.PackageError
	var sumErr *planner.MissingChecksumError

	switch {
	case errors.As(err, &detailErr):
		output.Error(fmt.Sprintf("%s: %s", msg, detailErr.Message))
		output.Details(detailErr.Error())
	case errors.As(err, &ambiguousErr):
		output.CrateLogger(ambiguousErr.Name + "-" + ambiguousErr.Version).Error(msg, "error", err)
	case errors.As(err, &pkgErr):
		output.CrateLogger(pkgErr.Package()).Error(msg, "error", err)
	case errors.As(err, &sumErr):
		output.Error(msg, "missing", len(sumErr.Idents))
		for _, ident := range sumErr.Idents {
			output.CrateLogger(ident).Error("no checksum recorded")
		}
	default:
		output.Error(msg, "error", err)
	}
}

// LogWarnings logs the warnings of a plan.
func LogWarnings(build *planner.PlannedBuild) {
	for _, w := range build.Warnings {
		output.Warn(w)
	}
}

// PlanRows summarizes each planned crate for table output.
func PlanRows(build *planner.PlannedBuild) []output.PlanRow {
	rows := make([]output.PlanRow, 0, len(build.Crates))
	for i := range build.Crates {
		c := &build.Crates[i]
		rows = append(rows, output.PlanRow{
			Crate:    c.PkgName,
			Version:  c.PkgVersion,
			Rating:   c.License.Rating.String(),
			License:  c.License.Display,
			Deps:     countDeps(&c.DefaultDeps),
			Targeted: len(c.TargetedDeps),
			Label:    c.WorkspacePathToCrate + ":" + crateTargetName(c),
		})
	}
	return rows
}

func countDeps(s *planner.DependencySet) int {
	return len(s.Dependencies) +
		len(s.ProcMacroDependencies) +
		len(s.BuildDependencies) +
		len(s.BuildProcMacroDependencies) +
		len(s.DevDependencies)
}

// crateTargetName is the library target name, or the package name for
// crates without a library.
func crateTargetName(c *planner.CrateContext) string {
	if c.LibTargetName != "" {
		return c.LibTargetName
	}
	return c.PkgName
}

// WritePlan writes build to w in the given format. Table output is followed
// by a summary line.
func WritePlan(w io.Writer, build *planner.PlannedBuild, format output.OutputFormat) error {
	if format != output.FormatTable {
		return output.WriteStructured(w, build, format)
	}

	if len(build.Crates) == 0 {
		_, err := fmt.Fprintln(w, "No crates to plan")
		return err
	}
	if _, err := fmt.Fprintln(w, output.RenderPlanTable(PlanRows(build))); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, output.FormatCheckmark(
		fmt.Sprintf("Planned %d crates for %d workspace members", len(build.Crates), len(build.Workspace.WorkspaceMembers))))
	return err
}

// WriteCrateLines logs one rating line per crate (--verbose only).
func WriteCrateLines(build *planner.PlannedBuild) {
	for i := range build.Crates {
		c := &build.Crates[i]
		output.Info(output.FormatCrateLine(c.PkgName, c.PkgVersion, c.License.Rating.String()))
	}
}
