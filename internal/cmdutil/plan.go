package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/opmodel/crateplan/internal/catalog"
	"github.com/opmodel/crateplan/internal/config"
	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/metadata"
	"github.com/opmodel/crateplan/internal/output"
	"github.com/opmodel/crateplan/internal/planner"
	"github.com/opmodel/crateplan/internal/settings"
)

// Inputs are the planning inputs after flag, environment, config file and
// default resolution.
type Inputs struct {
	Metadata string
	Settings string

	// Lockfile is empty when checksum lookup is disabled.
	Lockfile       string
	LockfileSource config.ConfigSource

	Jobs            int
	KeepGoing       bool
	StrictChecksums bool
}

// ResolveInputs resolves the input and planning flags of cmd against the
// environment and cfg. Every decision is logged at DEBUG level.
func ResolveInputs(cmd *cobra.Command, in InputFlags, pf PlanFlags, cfg *config.Config) (Inputs, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	def := config.DefaultConfig()

	var (
		inputs   = Inputs{KeepGoing: pf.KeepGoing}
		resolved []config.ResolvedValue
		rv       config.ResolvedValue
		err      error
	)

	inputs.Metadata, rv, err = config.Resolve(config.KeyMetadata,
		flagSetting(cmd, "metadata", in.Metadata),
		configSetting(cfg, config.KeyMetadata, cfg.Metadata),
		def.Metadata, config.ParseString)
	if err != nil {
		return Inputs{}, err
	}
	resolved = append(resolved, rv)

	inputs.Lockfile, rv, err = config.Resolve(config.KeyLockfile,
		flagSetting(cmd, "lockfile", in.Lockfile),
		configSetting(cfg, config.KeyLockfile, cfg.Lockfile),
		def.Lockfile, config.ParseString)
	if err != nil {
		return Inputs{}, err
	}
	inputs.LockfileSource = rv.Source
	resolved = append(resolved, rv)

	inputs.Settings, rv, err = config.Resolve(config.KeySettings,
		flagSetting(cmd, "settings", in.Settings),
		configSetting(cfg, config.KeySettings, cfg.Settings),
		def.Settings, config.ParseString)
	if err != nil {
		return Inputs{}, err
	}
	resolved = append(resolved, rv)

	inputs.Jobs, rv, err = config.Resolve(config.KeyJobs,
		flagSetting(cmd, "jobs", pf.Jobs),
		configSetting(cfg, config.KeyJobs, cfg.Jobs),
		def.Jobs, config.ParseInt)
	if err != nil {
		return Inputs{}, err
	}
	resolved = append(resolved, rv)

	inputs.StrictChecksums, rv, err = config.Resolve(config.KeyStrictChecksums,
		flagSetting(cmd, "strict-checksums", pf.StrictChecksums),
		configSetting(cfg, config.KeyStrictChecksums, cfg.StrictChecksums),
		false, config.ParseBool)
	if err != nil {
		return Inputs{}, err
	}
	resolved = append(resolved, rv)

	switch {
	case inputs.Jobs < 0:
		return Inputs{}, oerrors.NewConfigError(
			fmt.Sprintf("jobs must not be negative, got %d", inputs.Jobs),
			map[string]string{"Key": config.KeyJobs},
			"",
		)
	case inputs.Jobs == 0:
		inputs.Jobs = runtime.NumCPU()
	}

	config.LogResolvedValues(resolved)
	return inputs, nil
}

// flagSetting returns v as a candidate when the flag was given.
func flagSetting[T any](cmd *cobra.Command, name string, v T) config.Setting[T] {
	if cmd != nil && cmd.Flags().Changed(name) {
		return config.Given(v)
	}
	return config.Setting[T]{}
}

// configSetting returns v as a candidate when key is in the config file.
func configSetting[T any](cfg *config.Config, key string, v T) config.Setting[T] {
	if cfg.IsSet(key) {
		return config.Given(v)
	}
	return config.Setting[T]{}
}

// Plan loads the inputs and plans the workspace.
func Plan(ctx context.Context, in Inputs) (*planner.PlannedBuild, error) {
	meta, err := metadata.NewFileProvider(in.Metadata).Metadata(ctx)
	if err != nil {
		return nil, err
	}

	s, err := settings.Load(in.Settings)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Build(meta)
	if err != nil {
		return nil, err
	}

	var opts []planner.Option
	lockfile, err := loadLockfile(in)
	if err != nil {
		return nil, err
	}
	if lockfile != nil {
		opts = append(opts, planner.WithChecksums(lockfile))
	}

	output.Debug("planning workspace",
		"root", cat.Root(),
		"packages", len(meta.Packages),
		"jobs", in.Jobs,
		"checksums", lockfile != nil,
	)

	return planner.New(cat, s, opts...).Plan(ctx, planner.Options{
		Jobs:            in.Jobs,
		KeepGoing:       in.KeepGoing,
		StrictChecksums: in.StrictChecksums,
	})
}

// loadLockfile returns nil when checksum lookup is disabled, or when the
// default lockfile is absent.
func loadLockfile(in Inputs) (*metadata.Lockfile, error) {
	if in.Lockfile == "" {
		return nil, nil
	}
	lockfile, err := metadata.LoadLockfile(in.Lockfile)
	if err != nil {
		if in.LockfileSource == config.SourceDefault && errors.Is(err, oerrors.ErrNotFound) {
			output.Debug("no lockfile, skipping checksum lookup", "path", in.Lockfile)
			return nil, nil
		}
		return nil, err
	}
	return lockfile, nil
}

// RunPlan runs Plan behind a spinner and converts failures into an
// *ExitError that has already been reported.
func RunPlan(ctx context.Context, in Inputs) (*planner.PlannedBuild, error) {
	var build *planner.PlannedBuild
	err := output.RunWithSpinner(ctx, func(ctx context.Context) error {
		var err error
		build, err = Plan(ctx, in)
		return err
	}, output.WithTitle("Planning crates..."))
	if err != nil {
		PrintPlanError("planning failed", err)
		return nil, &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
	}
	return build, nil
}
