// Package cmdutil provides shared command utilities for the plan and diff
// commands. It centralizes flag groups, input resolution, the planning
// pipeline and output helpers.
package cmdutil

import (
	"github.com/spf13/cobra"
)

// InputFlags holds the input file flags (plan, diff).
type InputFlags struct {
	Metadata string
	Lockfile string
	Settings string
}

// AddTo registers the input flags on the given cobra command.
func (f *InputFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Metadata, "metadata", "",
		"Path to the cargo metadata snapshot (env: CRATEPLAN_METADATA)")
	cmd.Flags().StringVar(&f.Lockfile, "lockfile", "",
		"Path to Cargo.lock, empty disables checksums (env: CRATEPLAN_LOCKFILE)")
	cmd.Flags().StringVar(&f.Settings, "settings", "",
		"Path to the manifest holding the raze settings (env: CRATEPLAN_SETTINGS)")
}

// PlanFlags holds flags that tune a planning run (plan, diff).
type PlanFlags struct {
	Jobs            int
	KeepGoing       bool
	StrictChecksums bool
}

// AddTo registers the planning flags on the given cobra command.
func (f *PlanFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.Jobs, "jobs", "j", 0,
		"Number of crates planned concurrently (default: number of CPUs)")
	cmd.Flags().BoolVar(&f.KeepGoing, "keep-going", false,
		"Skip crates that fail to plan instead of aborting")
	cmd.Flags().BoolVar(&f.StrictChecksums, "strict-checksums", false,
		"Fail when a registry crate has no lockfile checksum")
}
