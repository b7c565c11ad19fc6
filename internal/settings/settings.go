// Package settings holds planner-wide settings and version-scoped per-crate
// overrides, decoded from the raze table of a Cargo manifest.
package settings

import (
	"fmt"
	"sort"
	"strings"

	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/platform"
	"github.com/opmodel/crateplan/internal/semver"
)

// GenMode selects how generated labels point at crate sources.
type GenMode string

const (
	// GenModeVendored assumes crates are vendored into the workspace.
	GenModeVendored GenMode = "Vendored"
	// GenModeRemote assumes crates are fetched as external repositories.
	GenModeRemote GenMode = "Remote"
)

// Defaults applied to settings left empty.
const (
	DefaultGenWorkspacePrefix    = "raze"
	DefaultOutputBuildfileSuffix = "BUILD.bazel"
	DefaultVendorDir             = "vendor"
	DefaultRegistry              = "https://crates.io/api/v1/crates/{crate}/{version}/download"
)

// Store resolves the override record for one crate version.
type Store interface {
	// Lookup returns nil when no override applies.
	Lookup(name, version string) (*CrateSettings, error)
}

// Settings are the planner-wide settings.
type Settings struct {
	// WorkspacePath is the Bazel package the generated files live in, e.g. "//cargo".
	WorkspacePath string `toml:"workspace_path"`

	// PackageAliasesDir is where workspace aliases are written, relative to the manifest.
	PackageAliasesDir string `toml:"package_aliases_dir"`

	// Target is a single platform triple to restrict planning to.
	Target string `toml:"target"`

	// Targets is a list of platform triples to restrict planning to.
	Targets []string `toml:"targets"`

	// BinaryDeps lists crates, by name and version requirement, that are
	// planned even when they are workspace members.
	BinaryDeps map[string]string `toml:"binary_deps"`

	// Crates holds overrides keyed by crate name, then version requirement.
	Crates map[string]map[string]*CrateSettings `toml:"crates"`

	GenWorkspacePrefix     string  `toml:"gen_workspace_prefix"`
	GenMode                GenMode `toml:"genmode"`
	OutputBuildfileSuffix  string  `toml:"output_buildfile_suffix"`
	DefaultGenBuildrs      bool    `toml:"default_gen_buildrs"`
	Registry               string  `toml:"registry"`
	RustRulesWorkspaceName string  `toml:"rust_rules_workspace_name"`
	VendorDir              string  `toml:"vendor_dir"`
}

// CrateSettings is the override record for one crate version.
type CrateSettings struct {
	AdditionalDeps      []string          `toml:"additional_deps" json:"additional_deps,omitempty" yaml:"additional_deps,omitempty"`
	SkippedDeps         []string          `toml:"skipped_deps" json:"skipped_deps,omitempty" yaml:"skipped_deps,omitempty"`
	ExtraAliasedTargets []string          `toml:"extra_aliased_targets" json:"extra_aliased_targets,omitempty" yaml:"extra_aliased_targets,omitempty"`
	AdditionalFlags     []string          `toml:"additional_flags" json:"additional_flags,omitempty" yaml:"additional_flags,omitempty"`
	AdditionalEnv       map[string]string `toml:"additional_env" json:"additional_env,omitempty" yaml:"additional_env,omitempty"`
	GenBuildrs          *bool             `toml:"gen_buildrs" json:"gen_buildrs,omitempty" yaml:"gen_buildrs,omitempty"`
	DataAttr            string            `toml:"data_attr" json:"data_attr,omitempty" yaml:"data_attr,omitempty"`
	CompileDataAttr     string            `toml:"compile_data_attr" json:"compile_data_attr,omitempty" yaml:"compile_data_attr,omitempty"`
	BuildrsEnv          map[string]string `toml:"buildrs_additional_environment_variables" json:"buildrs_additional_environment_variables,omitempty" yaml:"buildrs_additional_environment_variables,omitempty"`
	PatchArgs           []string          `toml:"patch_args" json:"patch_args,omitempty" yaml:"patch_args,omitempty"`
	PatchCmds           []string          `toml:"patch_cmds" json:"patch_cmds,omitempty" yaml:"patch_cmds,omitempty"`
	PatchCmdsWin        []string          `toml:"patch_cmds_win" json:"patch_cmds_win,omitempty" yaml:"patch_cmds_win,omitempty"`
	PatchTool           string            `toml:"patch_tool" json:"patch_tool,omitempty" yaml:"patch_tool,omitempty"`
	Patches             []string          `toml:"patches" json:"patches,omitempty" yaml:"patches,omitempty"`
	AdditionalBuildFile string            `toml:"additional_build_file" json:"additional_build_file,omitempty" yaml:"additional_build_file,omitempty"`
}

// NewDefault returns settings with every default applied and the given
// workspace path.
func NewDefault(workspacePath string) *Settings {
	s := &Settings{WorkspacePath: workspacePath}
	s.applyDefaults()
	return s
}

func (s *Settings) applyDefaults() {
	if s.GenWorkspacePrefix == "" {
		s.GenWorkspacePrefix = DefaultGenWorkspacePrefix
	}
	if s.GenMode == "" {
		s.GenMode = GenModeVendored
	}
	if s.OutputBuildfileSuffix == "" {
		s.OutputBuildfileSuffix = DefaultOutputBuildfileSuffix
	}
	if s.Registry == "" {
		s.Registry = DefaultRegistry
	}
	if s.RustRulesWorkspaceName == "" {
		s.RustRulesWorkspaceName = platform.DefaultRulesWorkspace
	}
	if s.VendorDir == "" {
		s.VendorDir = DefaultVendorDir
	}
}

// Validate checks the settings and normalizes the workspace path.
func (s *Settings) Validate() error {
	if !strings.HasPrefix(s.WorkspacePath, "//") && !strings.HasPrefix(s.WorkspacePath, "@") {
		return oerrors.NewConfigError(
			fmt.Sprintf("workspace_path %q must start with \"//\" or \"@\"", s.WorkspacePath),
			map[string]string{"Key": "workspace_path"},
			"Use a Bazel package path such as //cargo",
		)
	}
	if s.WorkspacePath != "//" && !strings.HasSuffix(s.WorkspacePath, "//") {
		s.WorkspacePath = strings.TrimSuffix(s.WorkspacePath, "/")
	}

	switch s.GenMode {
	case GenModeRemote, GenModeVendored:
	default:
		return oerrors.NewConfigError(
			fmt.Sprintf("unknown genmode %q", s.GenMode),
			map[string]string{"Key": "genmode"},
			"Use \"Remote\" or \"Vendored\"",
		)
	}

	matcher := platform.NewMatcher()
	for _, triple := range s.Allowlist() {
		if !matcher.IsSupported(triple) {
			return oerrors.NewConfigError(
				fmt.Sprintf("target %q is not a supported platform triple", triple),
				map[string]string{"Key": "targets"},
				"",
			)
		}
	}

	for name, versions := range s.Crates {
		for req := range versions {
			if _, err := semver.ParseConstraint(req); err != nil {
				return oerrors.NewConfigError(
					fmt.Sprintf("invalid version requirement %q for crate %q: %v", req, name, err),
					map[string]string{"Key": "crates." + name},
					"",
				)
			}
		}
	}
	for name, req := range s.BinaryDeps {
		if _, err := semver.ParseConstraint(req); err != nil {
			return oerrors.NewConfigError(
				fmt.Sprintf("invalid version requirement %q for binary dependency %q: %v", req, name, err),
				map[string]string{"Key": "binary_deps." + name},
				"",
			)
		}
	}
	return nil
}

// Allowlist returns the triples planning is restricted to, or nil when
// every supported triple is allowed.
func (s *Settings) Allowlist() []string {
	if s.Target == "" {
		return s.Targets
	}
	for _, t := range s.Targets {
		if t == s.Target {
			return s.Targets
		}
	}
	return append(append([]string(nil), s.Targets...), s.Target)
}

// IsBinaryDep reports whether name is a top-level tool dependency.
func (s *Settings) IsBinaryDep(name string) bool {
	_, ok := s.BinaryDeps[name]
	return ok
}

// Lookup returns the override whose version requirement matches version.
// More than one match is an *AmbiguousSettingsError.
func (s *Settings) Lookup(name, version string) (*CrateSettings, error) {
	var matched []string
	for req := range s.Crates[name] {
		if semver.Matches(version, req) {
			matched = append(matched, req)
		}
	}
	switch len(matched) {
	case 0:
		return nil, nil
	case 1:
		return s.Crates[name][matched[0]], nil
	default:
		sort.Strings(matched)
		return nil, &AmbiguousSettingsError{Name: name, Version: version, Requirements: matched}
	}
}

// ShouldGenBuildrs returns the effective build script opt-in for a crate.
func (s *Settings) ShouldGenBuildrs(cs *CrateSettings) bool {
	if cs != nil && cs.GenBuildrs != nil {
		return *cs.GenBuildrs
	}
	return s.DefaultGenBuildrs
}

// Unused describes an override that applies to no known package.
type Unused struct {
	Name        string
	Requirement string
	Reason      string
}

// Unused reports overrides whose crate is unknown or whose requirement
// matches none of the known versions. known maps crate names to versions.
func (s *Settings) Unused(known map[string][]string) []Unused {
	var unused []Unused
	for _, name := range sortedNames(s.Crates) {
		versions, ok := known[name]
		for _, req := range sortedNames(s.Crates[name]) {
			if !ok {
				unused = append(unused, Unused{Name: name, Requirement: req, Reason: "no crate with this name"})
				continue
			}
			if !anyMatches(versions, req) {
				unused = append(unused, Unused{
					Name:        name,
					Requirement: req,
					Reason:      fmt.Sprintf("no version matches (known: %s)", strings.Join(versions, ", ")),
				})
			}
		}
	}
	return unused
}

func anyMatches(versions []string, req string) bool {
	for _, v := range versions {
		if semver.Matches(v, req) {
			return true
		}
	}
	return false
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
