package planner

import (
	"github.com/opmodel/crateplan/internal/license"
	"github.com/opmodel/crateplan/internal/settings"
)

// BuildableDependency is a dependency resolved to a Bazel label.
type BuildableDependency struct {
	Name            string `json:"name" yaml:"name"`
	Version         string `json:"version" yaml:"version"`
	BuildableTarget string `json:"buildable_target" yaml:"buildable_target"`
	IsProcMacro     bool   `json:"is_proc_macro" yaml:"is_proc_macro"`
}

// DependencyAlias exposes a dependency under a different name.
type DependencyAlias struct {
	Target string `json:"target" yaml:"target"`
	Alias  string `json:"alias" yaml:"alias"`
}

// DependencySet is one classified set of dependencies. Every list is
// deduplicated and sorted.
type DependencySet struct {
	Dependencies               []BuildableDependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	ProcMacroDependencies      []BuildableDependency `json:"proc_macro_dependencies,omitempty" yaml:"proc_macro_dependencies,omitempty"`
	BuildDependencies          []BuildableDependency `json:"build_dependencies,omitempty" yaml:"build_dependencies,omitempty"`
	BuildProcMacroDependencies []BuildableDependency `json:"build_proc_macro_dependencies,omitempty" yaml:"build_proc_macro_dependencies,omitempty"`
	DevDependencies            []BuildableDependency `json:"dev_dependencies,omitempty" yaml:"dev_dependencies,omitempty"`
	Aliased                    []DependencyAlias     `json:"aliased_dependencies,omitempty" yaml:"aliased_dependencies,omitempty"`
}

// IsEmpty reports whether the set holds no dependencies and no aliases.
func (s *DependencySet) IsEmpty() bool {
	return len(s.Dependencies) == 0 &&
		len(s.ProcMacroDependencies) == 0 &&
		len(s.BuildDependencies) == 0 &&
		len(s.BuildProcMacroDependencies) == 0 &&
		len(s.DevDependencies) == 0 &&
		len(s.Aliased) == 0
}

// TargetedDependencies are the dependencies that only apply on the
// platforms matching a predicate.
type TargetedDependencies struct {
	// Target is the platform predicate as written in the manifest.
	Target string `json:"target" yaml:"target"`

	Deps DependencySet `json:"deps" yaml:"deps"`

	// Platforms are the supported triples the predicate selects.
	Platforms []string `json:"platform_targets" yaml:"platform_targets"`

	// Conditions are the Bazel labels of Platforms.
	Conditions []string `json:"conditions" yaml:"conditions"`
}

// BuildableTarget is one build target of a crate.
type BuildableTarget struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	Path    string `json:"path" yaml:"path"`
	Edition string `json:"edition,omitempty" yaml:"edition,omitempty"`
}

// GitRepo locates a crate inside a git repository.
type GitRepo struct {
	Remote string `json:"remote" yaml:"remote"`
	Commit string `json:"commit" yaml:"commit"`

	// PathToCrateRoot is the crate directory relative to the repository
	// root, empty when the crate is at the root.
	PathToCrateRoot string `json:"path_to_crate_root,omitempty" yaml:"path_to_crate_root,omitempty"`
}

// SourceDetails describes where a crate's sources come from.
type SourceDetails struct {
	Git *GitRepo `json:"git_data,omitempty" yaml:"git_data,omitempty"`
}

// CrateContext is the complete build plan of one crate.
type CrateContext struct {
	PkgName    string `json:"pkg_name" yaml:"pkg_name"`
	PkgVersion string `json:"pkg_version" yaml:"pkg_version"`
	Edition    string `json:"edition,omitempty" yaml:"edition,omitempty"`

	License  license.Result    `json:"license" yaml:"license"`
	Licenses []license.Summary `json:"licenses" yaml:"licenses"`
	Features []string          `json:"features" yaml:"features"`

	DefaultDeps  DependencySet          `json:"default_deps" yaml:"default_deps"`
	TargetedDeps []TargetedDependencies `json:"targeted_deps,omitempty" yaml:"targeted_deps,omitempty"`

	Targets           []BuildableTarget `json:"targets" yaml:"targets"`
	BuildScriptTarget *BuildableTarget  `json:"build_script_target,omitempty" yaml:"build_script_target,omitempty"`
	LibTargetName     string            `json:"lib_target_name,omitempty" yaml:"lib_target_name,omitempty"`
	IsProcMacro       bool              `json:"is_proc_macro" yaml:"is_proc_macro"`
	Links             string            `json:"links,omitempty" yaml:"links,omitempty"`

	SourceDetails SourceDetails `json:"source_details" yaml:"source_details"`
	Sha256        string        `json:"sha256,omitempty" yaml:"sha256,omitempty"`
	RegistryURL   string        `json:"registry_url,omitempty" yaml:"registry_url,omitempty"`

	// ExpectedBuildPath is where the renderer writes the crate's BUILD file.
	ExpectedBuildPath string `json:"expected_build_path" yaml:"expected_build_path"`

	// WorkspacePathToCrate is the Bazel package holding the crate.
	WorkspacePathToCrate string `json:"workspace_path_to_crate" yaml:"workspace_path_to_crate"`

	IsRootDependency            bool `json:"is_root_dependency" yaml:"is_root_dependency"`
	IsWorkspaceMemberDependency bool `json:"is_workspace_member_dependency" yaml:"is_workspace_member_dependency"`
	IsBinaryDependency          bool `json:"is_binary_dependency" yaml:"is_binary_dependency"`

	// Workspace members depending on this crate, as paths relative to the
	// workspace root.
	WorkspaceMemberDependents      []string `json:"workspace_member_dependents,omitempty" yaml:"workspace_member_dependents,omitempty"`
	WorkspaceMemberDevDependents   []string `json:"workspace_member_dev_dependents,omitempty" yaml:"workspace_member_dev_dependents,omitempty"`
	WorkspaceMemberBuildDependents []string `json:"workspace_member_build_dependents,omitempty" yaml:"workspace_member_build_dependents,omitempty"`

	// RawSettings is the override record applied to the crate, if any.
	RawSettings *settings.CrateSettings `json:"raw_settings,omitempty" yaml:"raw_settings,omitempty"`

	// AdditionalBuildFile is the resolved path of the settings'
	// additional_build_file.
	AdditionalBuildFile string `json:"additional_build_file,omitempty" yaml:"additional_build_file,omitempty"`
}

// Ident returns "<name>-<version>".
func (c *CrateContext) Ident() string {
	return c.PkgName + "-" + c.PkgVersion
}

// WorkspaceContext holds the workspace-level part of the plan.
type WorkspaceContext struct {
	WorkspacePath         string `json:"workspace_path" yaml:"workspace_path"`
	GenWorkspacePrefix    string `json:"gen_workspace_prefix" yaml:"gen_workspace_prefix"`
	OutputBuildfileSuffix string `json:"output_buildfile_suffix" yaml:"output_buildfile_suffix"`

	// PackageAliasesDir is where the renderer writes workspace aliases.
	PackageAliasesDir string `json:"package_aliases_dir,omitempty" yaml:"package_aliases_dir,omitempty"`

	// WorkspaceMembers are the member directories relative to the workspace
	// root. Binary dependencies are excluded.
	WorkspaceMembers []string `json:"workspace_members" yaml:"workspace_members"`
}

// PlannedBuild is the output of a planning run.
type PlannedBuild struct {
	Workspace WorkspaceContext `json:"workspace" yaml:"workspace"`

	// Crates are ordered by package identifier.
	Crates []CrateContext `json:"crates" yaml:"crates"`

	// Aliases expose workspace-member dependencies at the workspace path.
	Aliases []DependencyAlias `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	// Warnings contains non-fatal warnings.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// HasWarnings returns true if there are warnings.
func (p *PlannedBuild) HasWarnings() bool {
	return len(p.Warnings) > 0
}
