// Package metadata models the resolved dependency graph reported by
// `cargo metadata` and loads it, together with lockfile checksums, from disk.
package metadata

// DependencyKind is the kind of a declared dependency.
type DependencyKind string

const (
	KindNormal DependencyKind = "normal"
	KindDev    DependencyKind = "dev"
	KindBuild  DependencyKind = "build"
)

// Metadata is the output of `cargo metadata --format-version 1`.
type Metadata struct {
	Packages         []Package `json:"packages"`
	WorkspaceMembers []string  `json:"workspace_members"`
	WorkspaceRoot    string    `json:"workspace_root"`
	TargetDirectory  string    `json:"target_directory,omitempty"`
	Resolve          *Resolve  `json:"resolve"`
}

// Package is one package of the graph. Packages are never mutated after
// loading.
type Package struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	License      string       `json:"license,omitempty"`
	LicenseFile  string       `json:"license_file,omitempty"`
	Description  string       `json:"description,omitempty"`
	Source       string       `json:"source,omitempty"`
	Dependencies []Dependency `json:"dependencies"`
	Targets      []Target     `json:"targets"`
	ManifestPath string       `json:"manifest_path"`
	Edition      string       `json:"edition,omitempty"`
	Links        string       `json:"links,omitempty"`
}

// Dependency is a dependency as declared in a package manifest.
type Dependency struct {
	Name     string         `json:"name"`
	Source   string         `json:"source,omitempty"`
	Req      string         `json:"req"`
	Kind     DependencyKind `json:"kind,omitempty"`
	Rename   string         `json:"rename,omitempty"`
	Optional bool           `json:"optional"`
	// Target is the platform predicate the dependency is conditioned on.
	Target string `json:"target,omitempty"`
}

// EffectiveKind returns the dependency kind, treating an absent kind as normal.
func (d Dependency) EffectiveKind() DependencyKind {
	if d.Kind == "" {
		return KindNormal
	}
	return d.Kind
}

// Target is a build target of a package.
type Target struct {
	Name       string   `json:"name"`
	Kind       []string `json:"kind"`
	CrateTypes []string `json:"crate_types"`
	SrcPath    string   `json:"src_path"`
	Edition    string   `json:"edition,omitempty"`
}

// HasKind reports whether the target is of the given kind.
func (t Target) HasKind(kind string) bool {
	return containsString(t.Kind, kind)
}

// HasCrateType reports whether the target produces the given crate type.
func (t Target) HasCrateType(crateType string) bool {
	return containsString(t.CrateTypes, crateType)
}

// Resolve is the resolved dependency graph.
type Resolve struct {
	Root  string `json:"root,omitempty"`
	Nodes []Node `json:"nodes"`
}

// Node is one package in the resolved graph together with the packages it
// is built against.
type Node struct {
	ID           string   `json:"id"`
	Dependencies []string `json:"dependencies"`
	Features     []string `json:"features,omitempty"`
}

// IsWorkspaceMember reports whether id is listed as a workspace member.
func (m *Metadata) IsWorkspaceMember(id string) bool {
	return containsString(m.WorkspaceMembers, id)
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
