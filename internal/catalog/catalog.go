// Package catalog indexes the packages of a resolved dependency graph.
package catalog

import (
	"sort"
	"strings"

	"github.com/opmodel/crateplan/internal/metadata"
)

// Entry is a package together with the facts derived from its position in
// the graph. Entries are created by Build and never modified.
type Entry struct {
	Package *metadata.Package

	// PackageIdent is "<name>-<version>".
	PackageIdent string

	// SanitizedName is the name with '-' replaced by '_'.
	SanitizedName string

	// SanitizedVersion is a slug of the version usable in Bazel names.
	SanitizedVersion string

	IsRoot            bool
	IsRootDep         bool
	IsWorkspaceMember bool

	// WorkspaceMemberDependents are the workspace members that depend on
	// this package directly, sorted by identifier.
	WorkspaceMemberDependents []string
}

// ID returns the package identifier.
func (e *Entry) ID() string { return e.Package.ID }

// Name returns the package name.
func (e *Entry) Name() string { return e.Package.Name }

// Version returns the package version.
func (e *Entry) Version() string { return e.Package.Version }

// IsWorkspaceMemberDependency reports whether a workspace member depends on
// the package directly.
func (e *Entry) IsWorkspaceMemberDependency() bool {
	return len(e.WorkspaceMemberDependents) > 0
}

// Catalog is a read-only index over a metadata snapshot.
type Catalog struct {
	meta    *metadata.Metadata
	entries []Entry
	index   map[string]int
	nodes   map[string]int
	root    string
}

// Build indexes meta. Every identifier referenced by the resolve graph must
// name a package.
func Build(meta *metadata.Metadata) (*Catalog, error) {
	c := &Catalog{
		meta:    meta,
		entries: make([]Entry, len(meta.Packages)),
		index:   make(map[string]int, len(meta.Packages)),
		nodes:   make(map[string]int),
	}

	for i := range meta.Packages {
		pkg := &meta.Packages[i]
		if _, dup := c.index[pkg.ID]; dup {
			return nil, &DuplicatePackageError{ID: pkg.ID}
		}
		c.index[pkg.ID] = i
	}

	if meta.Resolve == nil {
		return nil, &MissingRootError{}
	}
	var missing []string
	seenMissing := make(map[string]bool)
	noteMissing := func(id string) {
		if _, ok := c.index[id]; !ok && !seenMissing[id] {
			seenMissing[id] = true
			missing = append(missing, id)
		}
	}
	for i, node := range meta.Resolve.Nodes {
		c.nodes[node.ID] = i
		noteMissing(node.ID)
		for _, dep := range node.Dependencies {
			noteMissing(dep)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingPackageError{IDs: missing}
	}

	rootDeps, err := c.resolveRoot()
	if err != nil {
		return nil, err
	}

	members := make(map[string]bool, len(meta.WorkspaceMembers))
	for _, id := range meta.WorkspaceMembers {
		members[id] = true
	}
	dependents := make(map[string][]string)
	for _, member := range sortedCopy(meta.WorkspaceMembers) {
		node, ok := c.Node(member)
		if !ok {
			continue
		}
		for _, dep := range node.Dependencies {
			dependents[dep] = appendUnique(dependents[dep], member)
		}
	}

	for i := range meta.Packages {
		pkg := &meta.Packages[i]
		c.entries[i] = Entry{
			Package:                   pkg,
			PackageIdent:              pkg.Name + "-" + pkg.Version,
			SanitizedName:             SanitizeName(pkg.Name),
			SanitizedVersion:          SanitizeVersion(pkg.Version),
			IsRoot:                    pkg.ID == c.root,
			IsRootDep:                 rootDeps[pkg.ID],
			IsWorkspaceMember:         members[pkg.ID],
			WorkspaceMemberDependents: dependents[pkg.ID],
		}
	}
	return c, nil
}

// resolveRoot finds the root node and returns the set of its direct
// dependencies. A graph without a root is accepted for virtual workspaces,
// in which case every member's dependencies count as root dependencies.
func (c *Catalog) resolveRoot() (map[string]bool, error) {
	rootDeps := make(map[string]bool)
	root := c.meta.Resolve.Root
	if root != "" {
		node, ok := c.Node(root)
		if !ok {
			return nil, &MissingRootError{ID: root}
		}
		c.root = root
		for _, dep := range node.Dependencies {
			rootDeps[dep] = true
		}
		return rootDeps, nil
	}

	if len(c.meta.WorkspaceMembers) == 0 {
		return nil, &MissingRootError{}
	}
	for _, member := range c.meta.WorkspaceMembers {
		node, ok := c.Node(member)
		if !ok {
			return nil, &MissingRootError{ID: member}
		}
		for _, dep := range node.Dependencies {
			rootDeps[dep] = true
		}
	}
	return rootDeps, nil
}

// Entry looks up the entry for a package identifier.
func (c *Catalog) Entry(id string) (*Entry, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return &c.entries[i], true
}

// Entries returns all entries in package order.
func (c *Catalog) Entries() []*Entry {
	out := make([]*Entry, len(c.entries))
	for i := range c.entries {
		out[i] = &c.entries[i]
	}
	return out
}

// Node looks up the resolve node for a package identifier.
func (c *Catalog) Node(id string) (*metadata.Node, bool) {
	i, ok := c.nodes[id]
	if !ok {
		return nil, false
	}
	return &c.meta.Resolve.Nodes[i], true
}

// SortedNodes returns the resolve nodes ordered by identifier.
func (c *Catalog) SortedNodes() []*metadata.Node {
	out := make([]*metadata.Node, len(c.meta.Resolve.Nodes))
	for i := range c.meta.Resolve.Nodes {
		out[i] = &c.meta.Resolve.Nodes[i]
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Root returns the root package identifier, or "" for a virtual workspace.
func (c *Catalog) Root() string { return c.root }

// Metadata returns the indexed snapshot.
func (c *Catalog) Metadata() *metadata.Metadata { return c.meta }

// Versions maps every package name to its known versions.
func (c *Catalog) Versions() map[string][]string {
	versions := make(map[string][]string)
	for _, e := range c.entries {
		versions[e.Name()] = appendUnique(versions[e.Name()], e.Version())
	}
	return versions
}

// SanitizeName makes a crate name usable as a Bazel target name.
func SanitizeName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// SanitizeVersion lowercases version and replaces each run of characters
// other than ASCII letters and digits with a single '_'.
func SanitizeVersion(version string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(version) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func appendUnique(values []string, v string) []string {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
