// Package testutil provides test helpers for crateplan tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/opmodel/crateplan/internal/metadata"
)

// RegistrySource is the source string of crates.io packages.
const RegistrySource = "registry+https://github.com/rust-lang/crates.io-index"

// RegistryRoot is where registry packages are unpacked in fixtures.
const RegistryRoot = "/cargo/registry/src/github.com-1ecc6299db9ec823"

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// RegistryID returns the identifier cargo assigns to a crates.io package.
func RegistryID(name, version string) string {
	return fmt.Sprintf("%s %s (%s)", name, version, RegistrySource)
}

// MemberID returns the identifier of a workspace member at /ws/<name>.
func MemberID(name, version string) string {
	return fmt.Sprintf("%s %s (path+file:///ws/%s)", name, version, name)
}

// Graph builds metadata snapshots for tests.
type Graph struct {
	meta metadata.Metadata
}

// NewGraph returns a graph rooted at workspace member name 0.1.0.
func NewGraph(name string) *Graph {
	g := &Graph{meta: metadata.Metadata{
		WorkspaceRoot: "/ws",
		Resolve:       &metadata.Resolve{},
	}}
	g.meta.Resolve.Root = g.Member(metadata.Package{Name: name, Version: "0.1.0"})
	return g
}

// Member adds a workspace member and returns its identifier.
func (g *Graph) Member(pkg metadata.Package) string {
	if pkg.ID == "" {
		pkg.ID = MemberID(pkg.Name, pkg.Version)
	}
	if pkg.ManifestPath == "" {
		pkg.ManifestPath = fmt.Sprintf("/ws/%s/Cargo.toml", pkg.Name)
	}
	if pkg.Targets == nil {
		pkg.Targets = []metadata.Target{{
			Name:       pkg.Name,
			Kind:       []string{"bin"},
			CrateTypes: []string{"bin"},
			SrcPath:    fmt.Sprintf("/ws/%s/src/main.rs", pkg.Name),
		}}
	}
	g.meta.WorkspaceMembers = append(g.meta.WorkspaceMembers, pkg.ID)
	return g.add(pkg)
}

// Crate adds a crates.io package and returns its identifier. Packages
// without targets get a library target.
func (g *Graph) Crate(pkg metadata.Package) string {
	if pkg.ID == "" {
		pkg.ID = RegistryID(pkg.Name, pkg.Version)
	}
	if pkg.Source == "" {
		pkg.Source = RegistrySource
	}
	dir := fmt.Sprintf("%s/%s-%s", RegistryRoot, pkg.Name, pkg.Version)
	if pkg.ManifestPath == "" {
		pkg.ManifestPath = dir + "/Cargo.toml"
	}
	if pkg.Targets == nil {
		pkg.Targets = []metadata.Target{LibTarget(pkg.Name, dir)}
	}
	return g.add(pkg)
}

func (g *Graph) add(pkg metadata.Package) string {
	g.meta.Packages = append(g.meta.Packages, pkg)
	g.meta.Resolve.Nodes = append(g.meta.Resolve.Nodes, metadata.Node{ID: pkg.ID, Dependencies: []string{}})
	return pkg.ID
}

// Link records that from is built against each of to.
func (g *Graph) Link(from string, to ...string) *Graph {
	for i := range g.meta.Resolve.Nodes {
		if g.meta.Resolve.Nodes[i].ID == from {
			g.meta.Resolve.Nodes[i].Dependencies = append(g.meta.Resolve.Nodes[i].Dependencies, to...)
			return g
		}
	}
	panic("testutil: unknown node " + from)
}

// Declare appends declared dependencies to the manifest of package id.
func (g *Graph) Declare(id string, deps ...metadata.Dependency) *Graph {
	for i := range g.meta.Packages {
		if g.meta.Packages[i].ID == id {
			g.meta.Packages[i].Dependencies = append(g.meta.Packages[i].Dependencies, deps...)
			return g
		}
	}
	panic("testutil: unknown package " + id)
}

// Features sets the activated features of a node.
func (g *Graph) Features(id string, features ...string) *Graph {
	for i := range g.meta.Resolve.Nodes {
		if g.meta.Resolve.Nodes[i].ID == id {
			g.meta.Resolve.Nodes[i].Features = features
			return g
		}
	}
	panic("testutil: unknown node " + id)
}

// Root returns the root identifier.
func (g *Graph) Root() string { return g.meta.Resolve.Root }

// Metadata returns the snapshot built so far.
func (g *Graph) Metadata() *metadata.Metadata { return &g.meta }

// WriteJSON writes the snapshot to dir/name as `cargo metadata` would and
// returns the file path.
func (g *Graph) WriteJSON(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := json.MarshalIndent(&g.meta, "", "  ")
	if err != nil {
		t.Fatalf("failed to encode metadata: %v", err)
	}
	return WriteFile(t, dir, name, string(data))
}

// LibTarget returns a library target rooted at dir.
func LibTarget(name, dir string) metadata.Target {
	return metadata.Target{
		Name:       name,
		Kind:       []string{"lib"},
		CrateTypes: []string{"lib"},
		SrcPath:    dir + "/src/lib.rs",
	}
}

// Dep returns a normal dependency declaration.
func Dep(name, req string) metadata.Dependency {
	return metadata.Dependency{Name: name, Req: req, Kind: metadata.KindNormal}
}

const fixtureManifest = `[package]
name = "app"
version = "0.1.0"

[package.metadata.raze]
workspace_path = "//cargo"
`

const fixtureLockfile = `[[package]]
name = "serde"
version = "1.0.100"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "f4473e8a"
`

// WriteWorkspace writes a workspace whose member app depends on serde 1.0.100
// and log 0.4.14 into a temporary directory: cargo-metadata.json, a
// Cargo.toml with a raze table and a Cargo.lock recording serde's checksum
// only. It returns the directory.
func WriteWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	g := NewGraph("app")
	serde := g.Crate(metadata.Package{Name: "serde", Version: "1.0.100", License: "MIT OR Apache-2.0"})
	log := g.Crate(metadata.Package{Name: "log", Version: "0.4.14", License: "MIT"})
	g.Declare(g.Root(), Dep("serde", "1"), Dep("log", "0.4"))
	g.Link(g.Root(), serde, log)

	g.WriteJSON(t, dir, "cargo-metadata.json")
	WriteFile(t, dir, "Cargo.toml", fixtureManifest)
	WriteFile(t, dir, "Cargo.lock", fixtureLockfile)
	return dir
}
