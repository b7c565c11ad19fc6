package planner

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/opmodel/crateplan/internal/metadata"
	"github.com/opmodel/crateplan/internal/settings"
)

const (
	gitSourcePrefix      = "git+"
	registrySourcePrefix = "registry+"
	gitMarker            = ".git"
)

// packageRoot returns the directory target paths are relative to. For git
// sources in Remote mode this is the repository root, found by walking up
// from the manifest until a .git directory appears.
func (p *Planner) packageRoot(ident string, pkg *metadata.Package) (string, error) {
	manifestDir := filepath.Dir(pkg.ManifestPath)
	if !strings.HasPrefix(pkg.Source, gitSourcePrefix) || p.settings.GenMode != settings.GenModeRemote {
		return manifestDir, nil
	}

	dir := manifestDir
	for {
		if info, err := p.fs.Stat(filepath.Join(dir, gitMarker)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &RepoRootNotFoundError{Ident: ident, ManifestPath: pkg.ManifestPath}
		}
		dir = parent
	}
}

// sourceDetails records the git remote and revision of git sources.
func sourceDetails(ident string, pkg *metadata.Package, root string) (SourceDetails, error) {
	if !strings.HasPrefix(pkg.Source, gitSourcePrefix) {
		return SourceDetails{}, nil
	}

	u, err := url.Parse(strings.TrimPrefix(pkg.Source, gitSourcePrefix))
	if err != nil {
		return SourceDetails{}, &PlanningError{Ident: ident, Reason: "invalid git source " + pkg.Source}
	}
	commit := u.Fragment
	u.Fragment = ""
	u.RawQuery = ""

	repo := &GitRepo{Remote: u.String(), Commit: commit}
	if rel, err := filepath.Rel(root, filepath.Dir(pkg.ManifestPath)); err == nil && rel != "." {
		repo.PathToCrateRoot = filepath.ToSlash(rel)
	}
	return SourceDetails{Git: repo}, nil
}

// registryURL returns the download URL of registry crates and of binary
// dependencies, which are fetched from the registry.
func (p *Planner) registryURL(pkg *metadata.Package, isBinaryDep bool) string {
	if !strings.HasPrefix(pkg.Source, registrySourcePrefix) && !(pkg.Source == "" && isBinaryDep) {
		return ""
	}
	return strings.NewReplacer("{crate}", pkg.Name, "{version}", pkg.Version).Replace(p.settings.Registry)
}
