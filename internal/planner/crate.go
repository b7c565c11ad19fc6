package planner

import (
	"path/filepath"
	"sort"

	"github.com/opmodel/crateplan/internal/catalog"
	"github.com/opmodel/crateplan/internal/license"
	"github.com/opmodel/crateplan/internal/metadata"
	"github.com/opmodel/crateplan/internal/output"
)

// PlanCrate produces the build plan of the package behind node.
func (p *Planner) PlanCrate(node *metadata.Node) (*CrateContext, error) {
	entry, ok := p.catalog.Entry(node.ID)
	if !ok {
		return nil, &PlanningError{Ident: node.ID, Reason: "package is not in the catalog"}
	}
	pkg := entry.Package
	ident := entry.PackageIdent
	log := output.CrateLogger(ident)

	crateSettings, err := p.store.Lookup(pkg.Name, pkg.Version)
	if err != nil {
		return nil, err
	}
	skipped := make(map[string]bool)
	if crateSettings != nil {
		for _, s := range crateSettings.SkippedDeps {
			skipped[s] = true
		}
	}

	defaultNames, targetedNames := p.identifyNamedDeps(pkg)
	defaults, err := p.produceDeps(ident, node, defaultNames, skipped)
	if err != nil {
		return nil, err
	}
	targeted, err := p.targetedDeps(ident, node, &defaults, targetedNames, skipped)
	if err != nil {
		return nil, err
	}

	root, err := p.packageRoot(ident, pkg)
	if err != nil {
		return nil, err
	}
	targets, err := produceTargets(ident, pkg, root)
	if err != nil {
		return nil, err
	}
	targets, buildScript := extractBuildScript(targets, p.settings.ShouldGenBuildrs(crateSettings))
	libName, procMacro := libTarget(pkg)

	source, err := sourceDetails(ident, pkg, root)
	if err != nil {
		return nil, err
	}

	features := append([]string{}, node.Features...)
	sort.Strings(features)

	isBinaryDep := p.settings.IsBinaryDep(pkg.Name)
	crate := &CrateContext{
		PkgName:                     pkg.Name,
		PkgVersion:                  pkg.Version,
		Edition:                     pkg.Edition,
		License:                     license.Evaluate(pkg.License),
		Licenses:                    license.Summarize(pkg.License),
		Features:                    features,
		DefaultDeps:                 defaults,
		TargetedDeps:                targeted,
		Targets:                     targets,
		BuildScriptTarget:           buildScript,
		LibTargetName:               libName,
		IsProcMacro:                 procMacro,
		Links:                       pkg.Links,
		SourceDetails:               source,
		RegistryURL:                 p.registryURL(pkg, isBinaryDep),
		ExpectedBuildPath:           entry.LocalBuildPath(p.settings),
		WorkspacePathToCrate:        entry.WorkspacePath(p.settings),
		IsRootDependency:            entry.IsRootDep,
		IsWorkspaceMemberDependency: entry.IsWorkspaceMemberDependency(),
		IsBinaryDependency:          isBinaryDep,
		RawSettings:                 crateSettings,
	}
	p.workspaceMemberDependents(crate, entry)

	if p.checksums != nil {
		if sum, ok := p.checksums.Checksum(pkg.Name, pkg.Version); ok {
			crate.Sha256 = sum
		}
	}

	if crateSettings != nil && crateSettings.AdditionalBuildFile != "" {
		path := crateSettings.AdditionalBuildFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.catalog.Metadata().WorkspaceRoot, path)
		}
		if _, err := p.fs.Stat(path); err != nil {
			return nil, &AdditionalBuildFileError{Ident: ident, Path: path}
		}
		crate.AdditionalBuildFile = path
	}

	log.Debug("planned crate",
		"deps", len(defaults.Dependencies),
		"targeted", len(targeted),
		"targets", len(targets),
		"license", crate.License.Rating,
	)
	return crate, nil
}

// workspaceMemberDependents fills the paths of the workspace members that
// declare and resolve the crate, split by dependency kind.
func (p *Planner) workspaceMemberDependents(crate *CrateContext, entry *catalog.Entry) {
	for _, memberID := range entry.WorkspaceMemberDependents {
		member, ok := p.catalog.Entry(memberID)
		if !ok {
			continue
		}
		path := p.memberPath(member.Package)
		kinds := make(map[metadata.DependencyKind]bool)
		for _, dep := range member.Package.Dependencies {
			if dep.Name == entry.Name() {
				kinds[dep.EffectiveKind()] = true
			}
		}
		if kinds[metadata.KindNormal] {
			crate.WorkspaceMemberDependents = append(crate.WorkspaceMemberDependents, path)
		}
		if kinds[metadata.KindDev] {
			crate.WorkspaceMemberDevDependents = append(crate.WorkspaceMemberDevDependents, path)
		}
		if kinds[metadata.KindBuild] {
			crate.WorkspaceMemberBuildDependents = append(crate.WorkspaceMemberBuildDependents, path)
		}
	}
}

// memberPath returns the directory of a workspace member relative to the
// workspace root, using forward slashes. The root itself is "".
func (p *Planner) memberPath(pkg *metadata.Package) string {
	dir := filepath.Dir(pkg.ManifestPath)
	rel, err := filepath.Rel(p.catalog.Metadata().WorkspaceRoot, dir)
	if err != nil {
		return filepath.ToSlash(dir)
	}
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
