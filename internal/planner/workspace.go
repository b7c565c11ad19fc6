package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/opmodel/crateplan/internal/catalog"
	"github.com/opmodel/crateplan/internal/metadata"
	"github.com/opmodel/crateplan/internal/output"
	"github.com/opmodel/crateplan/internal/semver"
)

// Options configures a planning run.
type Options struct {
	// Jobs is the number of crates planned concurrently. Values below 2
	// plan sequentially.
	Jobs int

	// KeepGoing skips crates that fail with a PackageError instead of
	// aborting the run. Skipped crates are reported as warnings.
	KeepGoing bool

	// StrictChecksums turns missing registry checksums into an error.
	StrictChecksums bool
}

// Plan plans every eligible crate of the catalog. Crates are visited in
// identifier order and the result does not depend on Jobs. The root package
// and workspace members are skipped unless listed as binary dependencies.
func (p *Planner) Plan(ctx context.Context, opts Options) (*PlannedBuild, error) {
	var eligible []*metadata.Node
	for _, node := range p.catalog.SortedNodes() {
		entry, _ := p.catalog.Entry(node.ID)
		if (entry.IsRoot || entry.IsWorkspaceMember) && !p.settings.IsBinaryDep(entry.Name()) {
			continue
		}
		eligible = append(eligible, node)
	}
	output.Debug("planning crates", "eligible", len(eligible), "jobs", max(1, opts.Jobs))

	results := make([]*CrateContext, len(eligible))
	errs := make([]error, len(eligible))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Jobs))
	for i, node := range eligible {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = p.PlanCrate(node)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	build := &PlannedBuild{
		Workspace: p.workspaceContext(),
		Crates:    make([]CrateContext, 0, len(results)),
	}
	var missingChecksums []string
	for i, crate := range results {
		if err := errs[i]; err != nil {
			var pkgErr PackageError
			if opts.KeepGoing && errors.As(err, &pkgErr) {
				output.Warn("skipping crate", "crate", pkgErr.Package(), "err", err)
				build.Warnings = append(build.Warnings, fmt.Sprintf("skipped %s: %v", pkgErr.Package(), err))
				continue
			}
			return nil, err
		}

		entry, _ := p.catalog.Entry(eligible[i].ID)
		if p.checksums != nil && crate.Sha256 == "" && strings.HasPrefix(entry.Package.Source, registrySourcePrefix) {
			missingChecksums = append(missingChecksums, entry.PackageIdent)
			if !opts.StrictChecksums {
				output.Warn("no checksum in lockfile", "crate", entry.PackageIdent)
				build.Warnings = append(build.Warnings, fmt.Sprintf("no checksum recorded for %s", entry.PackageIdent))
			}
		}
		build.Crates = append(build.Crates, *crate)
	}
	if opts.StrictChecksums && len(missingChecksums) > 0 {
		return nil, &MissingChecksumError{Idents: missingChecksums}
	}

	build.Aliases = p.workspaceAliases(build.Crates)

	for _, unused := range p.settings.Unused(p.catalog.Versions()) {
		output.Warn("unused crate settings", "crate", unused.Name, "requirement", unused.Requirement, "reason", unused.Reason)
		build.Warnings = append(build.Warnings,
			fmt.Sprintf("settings for %s %q are unused: %s", unused.Name, unused.Requirement, unused.Reason))
	}

	return build, nil
}

func (p *Planner) workspaceContext() WorkspaceContext {
	members := make([]string, 0, len(p.catalog.Metadata().WorkspaceMembers))
	for _, id := range p.catalog.Metadata().WorkspaceMembers {
		entry, ok := p.catalog.Entry(id)
		if !ok || p.settings.IsBinaryDep(entry.Name()) {
			continue
		}
		members = append(members, p.memberPath(entry.Package))
	}
	sort.Strings(members)

	return WorkspaceContext{
		WorkspacePath:         p.settings.WorkspacePath,
		GenWorkspacePrefix:    p.settings.GenWorkspacePrefix,
		OutputBuildfileSuffix: p.settings.OutputBuildfileSuffix,
		PackageAliasesDir:     p.settings.PackageAliasesDir,
		WorkspaceMembers:      members,
	}
}

type versionedAlias struct {
	DependencyAlias
	version string
}

// workspaceAliases exposes the library of every direct workspace-member
// dependency, plus any extra_aliased_targets, at the workspace path. Alias
// names claimed by several crates are qualified with the crate version.
func (p *Planner) workspaceAliases(crates []CrateContext) []DependencyAlias {
	var candidates []versionedAlias
	for i := range crates {
		crate := &crates[i]
		if crate.LibTargetName == "" {
			continue
		}
		if crate.IsWorkspaceMemberDependency {
			candidates = append(candidates, versionedAlias{
				DependencyAlias: DependencyAlias{
					Target: crate.WorkspacePathToCrate + ":" + catalog.SanitizeName(crate.PkgName),
					Alias:  p.memberRename(crate.PkgName, crate.PkgVersion),
				},
				version: crate.PkgVersion,
			})
		}
		if crate.RawSettings != nil {
			for _, extra := range crate.RawSettings.ExtraAliasedTargets {
				candidates = append(candidates, versionedAlias{
					DependencyAlias: DependencyAlias{Target: crate.WorkspacePathToCrate + ":" + extra, Alias: extra},
					version:         crate.PkgVersion,
				})
			}
		}
	}

	targetsByAlias := make(map[string]map[string]bool)
	for _, c := range candidates {
		if targetsByAlias[c.Alias] == nil {
			targetsByAlias[c.Alias] = make(map[string]bool)
		}
		targetsByAlias[c.Alias][c.Target] = true
	}

	seen := make(map[DependencyAlias]bool)
	var aliases []DependencyAlias
	for _, c := range candidates {
		alias := c.DependencyAlias
		if len(targetsByAlias[alias.Alias]) > 1 {
			alias.Alias += "__" + catalog.SanitizeVersion(c.version)
		}
		if !seen[alias] {
			seen[alias] = true
			aliases = append(aliases, alias)
		}
	}
	sortAliases(aliases)
	return aliases
}

// memberRename returns the name workspace members use for a crate: the
// rename of a matching normal dependency, else the sanitized crate name.
func (p *Planner) memberRename(name, version string) string {
	members := append([]string(nil), p.catalog.Metadata().WorkspaceMembers...)
	sort.Strings(members)
	for _, id := range members {
		member, ok := p.catalog.Entry(id)
		if !ok {
			continue
		}
		for _, dep := range member.Package.Dependencies {
			if dep.Name == name && dep.Rename != "" && dep.EffectiveKind() == metadata.KindNormal &&
				semver.Matches(version, dep.Req) {
				return catalog.SanitizeName(dep.Rename)
			}
		}
	}
	return catalog.SanitizeName(name)
}
