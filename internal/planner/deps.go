package planner

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/opmodel/crateplan/internal/catalog"
	"github.com/opmodel/crateplan/internal/metadata"
	"github.com/opmodel/crateplan/internal/output"
	"github.com/opmodel/crateplan/internal/platform"
	"github.com/opmodel/crateplan/internal/semver"
)

// sysSuffix marks crates that expose a native library.
const sysSuffix = "-sys"

// namedDeps holds the names of declared dependencies by kind.
type namedDeps struct {
	normal  map[string]bool
	dev     map[string]bool
	build   map[string]bool
	renamed []metadata.Dependency
}

func newNamedDeps() *namedDeps {
	return &namedDeps{
		normal: make(map[string]bool),
		dev:    make(map[string]bool),
		build:  make(map[string]bool),
	}
}

func (n *namedDeps) add(dep metadata.Dependency) {
	switch dep.EffectiveKind() {
	case metadata.KindDev:
		n.dev[dep.Name] = true
	case metadata.KindBuild:
		n.build[dep.Name] = true
	default:
		n.normal[dep.Name] = true
	}
	if dep.Rename != "" {
		n.renamed = append(n.renamed, dep)
	}
}

// identifyNamedDeps buckets the declared dependencies of pkg. Dependencies
// whose predicate does not parse or selects no supported platform are
// dropped; predicates selecting every platform count as unconditional.
func (p *Planner) identifyNamedDeps(pkg *metadata.Package) (*namedDeps, map[string]*namedDeps) {
	defaults := newNamedDeps()
	targeted := make(map[string]*namedDeps)

	for _, dep := range pkg.Dependencies {
		if dep.Target == "" {
			defaults.add(dep)
			continue
		}

		supported, matchesAll, err := p.matcher.Classify(dep.Target)
		if err != nil {
			var parseErr *platform.ParseError
			if errors.As(err, &parseErr) {
				output.Debug("dropping dependency with unparsable platform predicate",
					"crate", pkg.Name, "dependency", dep.Name, "predicate", dep.Target, "reason", parseErr.Reason)
			}
			continue
		}
		if !supported {
			output.Debug("dropping dependency for unsupported platforms",
				"crate", pkg.Name, "dependency", dep.Name, "predicate", dep.Target)
			continue
		}
		if matchesAll {
			defaults.add(dep)
			continue
		}

		bucket, ok := targeted[dep.Target]
		if !ok {
			bucket = newNamedDeps()
			targeted[dep.Target] = bucket
		}
		bucket.add(dep)
	}
	return defaults, targeted
}

// produceDeps classifies the resolved dependencies of node into set
// according to the declared names.
func (p *Planner) produceDeps(ident string, node *metadata.Node, names *namedDeps, skipped map[string]bool) (DependencySet, error) {
	var set DependencySet
	aliases := make(map[string]string)

	for _, depID := range node.Dependencies {
		entry, ok := p.catalog.Entry(depID)
		if !ok {
			return set, &PlanningError{Ident: ident, Reason: fmt.Sprintf("dependency %q is not in the catalog", depID)}
		}
		if skipped[entry.PackageIdent] {
			continue
		}

		name := entry.Name()
		dep := BuildableDependency{
			Name:            name,
			Version:         entry.Version(),
			BuildableTarget: entry.Label(p.settings),
			IsProcMacro:     isProcMacro(entry.Package),
		}

		if names.build[name] {
			if dep.IsProcMacro {
				set.BuildProcMacroDependencies = append(set.BuildProcMacroDependencies, dep)
			} else {
				set.BuildDependencies = append(set.BuildDependencies, dep)
			}
		}
		if names.dev[name] {
			set.DevDependencies = append(set.DevDependencies, dep)
		}
		if names.normal[name] {
			if dep.IsProcMacro {
				set.ProcMacroDependencies = append(set.ProcMacroDependencies, dep)
			} else {
				set.Dependencies = append(set.Dependencies, dep)
			}
			if strings.HasSuffix(name, sysSuffix) {
				set.BuildDependencies = append(set.BuildDependencies, dep)
			}
		}

		for _, declared := range names.renamed {
			if declared.Name != name || !semver.Matches(dep.Version, declared.Req) {
				continue
			}
			alias := catalog.SanitizeName(declared.Rename)
			if existing, ok := aliases[dep.BuildableTarget]; ok && existing != alias {
				return set, &PlanningError{
					Ident:  ident,
					Reason: fmt.Sprintf("duplicated renamed package %s: aliases %q and %q", dep.BuildableTarget, existing, alias),
				}
			}
			aliases[dep.BuildableTarget] = alias
		}
	}

	set.Dependencies = sortDeps(set.Dependencies)
	set.ProcMacroDependencies = sortDeps(set.ProcMacroDependencies)
	set.BuildDependencies = sortDeps(set.BuildDependencies)
	set.BuildProcMacroDependencies = sortDeps(set.BuildProcMacroDependencies)
	set.DevDependencies = sortDeps(set.DevDependencies)
	for target, alias := range aliases {
		set.Aliased = append(set.Aliased, DependencyAlias{Target: target, Alias: alias})
	}
	sortAliases(set.Aliased)
	return set, nil
}

// targetedDeps classifies every predicate bucket and removes what the
// default set already covers. Buckets selecting no allowed platform are
// dropped.
func (p *Planner) targetedDeps(ident string, node *metadata.Node, defaults *DependencySet, buckets map[string]*namedDeps, skipped map[string]bool) ([]TargetedDependencies, error) {
	predicates := make([]string, 0, len(buckets))
	for predicate := range buckets {
		predicates = append(predicates, predicate)
	}
	sort.Strings(predicates)

	allowlist := p.settings.Allowlist()
	var targeted []TargetedDependencies
	for _, predicate := range predicates {
		triples, err := p.matcher.ResolveTriples(predicate)
		if err != nil {
			// Classify already parsed the predicate.
			return nil, err
		}
		triples = platform.IntersectWithAllowlist(triples, allowlist)
		if len(triples) == 0 {
			output.Debug("dropping predicate outside the target allowlist", "crate", ident, "predicate", predicate)
			continue
		}

		set, err := p.produceDeps(ident, node, buckets[predicate], skipped)
		if err != nil {
			return nil, err
		}
		subtract(&set, defaults)
		if set.IsEmpty() {
			continue
		}

		conditions, err := p.matcher.TriplesToConditions(triples)
		if err != nil {
			return nil, err
		}
		targeted = append(targeted, TargetedDependencies{
			Target:     predicate,
			Deps:       set,
			Platforms:  triples,
			Conditions: conditions,
		})
	}
	return targeted, nil
}

func isProcMacro(pkg *metadata.Package) bool {
	for _, target := range pkg.Targets {
		if target.HasCrateType("proc-macro") {
			return true
		}
	}
	return false
}

// subtract removes from set every dependency and alias present in the
// matching list of defaults.
func subtract(set, defaults *DependencySet) {
	set.Dependencies = without(set.Dependencies, defaults.Dependencies)
	set.ProcMacroDependencies = without(set.ProcMacroDependencies, defaults.ProcMacroDependencies)
	set.BuildDependencies = without(set.BuildDependencies, defaults.BuildDependencies)
	set.BuildProcMacroDependencies = without(set.BuildProcMacroDependencies, defaults.BuildProcMacroDependencies)
	set.DevDependencies = without(set.DevDependencies, defaults.DevDependencies)

	present := make(map[DependencyAlias]bool, len(defaults.Aliased))
	for _, a := range defaults.Aliased {
		present[a] = true
	}
	var kept []DependencyAlias
	for _, a := range set.Aliased {
		if !present[a] {
			kept = append(kept, a)
		}
	}
	set.Aliased = kept
}

func without(deps, remove []BuildableDependency) []BuildableDependency {
	if len(remove) == 0 {
		return deps
	}
	present := make(map[BuildableDependency]bool, len(remove))
	for _, d := range remove {
		present[d] = true
	}
	var kept []BuildableDependency
	for _, d := range deps {
		if !present[d] {
			kept = append(kept, d)
		}
	}
	return kept
}

// sortDeps sorts deps and drops duplicates.
func sortDeps(deps []BuildableDependency) []BuildableDependency {
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Name != deps[j].Name {
			return deps[i].Name < deps[j].Name
		}
		if deps[i].Version != deps[j].Version {
			return deps[i].Version < deps[j].Version
		}
		return deps[i].BuildableTarget < deps[j].BuildableTarget
	})
	out := deps[:0]
	for _, d := range deps {
		if len(out) > 0 && d == out[len(out)-1] {
			continue
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortAliases(aliases []DependencyAlias) {
	sort.Slice(aliases, func(i, j int) bool {
		if aliases[i].Alias != aliases[j].Alias {
			return aliases[i].Alias < aliases[j].Alias
		}
		return aliases[i].Target < aliases[j].Target
	})
}
