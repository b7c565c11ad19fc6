package planner

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/opmodel/crateplan/internal/metadata"
)

const buildScriptKind = "custom-build"

// produceTargets converts the targets of pkg into one BuildableTarget per
// kind, with source paths relative to root using forward slashes.
func produceTargets(ident string, pkg *metadata.Package, root string) ([]BuildableTarget, error) {
	targets := []BuildableTarget{}
	for _, target := range pkg.Targets {
		path, err := portablePath(ident, target, root)
		if err != nil {
			return nil, err
		}
		for _, kind := range target.Kind {
			targets = append(targets, BuildableTarget{
				Name:    target.Name,
				Kind:    kind,
				Path:    path,
				Edition: target.Edition,
			})
		}
	}
	sort.Slice(targets, func(i, j int) bool {
		a, b := targets[i], targets[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Path < b.Path
	})
	return targets, nil
}

func portablePath(ident string, target metadata.Target, root string) (string, error) {
	fail := func(reason string) error {
		return &NonPortablePathError{Ident: ident, Target: target.Name, Path: target.SrcPath, Reason: reason}
	}

	if !utf8.ValidString(target.SrcPath) {
		return "", fail("is not valid UTF-8")
	}
	rel, err := filepath.Rel(root, target.SrcPath)
	if err != nil {
		return "", fail("cannot be made relative to " + root)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fail("is outside the crate root " + root)
	}
	if strings.ContainsFunc(rel, func(r rune) bool { return unicode.IsControl(r) || r == '\\' }) {
		return "", fail("contains characters that are not allowed in Bazel labels")
	}
	return rel, nil
}

// extractBuildScript removes the first build script target from targets when
// gen is set.
func extractBuildScript(targets []BuildableTarget, gen bool) ([]BuildableTarget, *BuildableTarget) {
	if !gen {
		return targets, nil
	}
	for i, t := range targets {
		if t.Kind == buildScriptKind {
			script := t
			rest := append(append([]BuildableTarget(nil), targets[:i]...), targets[i+1:]...)
			return rest, &script
		}
	}
	return targets, nil
}

// libTarget returns the name of the first library or proc-macro target of
// pkg and whether it is a proc-macro.
func libTarget(pkg *metadata.Package) (string, bool) {
	for _, target := range pkg.Targets {
		for _, kind := range target.Kind {
			switch kind {
			case "lib":
				return target.Name, false
			case "proc-macro":
				return target.Name, true
			}
		}
	}
	return "", false
}
