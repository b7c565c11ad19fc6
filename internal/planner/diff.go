package planner

import (
	"fmt"
	"os"
	"sort"

	"sigs.k8s.io/yaml"

	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/output"
)

// workspaceEntry names the workspace-level entry of a plan diff.
const workspaceEntry = "(workspace)"

// DiffResult is the difference between two plans. Crates are keyed by
// "<name>-<version>".
type DiffResult struct {
	// Added crates are planned in the new plan only.
	Added []string

	// Removed crates are planned in the old plan only.
	Removed []string

	// Modified crates differ between the plans.
	Modified []output.ModifiedItem
}

// IsEmpty returns true if there are no changes.
func (r *DiffResult) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Render renders the diff for the terminal.
func (r *DiffResult) Render() string {
	return output.RenderDiff(r.Added, r.Removed, r.Modified)
}

// Diff compares two plans crate by crate. The workspace context and aliases
// are compared as one extra entry. Warnings are ignored.
func Diff(from, to *PlannedBuild, useColor bool) (*DiffResult, error) {
	result := &DiffResult{}

	oldCrates := indexCrates(from)
	newCrates := indexCrates(to)

	for _, ident := range sortedKeys(newCrates) {
		if _, ok := oldCrates[ident]; !ok {
			result.Added = append(result.Added, ident)
		}
	}
	for _, ident := range sortedKeys(oldCrates) {
		newCrate, ok := newCrates[ident]
		if !ok {
			result.Removed = append(result.Removed, ident)
			continue
		}
		diff, err := diffValues(oldCrates[ident], newCrate, useColor)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", ident, err)
		}
		if diff != "" {
			result.Modified = append(result.Modified, output.ModifiedItem{Name: ident, Diff: diff})
		}
	}

	diff, err := diffValues(workspaceView(from), workspaceView(to), useColor)
	if err != nil {
		return nil, fmt.Errorf("comparing workspace: %w", err)
	}
	if diff != "" {
		result.Modified = append(result.Modified, output.ModifiedItem{Name: workspaceEntry, Diff: diff})
	}
	return result, nil
}

type planWorkspace struct {
	Workspace WorkspaceContext  `json:"workspace"`
	Aliases   []DependencyAlias `json:"aliases,omitempty"`
}

func workspaceView(p *PlannedBuild) planWorkspace {
	return planWorkspace{Workspace: p.Workspace, Aliases: p.Aliases}
}

func indexCrates(p *PlannedBuild) map[string]*CrateContext {
	crates := make(map[string]*CrateContext, len(p.Crates))
	for i := range p.Crates {
		crates[p.Crates[i].Ident()] = &p.Crates[i]
	}
	return crates
}

func sortedKeys(m map[string]*CrateContext) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func diffValues(from, to any, useColor bool) (string, error) {
	fromYAML, err := yaml.Marshal(from)
	if err != nil {
		return "", err
	}
	toYAML, err := yaml.Marshal(to)
	if err != nil {
		return "", err
	}
	return output.DiffYAML(fromYAML, toYAML, useColor)
}

// LoadPlan reads a plan previously written as YAML or JSON.
func LoadPlan(path string) (*PlannedBuild, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("plan file not found", path, "Write one with: crateplan plan -o yaml > plan.yaml")
		}
		return nil, fmt.Errorf("reading plan %s: %w", path, err)
	}
	return DecodePlan(data, path)
}

// DecodePlan decodes a YAML or JSON plan. source names the input in errors.
func DecodePlan(data []byte, source string) (*PlannedBuild, error) {
	var plan PlannedBuild
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, oerrors.NewValidationError(fmt.Sprintf("invalid plan: %v", err), source, "", "")
	}
	return &plan, nil
}
