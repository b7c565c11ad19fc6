// Package platform evaluates platform predicates against the fixed set of
// target triples supported by rules_rust.
package platform

import "fmt"

// DefaultRulesWorkspace is the Bazel repository name of rules_rust.
const DefaultRulesWorkspace = "rules_rust"

// Matcher evaluates predicates against a list of supported triples.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	triples        []Triple
	index          map[string]int
	rulesWorkspace string
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithRulesWorkspace sets the repository name used in generated conditions.
func WithRulesWorkspace(name string) Option {
	return func(m *Matcher) {
		if name != "" {
			m.rulesWorkspace = name
		}
	}
}

// WithTriples replaces the supported triple list.
func WithTriples(triples []Triple) Option {
	return func(m *Matcher) {
		m.triples = triples
	}
}

// NewMatcher creates a Matcher over SupportedTriples.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		triples:        SupportedTriples,
		rulesWorkspace: DefaultRulesWorkspace,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.index = make(map[string]int, len(m.triples))
	for i, t := range m.triples {
		m.index[t.Name] = i
	}
	return m
}

// Classify reports whether any supported triple satisfies the predicate and
// whether all of them do.
func (m *Matcher) Classify(predicate string) (supported, matchesAll bool, err error) {
	matched, err := m.ResolveTriples(predicate)
	if err != nil {
		return false, false, err
	}
	return len(matched) > 0, len(matched) == len(m.triples), nil
}

// ResolveTriples returns the supported triples satisfying the predicate, in
// supported-list order.
func (m *Matcher) ResolveTriples(predicate string) ([]string, error) {
	expr, err := Parse(predicate)
	if err != nil {
		return nil, err
	}
	var matched []string
	seen := make(map[string]bool)
	for _, t := range m.triples {
		if seen[t.Name] || !expr.Matches(t) {
			continue
		}
		seen[t.Name] = true
		matched = append(matched, t.Name)
	}
	return matched, nil
}

// IntersectWithAllowlist keeps only triples present in allowlist. An empty
// allowlist keeps everything.
func IntersectWithAllowlist(triples, allowlist []string) []string {
	if len(allowlist) == 0 {
		return triples
	}
	allowed := make(map[string]bool, len(allowlist))
	for _, a := range allowlist {
		allowed[a] = true
	}
	kept := make([]string, 0, len(triples))
	for _, t := range triples {
		if allowed[t] {
			kept = append(kept, t)
		}
	}
	return kept
}

// TriplesToConditions converts triples into Bazel platform condition labels.
func (m *Matcher) TriplesToConditions(triples []string) ([]string, error) {
	conditions := make([]string, 0, len(triples))
	for _, t := range triples {
		if _, ok := m.index[t]; !ok {
			return nil, &UnknownTripleError{Triple: t}
		}
		conditions = append(conditions, fmt.Sprintf("@%s//rust/platform:%s", m.rulesWorkspace, t))
	}
	return conditions, nil
}

// IsSupported reports whether triple is in the supported list.
func (m *Matcher) IsSupported(triple string) bool {
	_, ok := m.index[triple]
	return ok
}
