// Package semver wraps github.com/Masterminds/semver/v3 with Cargo's
// requirement dialect.
package semver

import (
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a semantic version.
type Version struct {
	v *mm.Version
}

// Constraint is a version requirement as written in a Cargo manifest.
//
// Examples:
// - "1.0" (caret by default, same as "^1.0")
// - ">=1.2.0, <2.0.0"
// - "~1.4"
// - "*"
type Constraint struct {
	raw string
	c   *mm.Constraints
}

func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseConstraint parses a Cargo requirement. An empty requirement matches
// every version.
func ParseConstraint(raw string) (Constraint, error) {
	normalized := normalizeCargoRequirement(raw)
	c, err := mm.NewConstraint(normalized)
	if err != nil {
		return Constraint{}, fmt.Errorf("semver: parse constraint %q: %w", raw, err)
	}
	return Constraint{raw: strings.TrimSpace(raw), c: c}, nil
}

func MustParseConstraint(raw string) Constraint {
	c, err := ParseConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the requirement as it was written.
func (c Constraint) String() string {
	return c.raw
}

// String returns the canonical version string.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

func Satisfies(v Version, c Constraint) bool {
	if v.v == nil || c.c == nil {
		return false
	}
	return c.c.Check(v.v)
}

// Matches reports whether the raw version satisfies the raw requirement.
// Unparsable input never matches.
func Matches(rawVersion, rawConstraint string) bool {
	v, err := ParseVersion(rawVersion)
	if err != nil {
		return false
	}
	c, err := ParseConstraint(rawConstraint)
	if err != nil {
		return false
	}
	return Satisfies(v, c)
}

// normalizeCargoRequirement rewrites a Cargo requirement into the syntax
// understood by Masterminds. Cargo treats a bare version as a caret
// requirement while Masterminds treats it as an exact match.
func normalizeCargoRequirement(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "*"
	}

	parts := strings.Split(raw, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" && isDigit(part[0]) && !strings.ContainsAny(part, "*xX") {
			part = "^" + part
		}
		parts[i] = part
	}
	return strings.Join(parts, ", ")
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
