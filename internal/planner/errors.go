package planner

import (
	"fmt"

	oerrors "github.com/opmodel/crateplan/internal/errors"
)

// PackageError is implemented by errors that concern a single package.
// A run may skip the package and continue.
type PackageError interface {
	error

	// Package returns the "<name>-<version>" of the offending package.
	Package() string
}

// PlanningError is a per-package failure not covered by a more specific type.
type PlanningError struct {
	Ident  string
	Reason string
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("planning %s: %s", e.Ident, e.Reason)
}

// Package implements PackageError.
func (e *PlanningError) Package() string { return e.Ident }

// Unwrap classifies the error as a planning error.
func (e *PlanningError) Unwrap() error { return oerrors.ErrPlanning }

// RepoRootNotFoundError is returned when no git repository root is found
// above a git-sourced crate.
type RepoRootNotFoundError struct {
	Ident        string
	ManifestPath string
}

func (e *RepoRootNotFoundError) Error() string {
	return fmt.Sprintf("%s: unable to locate git repository root above %s", e.Ident, e.ManifestPath)
}

// Package implements PackageError.
func (e *RepoRootNotFoundError) Package() string { return e.Ident }

// Unwrap classifies the error as a planning error.
func (e *RepoRootNotFoundError) Unwrap() error { return oerrors.ErrPlanning }

// NonPortablePathError is returned when a target source path cannot be
// expressed as a Bazel label relative to the crate root.
type NonPortablePathError struct {
	Ident  string
	Target string
	Path   string
	Reason string
}

func (e *NonPortablePathError) Error() string {
	return fmt.Sprintf("%s: path %q of target %s %s", e.Ident, e.Path, e.Target, e.Reason)
}

// Package implements PackageError.
func (e *NonPortablePathError) Package() string { return e.Ident }

// Unwrap classifies the error as a planning error.
func (e *NonPortablePathError) Unwrap() error { return oerrors.ErrPlanning }

// AdditionalBuildFileError is returned when a crate's additional_build_file
// does not exist.
type AdditionalBuildFileError struct {
	Ident string
	Path  string
}

func (e *AdditionalBuildFileError) Error() string {
	return fmt.Sprintf("%s: additional_build_file %s does not exist", e.Ident, e.Path)
}

// Package implements PackageError.
func (e *AdditionalBuildFileError) Package() string { return e.Ident }

// Unwrap classifies the error as a configuration error.
func (e *AdditionalBuildFileError) Unwrap() error { return oerrors.ErrConfig }

// MissingChecksumError is returned in strict mode for registry crates that
// have no lockfile checksum.
type MissingChecksumError struct {
	Idents []string
}

func (e *MissingChecksumError) Error() string {
	listed := e.Idents
	if len(listed) > 5 {
		listed = listed[:5]
	}
	msg := fmt.Sprintf("no checksum recorded for %v", listed)
	if extra := len(e.Idents) - len(listed); extra > 0 {
		msg += fmt.Sprintf(" and %d others", extra)
	}
	return msg
}

// Unwrap classifies the error as a planning error.
func (e *MissingChecksumError) Unwrap() error { return oerrors.ErrPlanning }
