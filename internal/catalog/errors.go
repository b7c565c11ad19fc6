package catalog

import (
	"fmt"
	"strings"

	oerrors "github.com/opmodel/crateplan/internal/errors"
)

// maxListedIDs bounds the identifiers listed in a MissingPackageError message.
const maxListedIDs = 5

// MissingRootError is returned when the graph has no resolvable root node.
type MissingRootError struct {
	// ID is the root identifier that could not be found, if any.
	ID string
}

func (e *MissingRootError) Error() string {
	if e.ID == "" {
		return "resolved graph has no root package and no workspace members"
	}
	return fmt.Sprintf("root package %q is not part of the resolved graph", e.ID)
}

// Unwrap classifies the error as a planning error.
func (e *MissingRootError) Unwrap() error { return oerrors.ErrPlanning }

// MissingPackageError is returned when the resolve graph references
// identifiers that have no package.
type MissingPackageError struct {
	IDs []string
}

func (e *MissingPackageError) Error() string {
	listed := e.IDs
	if len(listed) > maxListedIDs {
		listed = listed[:maxListedIDs]
	}
	msg := fmt.Sprintf("resolved graph references unknown packages: %s", strings.Join(listed, ", "))
	if extra := len(e.IDs) - len(listed); extra > 0 {
		msg += fmt.Sprintf(" and %d others", extra)
	}
	return msg
}

// Unwrap classifies the error as a planning error.
func (e *MissingPackageError) Unwrap() error { return oerrors.ErrPlanning }

// DuplicatePackageError is returned when two packages share an identifier.
type DuplicatePackageError struct {
	ID string
}

func (e *DuplicatePackageError) Error() string {
	return fmt.Sprintf("package %q is listed more than once", e.ID)
}

// Unwrap classifies the error as a planning error.
func (e *DuplicatePackageError) Unwrap() error { return oerrors.ErrPlanning }
