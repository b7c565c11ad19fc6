package settings

import (
	"fmt"
	"strings"

	oerrors "github.com/opmodel/crateplan/internal/errors"
)

// AmbiguousSettingsError is returned when more than one version requirement
// in the overrides of a crate matches its version.
type AmbiguousSettingsError struct {
	Name         string
	Version      string
	Requirements []string
}

func (e *AmbiguousSettingsError) Error() string {
	return fmt.Sprintf("multiple potential semver matches for %s %s in settings: %s",
		e.Name, e.Version, strings.Join(e.Requirements, ", "))
}

// Unwrap classifies the error as a configuration error.
func (e *AmbiguousSettingsError) Unwrap() error {
	return oerrors.ErrConfig
}
