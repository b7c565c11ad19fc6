// Package cmdtypes provides shared types for the cmd package and cmdutil.
// It is separate from internal/cmd so that cmdutil can depend on it without
// importing the command tree.
package cmdtypes

import (
	oerrors "github.com/opmodel/crateplan/internal/errors"

	"github.com/opmodel/crateplan/internal/config"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// Config is the loaded config file. Never nil after PersistentPreRunE.
	Config *config.Config

	ConfigPath string // resolved --config path
	OutputFlag string // raw --output flag value, empty when not given
	Verbose    bool
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess         = oerrors.ExitSuccess
	ExitGeneralError    = oerrors.ExitGeneralError
	ExitPlanningError   = oerrors.ExitPlanningError
	ExitConfigError     = oerrors.ExitConfigError
	ExitValidationError = oerrors.ExitValidationError
	ExitNotFound        = oerrors.ExitNotFound
	ExitDiffFound       = oerrors.ExitDiffFound
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
