package errors

import "errors"

// Exit codes returned by the crateplan binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitPlanningError indicates the graph could not be planned.
	ExitPlanningError = 2

	// ExitConfigError indicates invalid settings or configuration.
	ExitConfigError = 3

	// ExitValidationError indicates an input file could not be decoded.
	ExitValidationError = 4

	// ExitNotFound indicates an input file or package was not found.
	ExitNotFound = 5

	// ExitDiffFound indicates `crateplan diff` found differences.
	ExitDiffFound = 7
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitPlanningError:
		return "Planning Error"
	case ExitConfigError:
		return "Configuration Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitNotFound:
		return "Not Found"
	case ExitDiffFound:
		return "Diff Found"
	default:
		return "Unknown"
	}
}

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code int
	Err  error
	// Printed is set when the command already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ExitCodeName(e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrPlanning):
		return ExitPlanningError
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrValidation):
		return ExitValidationError
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	default:
		return ExitGeneralError
	}
}
