package commands

import (
	"errors"

	"spendwise/internal/limits"
	"spendwise/internal/services"
)

// Exit codes returned by the spendwise binary.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitBadInput = 2
)

// ExitCode maps a command error to the process exit status. Rejected
// expenses and limits exit with ExitBadInput.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var fields services.ValidationErrors
	if errors.As(err, &fields) || limits.IsValidation(err) {
		return ExitBadInput
	}
	return ExitFailure
}
