package cli

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kitplummer/goa/internal/constants"
	"github.com/kitplummer/goa/internal/errors"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = constants.ExitOK
	// ExitError indicates a general error.
	ExitError = constants.ExitFailure
	// ExitInvalidInput indicates invalid user input.
	ExitInvalidInput = constants.ExitInvalidInput
)

// Output format constants for config show.
const (
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// ConfigFile is an explicit configuration file.
	ConfigFile string
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "config file (default ~/.goa/config.yaml)")
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputYAML, OutputJSON}
}

// ExitCodeForError returns the process exit code for err:
//   - nil: ExitSuccess
//   - an ExitCodeError anywhere in the chain: its code
//   - invalid flags, arguments or configuration values: ExitInvalidInput
//   - anything else: ExitError
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if code, ok := errors.ExitCode(err); ok {
		return code
	}

	for _, sentinel := range []error{
		errors.ErrValueOutOfRange,
		errors.ErrEmptyValue,
		errors.ErrInvalidArgument,
		errors.ErrUnsupportedOutputFormat,
	} {
		if stderrors.Is(err, sentinel) {
			return ExitInvalidInput
		}
	}

	if isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}

	return ExitError
}

// isInvalidInputError checks if an error message indicates invalid user input.
// This catches Cobra's built-in flag and argument validation errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts 1 arg(s)",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
