package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice rather than a map because errors.Is() must walk wrapped chains.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	// ===================
	// Startup
	// ===================
	{
		err: ErrInvalidLocation,
		info: ErrorInfo{
			Message: "invalid URL or path",
			Action:  "Pass an absolute repository URL such as https://host/owner/repo.git or file:///path/to/repo.",
		},
	},
	{
		err: ErrCloneFailed,
		info: ErrorInfo{
			Message: "Could not clone the repository.",
			Action:  "Check the URL, your network connection, and the username/token pair.",
		},
	},
	{
		err: ErrWorkspaceLocked,
		info: ErrorInfo{
			Message: "Another goa process is already using this workspace.",
			Action:  "Stop the other agent or choose a different --target-path.",
		},
	},

	// ===================
	// Cycle
	// ===================
	{
		err: ErrWorkspaceOpen,
		info: ErrorInfo{
			Message: "The workspace repository could not be opened.",
			Action:  "Check that the workspace directory still exists and is readable.",
		},
	},
	{
		err: ErrFetchFailed,
		info: ErrorInfo{
			Message: "Fetching from the remote failed.",
			Action:  "goa will retry on the next interval. Check network access and credentials.",
		},
	},
	{
		err: ErrBranchNotFound,
		info: ErrorInfo{
			Message: "The tracked branch does not exist on the remote.",
			Action:  "Check the --branch value.",
		},
	},
	{
		err: ErrMergeConflict,
		info: ErrorInfo{
			Message: "Remote changes conflict with the local branch.",
			Action:  "Resolve the conflicted files in the workspace manually.",
		},
	},
	{
		err: ErrGitOperation,
		info: ErrorInfo{
			Message: "A git operation failed. Check the workspace state.",
			Action:  "Ensure the workspace is not modified by other tools.",
		},
	},

	// ===================
	// Command
	// ===================
	{
		err: ErrCommandNotStartable,
		info: ErrorInfo{
			Message: "The configured command could not be started.",
			Action:  "Check that the program exists on PATH (or in the repository) and is executable.",
		},
	},
	{
		err: ErrCommandFailed,
		info: ErrorInfo{
			Message: "The command exited with a nonzero status.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is missing.",
		},
	},
	{
		err: ErrValueOutOfRange,
		info: ErrorInfo{
			Message: "A configuration value is out of range.",
			Action:  "Check --delay (1-65535) and --verbosity (0-3).",
		},
	},
	{
		err: ErrEmptyValue,
		info: ErrorInfo{
			Message: "A required configuration value is empty.",
		},
	},
	{
		err: ErrUnsupportedOutputFormat,
		info: ErrorInfo{
			Message: "Unsupported output format.",
			Action:  "Use --output yaml or --output json.",
		},
	},
}

//nolint:gochecknoglobals // Built once from errorInfoEntries
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo tries a direct lookup for bare sentinels, then falls back to
// errors.Is() for wrapped errors.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
