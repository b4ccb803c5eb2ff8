package config

import (
	"github.com/kitplummer/goa/internal/constants"
	"github.com/kitplummer/goa/internal/errors"
)

// Validate checks the configuration for invalid values.
// It returns an error describing the first failure found.
//
// Validation rules:
//   - delay must be between 1 and 65535 seconds
//   - verbosity must be between 0 and 3
//   - branch, remote and marker_file must not be empty
//   - git.author_name must not be empty
//   - git.timeout must not be negative; zero leaves clone and fetch unbounded
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if cfg.Delay < constants.MinDelaySeconds || cfg.Delay > constants.MaxDelaySeconds {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"delay must be between %d and %d seconds, got %d",
			constants.MinDelaySeconds, constants.MaxDelaySeconds, cfg.Delay)
	}

	if cfg.Verbosity < 0 || cfg.Verbosity > constants.MaxVerbosity {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"verbosity must be between 0 and %d, got %d", constants.MaxVerbosity, cfg.Verbosity)
	}

	for _, f := range []struct{ key, value string }{
		{"branch", cfg.Branch},
		{"remote", cfg.Remote},
		{"marker_file", cfg.MarkerFile},
		{"git.author_name", cfg.Git.AuthorName},
	} {
		if f.value == "" {
			return errors.Wrapf(errors.ErrEmptyValue, "%s must not be empty", f.key)
		}
	}

	if cfg.Git.Timeout < 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"git.timeout must not be negative, got %s", cfg.Git.Timeout)
	}

	return nil
}
