package config

import (
	"github.com/kitplummer/goa/internal/constants"
)

// DefaultConfig returns a new Config with default values.
// These match the defaults registered on the Viper instance.
func DefaultConfig() *Config {
	return &Config{
		Branch:     constants.DefaultBranch,
		Delay:      constants.DefaultDelaySeconds,
		Verbosity:  constants.DefaultVerbosity,
		Remote:     constants.DefaultRemote,
		MarkerFile: constants.DefaultMarkerFile,
		Git: GitConfig{
			AuthorName:  constants.DefaultAuthorName,
			AuthorEmail: constants.DefaultAuthorEmail,
			Timeout:     constants.DefaultGitTimeout,
		},
		Log: LogConfig{
			File:       true,
			MaxSizeMB:  constants.DefaultLogMaxSizeMB,
			MaxBackups: constants.DefaultLogMaxBackups,
			MaxAgeDays: constants.DefaultLogMaxAgeDays,
		},
	}
}
