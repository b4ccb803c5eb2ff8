package constants

// Log file names.
const (
	// CLILogFileName is the name of the agent log file.
	// This file is located in ~/.goa/logs/goa.log
	CLILogFileName = "goa.log"
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the goa configuration file in GoaHome.
	GlobalConfigName = "config.yaml"

	// EnvPrefix is the environment variable prefix for configuration keys.
	EnvPrefix = "GOA"

	// HomeEnvVar overrides the location of GoaHome.
	HomeEnvVar = "GOA_HOME"
)

// Log rotation defaults.
const (
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28

	// LogCompress gzips rotated log files.
	LogCompress = true
)
