package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kitplummer/goa/internal/constants"
	"github.com/kitplummer/goa/internal/errors"
)

// HomeDir returns the goa home directory. GOA_HOME takes precedence over
// ~/.goa.
func HomeDir() (string, error) {
	if dir := os.Getenv(constants.HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.GoaHome), nil
}

// GlobalConfigPath returns the full path to the default configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// LogFilePath returns the full path of the agent log file.
func LogFilePath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir, constants.CLILogFileName), nil
}
