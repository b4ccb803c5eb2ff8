// Package config provides configuration management for goa with layered precedence.
//
// Configuration sources are applied in the following order (highest precedence first):
//  1. CLI flags that were explicitly set
//  2. Environment variables (GOA_* prefix, "." replaced by "_")
//  3. Config file (--config, or ~/.goa/config.yaml when present)
//  4. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import (
	"time"
)

// Config is the root configuration structure for goa.
type Config struct {
	// URL is the remote repository location (https://, ssh://, file://).
	// It normally comes from the positional argument of `goa spy`.
	URL string `yaml:"url" json:"url" mapstructure:"url"`

	// Branch is the branch to track.
	// Default: "main"
	Branch string `yaml:"branch" json:"branch" mapstructure:"branch"`

	// Delay is the polling interval in seconds.
	// Default: 120, Valid range: 1-65535
	Delay int `yaml:"delay" json:"delay" mapstructure:"delay"`

	// Username and Token are embedded in the remote URL for authentication.
	Username string `yaml:"username" json:"username" mapstructure:"username"`
	Token    string `yaml:"token" json:"token" mapstructure:"token"`

	// Command runs after each change is merged. When empty, the first line
	// of MarkerFile in the repository root is used instead.
	Command string `yaml:"command" json:"command" mapstructure:"command"`

	// Verbosity selects the log level: 0 error, 1 info, 2 debug, 3 trace.
	// Default: 1
	Verbosity int `yaml:"verbosity" json:"verbosity" mapstructure:"verbosity"`

	// ExecOnStart runs one cycle immediately instead of waiting a full interval.
	ExecOnStart bool `yaml:"exec_on_start" json:"exec_on_start" mapstructure:"exec_on_start"`

	// ExitOnFirstDiff stops the agent after the first change has been
	// merged and its command run.
	ExitOnFirstDiff bool `yaml:"exit_on_first_diff" json:"exit_on_first_diff" mapstructure:"exit_on_first_diff"`

	// TargetPath overrides the scratch workspace location.
	// Default: "" ($TMPDIR/goa_wd/<uuid>)
	TargetPath string `yaml:"target_path" json:"target_path" mapstructure:"target_path"`

	// Remote is the name given to the cloned remote.
	// Default: "origin"
	Remote string `yaml:"remote" json:"remote" mapstructure:"remote"`

	// MarkerFile is the repository file consulted for the command.
	// Default: ".goa"
	MarkerFile string `yaml:"marker_file" json:"marker_file" mapstructure:"marker_file"`

	// Git contains repository operation settings.
	Git GitConfig `yaml:"git" json:"git" mapstructure:"git"`

	// Log contains log file settings.
	Log LogConfig `yaml:"log" json:"log" mapstructure:"log"`
}

// GitConfig contains settings for repository operations.
type GitConfig struct {
	// AuthorName and AuthorEmail sign merge commits created by the agent.
	AuthorName  string `yaml:"author_name" json:"author_name" mapstructure:"author_name"`
	AuthorEmail string `yaml:"author_email" json:"author_email" mapstructure:"author_email"`

	// Timeout bounds a single clone or fetch.
	// Default: 5 minutes
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// LogConfig contains settings for the rotating log file.
type LogConfig struct {
	// File enables the log file at ~/.goa/logs/goa.log.
	File bool `yaml:"file" json:"file" mapstructure:"file"`

	MaxSizeMB  int `yaml:"max_size_mb" json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int `yaml:"max_backups" json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int `yaml:"max_age_days" json:"max_age_days" mapstructure:"max_age_days"`
}

// Interval returns the polling interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Delay) * time.Second
}

// Redacted returns a copy of c that is safe to print.
func (c *Config) Redacted() Config {
	out := *c
	if out.Token != "" {
		out.Token = "********"
	}
	return out
}
