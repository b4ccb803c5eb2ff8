package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitplummer/goa/internal/errors"
)

func TestValidate_Nil(t *testing.T) {
	require.ErrorIs(t, Validate(nil), errors.ErrConfigNil)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		msg     string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "minimum delay", mutate: func(c *Config) { c.Delay = 1 }},
		{name: "maximum delay", mutate: func(c *Config) { c.Delay = 65535 }},
		{
			name:    "zero delay",
			mutate:  func(c *Config) { c.Delay = 0 },
			wantErr: errors.ErrValueOutOfRange,
			msg:     "delay must be between 1 and 65535",
		},
		{
			name:    "delay too large",
			mutate:  func(c *Config) { c.Delay = 65536 },
			wantErr: errors.ErrValueOutOfRange,
		},
		{
			name:    "negative verbosity",
			mutate:  func(c *Config) { c.Verbosity = -1 },
			wantErr: errors.ErrValueOutOfRange,
		},
		{
			name:    "verbosity too high",
			mutate:  func(c *Config) { c.Verbosity = 4 },
			wantErr: errors.ErrValueOutOfRange,
			msg:     "verbosity",
		},
		{
			name:    "empty branch",
			mutate:  func(c *Config) { c.Branch = "" },
			wantErr: errors.ErrEmptyValue,
			msg:     "branch must not be empty",
		},
		{
			name:    "empty remote",
			mutate:  func(c *Config) { c.Remote = "" },
			wantErr: errors.ErrEmptyValue,
		},
		{
			name:    "empty marker file",
			mutate:  func(c *Config) { c.MarkerFile = "" },
			wantErr: errors.ErrEmptyValue,
		},
		{
			name:    "empty author",
			mutate:  func(c *Config) { c.Git.AuthorName = "" },
			wantErr: errors.ErrEmptyValue,
		},
		{
			name:    "negative git timeout",
			mutate:  func(c *Config) { c.Git.Timeout = -time.Second },
			wantErr: errors.ErrValueOutOfRange,
		},
		{
			name:   "zero git timeout means unbounded",
			mutate: func(c *Config) { c.Git.Timeout = 0 },
		},
		{
			name:   "short git timeout is fine",
			mutate: func(c *Config) { c.Git.Timeout = time.Second },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := Validate(cfg)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
			if tc.msg != "" {
				assert.Contains(t, err.Error(), tc.msg)
			}
		})
	}
}
