package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitplummer/goa/internal/errors"
)

// isolate points GOA_HOME at an empty directory and clears the GOA_*
// variables the tests rely on.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("GOA_HOME", home)
	for _, key := range []string{
		"GOA_BRANCH", "GOA_DELAY", "GOA_TOKEN", "GOA_USERNAME", "GOA_COMMAND",
		"GOA_VERBOSITY", "GOA_GIT_TIMEOUT", "GOA_EXEC_ON_START",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// spyFlags mirrors the flag names registered by the spy command.
func spyFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("spy", pflag.ContinueOnError)
	fs.StringP("branch", "b", "main", "")
	fs.IntP("delay", "d", 120, "")
	fs.StringP("username", "u", "", "")
	fs.StringP("token", "t", "", "")
	fs.StringP("command", "c", "", "")
	fs.IntP("verbosity", "v", 1, "")
	fs.BoolP("exec-on-start", "e", false, "")
	fs.BoolP("exit-on-first-diff", "x", false, "")
	fs.StringP("target-path", "T", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.Branch)
	assert.Equal(t, 120, cfg.Delay)
	assert.Equal(t, 5*time.Minute, cfg.Git.Timeout)
	assert.Equal(t, "goa", cfg.Git.AuthorName)
}

func TestLoad_DefaultConfigFile(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), `
branch: develop
delay: 30
command: make deploy
git:
  timeout: 90s
log:
  file: false
`)

	cfg, err := Load(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, "develop", cfg.Branch)
	assert.Equal(t, 30, cfg.Delay)
	assert.Equal(t, "make deploy", cfg.Command)
	assert.Equal(t, 90*time.Second, cfg.Git.Timeout)
	assert.False(t, cfg.Log.File)
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	isolate(t)

	_, err := Load(context.Background(), Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_Precedence(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "branch: from-file\ndelay: 30\nverbosity: 2\n")
	t.Setenv("GOA_BRANCH", "from-env")
	t.Setenv("GOA_DELAY", "45")

	fs := spyFlags()
	require.NoError(t, fs.Parse([]string{"--delay", "5"}))

	cfg, err := Load(context.Background(), Options{Flags: fs, URL: "https://example.com/r.git"})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Delay, "changed flag beats env")
	assert.Equal(t, "from-env", cfg.Branch, "env beats file")
	assert.Equal(t, 2, cfg.Verbosity, "file beats default, unchanged flag does not apply")
	assert.Equal(t, "https://example.com/r.git", cfg.URL)
}

func TestLoad_FlagShorthands(t *testing.T) {
	isolate(t)

	fs := spyFlags()
	require.NoError(t, fs.Parse([]string{"-b", "prod", "-u", "bot", "-t", "tok", "-c", "echo hi", "-e", "-x", "-T", "/srv/wd"}))

	cfg, err := Load(context.Background(), Options{Flags: fs})
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Branch)
	assert.Equal(t, "bot", cfg.Username)
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, "echo hi", cfg.Command)
	assert.True(t, cfg.ExecOnStart)
	assert.True(t, cfg.ExitOnFirstDiff)
	assert.Equal(t, "/srv/wd", cfg.TargetPath)
}

func TestLoad_InvalidDelay(t *testing.T) {
	isolate(t)

	fs := spyFlags()
	require.NoError(t, fs.Parse([]string{"-d", "0"}))

	_, err := Load(context.Background(), Options{Flags: fs})
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrValueOutOfRange)
}

func TestLoad_EnvDuration(t *testing.T) {
	isolate(t)
	t.Setenv("GOA_GIT_TIMEOUT", "45s")

	cfg, err := Load(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Git.Timeout)
}

func TestLoad_ZeroGitTimeoutDisablesBound(t *testing.T) {
	isolate(t)
	t.Setenv("GOA_GIT_TIMEOUT", "0")

	cfg, err := Load(context.Background(), Options{})
	require.NoError(t, err)
	assert.Zero(t, cfg.Git.Timeout)
}
