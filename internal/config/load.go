package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kitplummer/goa/internal/constants"
	"github.com/kitplummer/goa/internal/errors"
)

// flagKeys maps configuration keys to the command-line flags that set them.
//
//nolint:gochecknoglobals // static lookup table
var flagKeys = map[string]string{
	"branch":             "branch",
	"delay":              "delay",
	"username":           "username",
	"token":              "token",
	"command":            "command",
	"verbosity":          "verbosity",
	"exec_on_start":      "exec-on-start",
	"exit_on_first_diff": "exit-on-first-diff",
	"target_path":        "target-path",
}

// Options controls where Load reads from.
type Options struct {
	// ConfigFile is an explicit config file. A missing explicit file is an
	// error; when empty the default file is read only if it exists.
	ConfigFile string

	// Flags is the flag set whose changed flags override every other source.
	Flags *pflag.FlagSet

	// URL is the positional repository argument, applied when non-empty.
	URL string
}

// newViperInstance creates a Viper instance with goa defaults and GOA_
// environment binding.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func isConfigNotFoundError(err error) bool {
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// Load reads configuration from all sources and validates the result.
func Load(ctx context.Context, opts Options) (*Config, error) {
	v := newViperInstance()

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	if opts.URL != "" {
		v.Set("url", opts.URL)
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("config_file", v.ConfigFileUsed()).
		Str("branch", cfg.Branch).
		Int("delay", cfg.Delay).
		Bool("token_set", cfg.Token != "").
		Msg("configuration loaded")

	return cfg, nil
}

// readConfigFile merges the explicit config file, or the default one when it
// exists.
func readConfigFile(v *viper.Viper, explicit string) error {
	path := explicit
	if path == "" {
		globalPath, err := GlobalConfigPath()
		if err != nil {
			return nil //nolint:nilerr // no home directory means no default config
		}
		if _, statErr := os.Stat(globalPath); statErr != nil {
			return nil
		}
		path = globalPath
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if explicit == "" && (isConfigNotFoundError(err) || os.IsNotExist(err)) {
			return nil
		}
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

// bindFlags binds each known flag present in fs to its configuration key.
// Flags not present in fs are skipped so subcommands can share the loader.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "failed to bind flag --%s", name)
		}
	}
	return nil
}

func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Join(errors.ErrConfigInvalid, err)
	}
	return &cfg, nil
}

// viperDecoderOption lets durations be written as strings ("90s", "5m").
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// setDefaults registers every key so environment variables are picked up
// on Unmarshal. Keys must match the mapstructure tags.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("url", "")
	v.SetDefault("branch", d.Branch)
	v.SetDefault("delay", d.Delay)
	v.SetDefault("username", "")
	v.SetDefault("token", "")
	v.SetDefault("command", "")
	v.SetDefault("verbosity", d.Verbosity)
	v.SetDefault("exec_on_start", false)
	v.SetDefault("exit_on_first_diff", false)
	v.SetDefault("target_path", "")
	v.SetDefault("remote", d.Remote)
	v.SetDefault("marker_file", d.MarkerFile)

	v.SetDefault("git.author_name", d.Git.AuthorName)
	v.SetDefault("git.author_email", d.Git.AuthorEmail)
	v.SetDefault("git.timeout", d.Git.Timeout.String())

	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
}
