package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kitplummer/goa/internal/config"
	"github.com/kitplummer/goa/internal/ctxutil"
	"github.com/kitplummer/goa/internal/errors"
)

// ConfigShowFlags holds flags specific to the config show command.
type ConfigShowFlags struct {
	// OutputFormat specifies the output format (yaml or json).
	OutputFormat string
}

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, globals *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect goa configuration",
	}
	cmd.AddCommand(newConfigShowCmd(globals, &ConfigShowFlags{}))
	root.AddCommand(cmd)
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd(globals *GlobalFlags, flags *ConfigShowFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective goa configuration after defaults, the config file
(--config or ~/.goa/config.yaml) and GOA_* environment variables are applied.

The token is masked in the output.

Examples:
  goa config show
  goa config show --output json
  GOA_BRANCH=deploy goa config show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), globals.ConfigFile, flags)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", OutputYAML, "output format (yaml or json)")

	return cmd
}

// runConfigShow executes the config show command.
func runConfigShow(ctx context.Context, w io.Writer, configFile string, flags *ConfigShowFlags) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	format := strings.ToLower(flags.OutputFormat)
	if format != OutputYAML && format != OutputJSON {
		return fmt.Errorf("%w: %s (use %s)", errors.ErrUnsupportedOutputFormat,
			flags.OutputFormat, strings.Join(ValidOutputFormats(), " or "))
	}

	cfg, err := config.Load(ctx, config.Options{ConfigFile: configFile})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	shown := cfg.Redacted()

	if format == OutputJSON {
		return outputJSON(w, &shown)
	}
	return outputYAML(w, &shown)
}

func outputJSON(w io.Writer, cfg *config.Config) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

func outputYAML(w io.Writer, cfg *config.Config) error {
	if _, err := fmt.Fprintln(w, "# Effective goa configuration"); err != nil {
		return err
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return err
	}
	return encoder.Close()
}
