package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/stride/internal/config"
)

// RootOptions holds global flags and the resolved configuration shared by
// all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // explicit config file

	// Settings is resolved in PersistentPreRunE. Commands built directly,
	// as in tests, fall back to config.Defaults.
	Settings *config.Config
	Logger   *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the stride CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "stride",
		Short: "stride - capability-tiered traversal kernel",
		Long: `Probe sequence traversal by capability tier.

Fixtures describe sequences (slice, list, forward_list, stream, set) in CUE.
Operations run the generic kernel against them and report the tier used,
the result, and how many steps the traversal took.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default ./stride.yaml if present)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewProbeCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

// resolve loads configuration, applies it beneath explicit flags, and sets
// up logging.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	var loadOpts []config.LoaderOption
	if o.Config != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(o.Config))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	o.Settings = cfg

	if !cmd.Flags().Changed("format") {
		o.Format = cfg.Format
	}
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	o.Logger.Debug("configuration resolved", "db", cfg.DB, "fixtures", cfg.Fixtures, "format", o.Format)
	return nil
}

// settings returns the resolved configuration or the defaults.
func (o *RootOptions) settings() config.Config {
	if o.Settings != nil {
		return *o.Settings
	}
	return config.Defaults()
}

// logger returns the configured logger, or one that discards everything.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// dbPath returns flag when set, else the configured database path.
func (o *RootOptions) dbPath(flag string) string {
	if flag != "" {
		return flag
	}
	return o.settings().DB
}

// fixturesDir returns flag when set, else the configured fixture directory.
func (o *RootOptions) fixturesDir(flag string) string {
	if flag != "" {
		return flag
	}
	return o.settings().Fixtures
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
