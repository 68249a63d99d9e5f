// Package cli implements the fsrs command-line tool, which replays rating
// sequences through the scheduler and prints the parameters it would use.
package cli

import (
	"fmt"
	"slices"

	"github.com/phrazzld/scry-fsrs/internal/config"
	"github.com/phrazzld/scry-fsrs/internal/domain/fsrs"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the fsrs CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fsrs",
		Short: "fsrs - inspect the review scheduler",
		Long: `Replay review sequences through the FSRS scheduler and inspect its parameters.

Parameters come from the same configuration as the server: an optional
config.yaml, SCRY_SCHEDULER_* environment variables, or --config.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file with a scheduler section")

	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewParamsCommand(opts))

	return cmd
}

// loadParams resolves scheduler parameters the way the server does.
func loadParams(opts *RootOptions) (*fsrs.Params, error) {
	cfg, err := config.LoadScheduler(opts.ConfigFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load scheduler config", err)
	}

	params, err := cfg.Params()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid scheduler parameters", err)
	}
	return params, nil
}
