// Package cli wires the command surface: flag parsing, configuration
// loading, error presentation and exit-code mapping.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/beworkflow/be/internal/config"
	"github.com/beworkflow/be/internal/env"
	"github.com/beworkflow/be/internal/output"
	"github.com/beworkflow/be/internal/resolve"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg *config.Config
	out *output.Formatter

	// Build information - set via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Exit codes. Anything unclassified is a program fault.
const (
	exitOK       = 0
	exitFault    = 1
	exitUser     = 2
	exitProject  = 3
	exitTemplate = 4
)

var rootCmd = &cobra.Command{
	Use:   "be",
	Short: "be - enter project contexts with resolved directories and environments",
	Long: `be manages project contexts. A context is described by positional
topics (project, item, task, ...); be resolves a development directory
from the project's templates and composes its environment, then drops
you into a subshell inside that context.

Quick start:
  be ls                      # list projects
  be ls myfilm               # list the project's inventory
  be in myfilm hero model    # enter a context
  be dump                    # show the active context (inside a subshell)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		out = output.New(os.Stdout, noColor || cfg.NoColor)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/be/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)

	rootCmd.AddCommand(
		newInCmd(),
		newLsCmd(),
		newNewCmd(),
		newUpdateCmd(),
		newPresetCmd(),
		newDumpCmd(),
		newMkdirCmd(),
		newWhatCmd(),
		newActivateCmd(),
		newBrowseCmd(),
	)
}

// childExitError carries a subshell's exit code up through cobra so
// Execute can propagate it as our own.
type childExitError struct {
	code int
}

func (e *childExitError) Error() string {
	return fmt.Sprintf("subshell exited with status %d", e.code)
}

// usageError marks a fault in what the user asked for, as opposed to a
// fault in project configuration or in the tool itself.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func userErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}

	var child *childExitError
	if errors.As(err, &child) {
		return child.code
	}

	errOut := output.New(os.Stderr, noColor)
	errOut.Error("%v", err)

	var unknownItem *resolve.UnknownItemError
	if errors.As(err, &unknownItem) && len(unknownItem.Bindings) > 0 {
		errOut.Hint("Available:")
		errOut.List(unknownItem.Suggestions())
	}
	var unknownField *resolve.UnknownFieldError
	if errors.As(err, &unknownField) && len(unknownField.Available) > 0 {
		errOut.Hint("Available: %v", unknownField.Available)
	}

	return classify(err)
}

// classify maps an error to the exit-code contract: 2 for user
// mistakes, 3 for project misconfiguration, 4 for template faults,
// 1 for everything else.
func classify(err error) int {
	var (
		usage        *usageError
		unknownItem  *resolve.UnknownItemError
		insufficient *resolve.InsufficientTopicsError

		missingFile *config.MissingFileError
		keySelector *resolve.KeySelectorError
		variable    *env.UnresolvedVariableError
		field       *env.UnresolvedFieldError

		reference       *resolve.UnresolvedReferenceError
		unknownTemplate *resolve.UnknownTemplateError
		unknownField    *resolve.UnknownFieldError
	)
	switch {
	case errors.As(err, &usage),
		errors.As(err, &unknownItem),
		errors.As(err, &insufficient):
		return exitUser
	case errors.As(err, &missingFile),
		errors.As(err, &keySelector),
		errors.As(err, &variable),
		errors.As(err, &field):
		return exitProject
	case errors.As(err, &reference),
		errors.As(err, &unknownTemplate),
		errors.As(err, &unknownField):
		return exitTemplate
	default:
		return exitFault
	}
}
