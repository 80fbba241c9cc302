package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/beworkflow/be/internal/project"
	"github.com/beworkflow/be/internal/shell"
)

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir [DIR]",
		Short: "Create the development directory of the active context",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := os.Getenv(keyDevDir)
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return userErrorf("no directory to create; pass one or enter a context first")
			}
			if err := os.MkdirAll(filepath.FromSlash(dir), 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
			out.Echo("created %s", dir)
			return nil
		},
	}
}

func newWhatCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "what",
		Aliases: []string{"?"},
		Short:   "Show the topics of the active context",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireActive(); err != nil {
				return err
			}
			out.Echo("%s", os.Getenv(keyTopics))
			return nil
		},
	}
}

func newActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate [PROJECT]",
		Short: "Start a subshell with be bookkeeping but no bound context",
		Long: `Start a subshell where be completion and project tooling are active
without binding an item. With a project argument the subshell starts
in the project's directory.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeTopics,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name, ok := active(); ok {
				return userErrorf("already inside the %q context; exit the subshell first", name)
			}

			dir := cfg.ProjectsRoot
			name := "be"
			if len(args) == 1 {
				name = args[0]
				if !project.Exists(cfg.ProjectsRoot, name) {
					return userErrorf("project %q not found in %s", name, cfg.ProjectsRoot)
				}
				dir = project.Dir(cfg.ProjectsRoot, name)
			}

			parent := shell.Parent()
			argv, err := shell.Command(parent)
			if err != nil {
				return err
			}

			environ := environMap(os.Environ())
			environ[keyActive] = name
			environ[keyProjectsRoot] = filepath.ToSlash(cfg.ProjectsRoot)
			environ[keyShell] = parent
			if len(args) == 1 {
				environ[keyProject] = name
				environ[keyProjectRoot] = filepath.ToSlash(dir)
			}

			out.Echo("activating %s", name)
			code, err := shell.Run(cmd.Context(), argv, environ, dir)
			if err != nil {
				return err
			}
			if code != 0 {
				return &childExitError{code: code}
			}
			return nil
		},
	}
}
