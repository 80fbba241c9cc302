package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beworkflow/be/internal/config"
	"github.com/beworkflow/be/internal/shell"
)

func newInCmd() *cobra.Command {
	var (
		asUser string
		yes    bool
		enter  string
	)

	cmd := &cobra.Command{
		Use:   "in PROJECT TOPICS...",
		Short: "Enter a context: resolve its directory and environment, start a subshell",
		Long: `Resolve the context named by the topics and start a subshell in its
development directory with the composed environment. The first topic
names the project; the project's template key decides which topic
identifies the inventory item.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeTopics,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name, ok := active(); ok {
				return userErrorf("already inside the %q context; exit the subshell first", name)
			}

			user := asUser
			if user == "" {
				user = currentUser()
			}

			loader := config.NewLoader(cfg.ProjectsRoot)
			ctx, err := resolveContext(loader, args, user)
			if err != nil {
				return err
			}
			for _, warning := range ctx.Warnings {
				out.Warning("%s", warning)
			}

			if _, err := os.Stat(ctx.DevDir); os.IsNotExist(err) {
				if !yes && !out.Prompt(cmd.InOrStdin(), fmt.Sprintf("%s does not exist, create it?", ctx.DevDir)) {
					return userErrorf("refused to enter a missing directory")
				}
				if err := os.MkdirAll(ctx.DevDir, 0o755); err != nil {
					return fmt.Errorf("creating development directory: %w", err)
				}
			}

			settings, err := loader.Settings(ctx.Project)
			if err != nil {
				return err
			}

			tempDir, err := os.MkdirTemp("", "be-")
			if err != nil {
				return fmt.Errorf("creating context temp dir: %w", err)
			}
			defer os.RemoveAll(tempDir)
			ctx.Values[keyTempDir] = filepath.ToSlash(tempDir)

			environ := ctx.Environ()
			if len(settings.Alias) > 0 {
				aliasDir, err := shell.WriteAliases(settings.Alias, tempDir)
				if err != nil {
					return err
				}
				ctx.Values[keyAliasDir] = filepath.ToSlash(aliasDir)
				environ[keyAliasDir] = ctx.Values[keyAliasDir]
				environ["PATH"] = aliasDir + string(os.PathListSeparator) + environ["PATH"]
			}
			if len(settings.Script) > 0 {
				script, err := shell.WriteScript(settings.Script, tempDir)
				if err != nil {
					return err
				}
				ctx.Values[keyScript] = filepath.ToSlash(script)
				environ[keyScript] = ctx.Values[keyScript]
			}
			environ[keyTempDir] = ctx.Values[keyTempDir]

			parent := shell.Parent()
			var argv []string
			if enter != "" {
				// One-shot mode: run the command in the context and
				// return its status instead of going interactive.
				argv, err = shell.OneShot(parent, enter)
			} else {
				argv, err = shell.Command(parent)
			}
			if err != nil {
				return err
			}
			environ[keyShell] = parent

			out.Echo("entering %s", strings.Join(ctx.Topics, " "))
			code, err := shell.Run(cmd.Context(), argv, environ, ctx.DevDir)
			if err != nil {
				return err
			}
			if enter == "" {
				out.Echo("left %s", ctx.Project)
			}
			if code != 0 {
				return &childExitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&asUser, "as", "", "enter as this user instead of $USER")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "create the development directory without asking")
	cmd.Flags().StringVar(&enter, "enter", "", "run this command in the context instead of an interactive shell")
	return cmd
}
