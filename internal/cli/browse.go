package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/beworkflow/be/internal/tui"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [PROJECT]",
		Short: "Browse projects and inventory interactively",
		Long: `Open an interactive picker over the projects and their inventories.
Selecting an item prints the matching ` + "`be in`" + ` invocation. Project
files are watched while browsing, so edits show up immediately.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeTopics,
		RunE: func(cmd *cobra.Command, args []string) error {
			initial := ""
			if len(args) == 1 {
				initial = args[0]
			}
			selection, err := tui.Run(cfg.ProjectsRoot, initial)
			if err != nil {
				return err
			}
			if len(selection) > 0 {
				out.Echo("be in %s", strings.Join(selection, " "))
			}
			return nil
		},
	}
}
