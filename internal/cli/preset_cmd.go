package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beworkflow/be/internal/preset"
)

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Inspect local and hub presets",
	}
	cmd.AddCommand(newPresetLsCmd(), newPresetFindCmd())
	return cmd
}

func newPresetLsCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List presets, local by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote {
				client := preset.NewClient(cfg.IndexURL, cfg.GithubToken)
				index, err := client.Index(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetching preset index: %w", err)
				}
				out.Columns(index)
				return nil
			}

			local := preset.Local(cfg.PresetsDir)
			if len(local) == 0 {
				out.Echo("no local presets")
				out.Hint("fetch one with `be new PRESET` or browse the hub with `be preset ls --remote`")
				return nil
			}
			out.List(local)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "list the hub's presets instead")
	return cmd
}

func newPresetFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "find PRESET",
		Short:             "Look up a preset's repository on the hub",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePresets,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := preset.NewClient(cfg.IndexURL, cfg.GithubToken)
			index, err := client.Index(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching preset index: %w", err)
			}
			repository, ok := index[args[0]]
			if !ok {
				return userErrorf("preset %q not in the index (%d presets known)", args[0], len(index))
			}
			out.Echo("%s", repository)
			return nil
		},
	}
}
