package cli

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/beworkflow/be/internal/preset"
	"github.com/beworkflow/be/internal/project"
)

func newNewCmd() *cobra.Command {
	var (
		name   string
		update bool
		silent bool
	)

	cmd := &cobra.Command{
		Use:   "new PRESET",
		Short: "Create a project from a preset",
		Long: `Create a project from a preset. Presets are looked up in the local
presets directory first; missing ones are fetched from the preset hub.
Without --name the project gets a random adjective-noun name.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePresets,
		RunE: func(cmd *cobra.Command, args []string) error {
			presetName := args[0]
			presetDir := filepath.Join(cfg.PresetsDir, presetName)

			if update || !dirExists(presetDir) {
				if err := fetchPreset(cmd, presetName, presetDir); err != nil {
					return err
				}
			}

			if name == "" {
				name = randomName()
			}
			if project.Exists(cfg.ProjectsRoot, name) {
				return userErrorf("project %q already exists", name)
			}
			dest := project.Dir(cfg.ProjectsRoot, name)
			if err := preset.Copy(presetDir, dest); err != nil {
				return err
			}

			if !silent {
				out.Echo("created project %q from preset %q", name, presetName)
				out.Hint("enter it with `be in %s ...`", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "project name (default: a random one)")
	cmd.Flags().BoolVarP(&update, "update", "u", false, "refresh the preset from the hub first")
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, "suppress output")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var clean bool

	cmd := &cobra.Command{
		Use:               "update PRESET",
		Short:             "Refresh a local preset from the preset hub",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePresets,
		RunE: func(cmd *cobra.Command, args []string) error {
			presetName := args[0]
			if clean {
				if err := preset.Remove(cfg.PresetsDir, presetName); err != nil {
					return err
				}
			}
			presetDir := filepath.Join(cfg.PresetsDir, presetName)
			if err := fetchPreset(cmd, presetName, presetDir); err != nil {
				return err
			}
			out.Echo("updated preset %q", presetName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "remove the local copy before fetching")
	return cmd
}

func fetchPreset(cmd *cobra.Command, name, dest string) error {
	client := preset.NewClient(cfg.IndexURL, cfg.GithubToken)
	index, err := client.Index(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching preset index: %w", err)
	}
	repository, ok := index[name]
	if !ok {
		return userErrorf("preset %q not in the index (%d presets known)", name, len(index))
	}
	return client.Pull(cmd.Context(), repository, dest)
}

func completePresets(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || cfg == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return filterByPrefix(preset.Local(cfg.PresetsDir), toComplete), cobra.ShellCompDirectiveNoFileComp
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

var (
	nameAdjectives = []string{
		"amber", "brisk", "calm", "daring", "eager", "fuzzy", "gentle",
		"hasty", "ivory", "jolly", "keen", "lively", "mellow", "nimble",
		"quiet", "rustic", "sunny", "tidy", "vivid", "witty",
	}
	nameNouns = []string{
		"badger", "comet", "dune", "ember", "falcon", "grove", "harbor",
		"lagoon", "meadow", "otter", "pebble", "quarry", "ridge",
		"sparrow", "thicket", "willow",
	}
)

// randomName builds an adjective-noun project name, used when `be new`
// is not given one.
func randomName() string {
	adjective := nameAdjectives[rand.IntN(len(nameAdjectives))]
	noun := nameNouns[rand.IntN(len(nameNouns))]
	return adjective + "-" + noun
}
