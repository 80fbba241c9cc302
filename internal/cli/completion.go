package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beworkflow/be/internal/config"
	"github.com/beworkflow/be/internal/project"
	"github.com/beworkflow/be/internal/resolve"
)

// completeTopics completes the positional topic chain: first the
// project name, then inventory items, then the directory level the
// partial template resolution points at. Errors silently produce no
// completions; a broken project must not break the user's shell.
func completeTopics(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if cfg == nil {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cfg = loaded
	}

	if len(args) == 0 {
		return filterByPrefix(project.List(cfg.ProjectsRoot), toComplete), cobra.ShellCompDirectiveNoFileComp
	}

	loader := config.NewLoader(cfg.ProjectsRoot)

	if len(args) == 1 {
		inventory, err := loader.Inventory(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		index, _ := resolve.InvertInventory(inventory)
		items := make([]string, 0, len(index))
		for item := range index {
			items = append(items, item)
		}
		sort.Strings(items)
		return filterByPrefix(items, toComplete), cobra.ShellCompDirectiveNoFileComp
	}

	entries, err := partialListing(loader, args)
	if err != nil || entries == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return filterByPrefix(entries, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func filterByPrefix(candidates []string, prefix string) []string {
	if prefix == "" {
		return candidates
	}
	var out []string
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, prefix) {
			out = append(out, candidate)
		}
	}
	return out
}
