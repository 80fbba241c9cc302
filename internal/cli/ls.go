package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/beworkflow/be/internal/config"
	"github.com/beworkflow/be/internal/env"
	"github.com/beworkflow/be/internal/project"
	"github.com/beworkflow/be/internal/resolve"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [TOPICS...]",
		Short: "List projects, a project's inventory, or the next directory level",
		Long: `Without arguments, list the projects under the projects root. With a
project name, list its inventory items and their bindings. With more
topics, resolve the directory level below them and list its contents.`,
		ValidArgsFunction: completeTopics,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader(cfg.ProjectsRoot)

			switch len(args) {
			case 0:
				out.List(project.List(cfg.ProjectsRoot))
				return nil
			case 1:
				name := args[0]
				if !project.Exists(cfg.ProjectsRoot, name) {
					return userErrorf("project %q not found in %s", name, cfg.ProjectsRoot)
				}
				inventory, err := loader.Inventory(name)
				if err != nil {
					return err
				}
				index, warnings := resolve.InvertInventory(inventory)
				for _, warning := range warnings {
					out.Warning("%s", warning)
				}
				out.Columns(index)
				return nil
			default:
				entries, err := partialListing(loader, args)
				if err != nil {
					return err
				}
				if entries == nil {
					return userErrorf("nothing left to list below %v", args)
				}
				out.List(entries)
				return nil
			}
		},
	}
}

// partialListing resolves the directory level below the supplied
// topics and returns its entries. A nil slice with a nil error means
// the topic chain is already complete.
func partialListing(loader *config.Loader, topics []string) ([]string, error) {
	name := topics[0]
	if !project.Exists(loader.Root, name) {
		return nil, userErrorf("project %q not found in %s", name, loader.Root)
	}

	settings, err := loader.Settings(name)
	if err != nil {
		return nil, err
	}
	templates, err := loader.Templates(name)
	if err != nil {
		return nil, err
	}
	inventory, err := loader.Inventory(name)
	if err != nil {
		return nil, err
	}
	index, _ := resolve.InvertInventory(inventory)

	item, err := resolve.ItemFromTopics(settings.Key(), topics)
	if err != nil {
		return nil, err
	}
	binding, err := index.Binding(item)
	if err != nil {
		return nil, err
	}
	template, ok := templates[binding]
	if !ok {
		return nil, &resolve.UnknownTemplateError{Name: binding}
	}

	partial, ok := resolve.PartialPattern(template, topics)
	if !ok {
		return nil, nil
	}

	projectRoot := project.Dir(loader.Root, name)
	fields := env.Fields(map[string]string{
		keyProject:      name,
		keyUser:         currentUser(),
		keyItem:         item,
		keyBinding:      binding,
		keyProjectRoot:  filepath.ToSlash(projectRoot),
		keyProjectsRoot: filepath.ToSlash(loader.Root),
		keyCwd:          filepath.ToSlash(loader.Root),
	})
	dir, err := resolve.FormatPath(partial, topics, fields)
	if err != nil {
		return nil, err
	}
	abs := filepath.FromSlash(dir)
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(projectRoot, abs)
	}

	listing, err := os.ReadDir(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(listing))
	for _, entry := range listing {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
