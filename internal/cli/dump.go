package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beworkflow/be/internal/config"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Show the active context's environment",
		Long: `Show the environment of the active context, grouped into the
variables the project's be.yaml composed, the redirected values, and
the BE_ bookkeeping keys. Only works inside a subshell started by
` + "`be in`" + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireActive(); err != nil {
				return err
			}

			environ := environMap(os.Environ())
			custom, redirected, prefixed := dumpGroups(environ)

			if len(custom) > 0 {
				out.Echo("environment:")
				out.KeyValues(custom)
			}
			if len(redirected) > 0 {
				out.Echo("redirected:")
				out.KeyValues(redirected)
			}
			out.Echo("context:")
			out.KeyValues(prefixed)
			return nil
		},
	}
}

// dumpGroups splits an entered context's environment into the custom
// variables named by BE_ENVIRONMENT, the redirect destinations from
// the project's be.yaml, and the BE_ bookkeeping keys. The redirect
// table is reloaded from the project the context points at; a project
// that went missing since entry just yields an empty redirect group.
func dumpGroups(environ map[string]string) (custom, redirected, prefixed map[string]string) {
	custom = map[string]string{}
	for _, key := range strings.Fields(environ[keyEnvironment]) {
		if value, ok := environ[key]; ok {
			custom[key] = value
		}
	}

	redirected = map[string]string{}
	project, root := environ[keyProject], environ[keyProjectsRoot]
	if project != "" && root != "" {
		settings, err := config.NewLoader(root).Settings(project)
		if err != nil {
			slog.Debug("reloading redirect table", "project", project, "error", err)
		} else {
			for _, dest := range settings.Redirect {
				if value, ok := environ[dest]; ok {
					redirected[dest] = value
				}
			}
		}
	}

	prefixed = map[string]string{}
	for key, value := range environ {
		if strings.HasPrefix(key, "BE_") {
			prefixed[key] = value
		}
	}
	return custom, redirected, prefixed
}
