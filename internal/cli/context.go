package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beworkflow/be/internal/config"
	"github.com/beworkflow/be/internal/env"
	"github.com/beworkflow/be/internal/project"
	"github.com/beworkflow/be/internal/resolve"
)

// Context keys set on every entered context. The BE_ prefix doubles as
// the replacement-field namespace: BE_PROJECT is the field "project".
const (
	keyActive       = "BE_ACTIVE"
	keyProject      = "BE_PROJECT"
	keyTopics       = "BE_TOPICS"
	keyUser         = "BE_USER"
	keyItem         = "BE_ITEM"
	keyBinding      = "BE_BINDING"
	keyDevDir       = "BE_DEVELOPMENTDIR"
	keyProjectRoot  = "BE_PROJECTROOT"
	keyProjectsRoot = "BE_PROJECTSROOT"
	keyEnter        = "BE_ENTER"
	keyTempDir      = "BE_TEMPDIR"
	keyAliasDir     = "BE_ALIASDIR"
	keyEnvironment  = "BE_ENVIRONMENT"
	keyShell        = "BE_SHELL"
	keyScript       = "BE_SCRIPT"
	keyCwd          = "BE_CWD"
)

// Context is a fully resolved entry context, ready to launch.
type Context struct {
	Project string
	Topics  []string
	DevDir  string // absolute
	Values  map[string]string

	Warnings []resolve.DuplicateWarning
}

// resolveContext binds topics against a project's templates and
// inventory and composes the final environment. It performs every
// resolution step except filesystem side effects (alias scripts, the
// development directory itself), which the caller owns.
func resolveContext(loader *config.Loader, topics []string, user string) (*Context, error) {
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

	index, warnings := resolve.InvertInventory(inventory)

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
	slog.Debug("bound topics", "item", item, "binding", binding, "template", template)

	projectRoot := project.Dir(loader.Root, name)
	values := map[string]string{
		keyActive:       name,
		keyProject:      name,
		keyTopics:       strings.Join(topics, " "),
		keyUser:         user,
		keyItem:         item,
		keyBinding:      binding,
		keyProjectRoot:  filepath.ToSlash(projectRoot),
		keyProjectsRoot: filepath.ToSlash(loader.Root),
		// The subshell always starts in the development directory.
		keyEnter: "1",
		keyShell: os.Getenv("SHELL"),
		keyCwd:   filepath.ToSlash(loader.Root),
	}

	devDir, err := resolve.FormatPath(template, topics, env.Fields(values))
	if err != nil {
		return nil, err
	}
	absDev := devDir
	if !filepath.IsAbs(devDir) {
		absDev = filepath.Join(projectRoot, filepath.FromSlash(devDir))
	}
	values[keyDevDir] = filepath.ToSlash(absDev)

	base := environMap(os.Environ())
	for key, value := range values {
		base[key] = value
	}
	composed, err := env.Composer{}.Compose(settings.Environment, base, topics)
	if err != nil {
		return nil, err
	}
	custom := make([]string, 0, len(composed))
	for key, value := range composed {
		values[key] = value
		custom = append(custom, key)
	}
	sort.Strings(custom)
	values[keyEnvironment] = strings.Join(custom, " ")

	if err := env.Redirect(settings.Redirect, topics, values); err != nil {
		return nil, err
	}

	return &Context{
		Project:  name,
		Topics:   topics,
		DevDir:   absDev,
		Values:   values,
		Warnings: warnings,
	}, nil
}

// Environ merges the process environment with the context values, the
// context winning on collisions, in KEY=VALUE form.
func (c *Context) Environ() map[string]string {
	merged := environMap(os.Environ())
	for key, value := range c.Values {
		merged[key] = value
	}
	return merged
}

func environMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, entry := range environ {
		if i := strings.IndexByte(entry, '='); i > 0 {
			out[entry[:i]] = entry[i+1:]
		}
	}
	return out
}

// active reports whether the calling process already sits inside an
// entered context. Nested contexts would stack BE_ values from
// different projects, so entering refuses instead.
func active() (string, bool) {
	name := os.Getenv(keyActive)
	return name, name != ""
}

func currentUser() string {
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if user := os.Getenv(key); user != "" {
			return user
		}
	}
	return "unknown"
}

func requireActive() error {
	if _, ok := active(); !ok {
		return userErrorf("no active context; run `be in PROJECT TOPICS...` first")
	}
	return nil
}
