package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/beworkflow/be/internal/env"
	"github.com/beworkflow/be/internal/resolve"
)

// Project file names.
const (
	SettingsFile  = "be.yaml"
	TemplatesFile = "templates.yaml"
	InventoryFile = "inventory.yaml"
)

// Settings is the decoded be.yaml of a project.
type Settings struct {
	Templates   TemplateSettings     `yaml:"templates"`
	Environment map[string]env.Value `yaml:"environment"`
	Redirect    map[string]string    `yaml:"redirect"`
	Alias       map[string]string    `yaml:"alias"`
	Script      []string             `yaml:"script"`
}

// TemplateSettings configures how topics bind to templates.
type TemplateSettings struct {
	// Key selects the topic that identifies the inventory item, e.g.
	// "{0}". Empty means resolve.DefaultKey.
	Key string `yaml:"key"`
}

// Key returns the configured key selector or the default.
func (s *Settings) Key() string {
	if s == nil || s.Templates.Key == "" {
		return resolve.DefaultKey
	}
	return s.Templates.Key
}

// MissingFileError reports a required project file that could not be
// read. It maps to the project-misconfiguration exit code.
type MissingFileError struct {
	Project string
	File    string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s not defined for project %q", e.File, e.Project)
}

// Loader reads and caches project configuration. The cache lives on
// the loader, so callers own its lifetime; a fresh loader sees fresh
// files.
type Loader struct {
	// Root is the directory projects live in.
	Root string

	cache map[string][]byte
}

// NewLoader returns a loader rooted at the projects directory.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, cache: make(map[string][]byte)}
}

// Templates loads templates.yaml with "{@name}" references expanded.
// The file is required.
func (l *Loader) Templates(project string) (map[string]string, error) {
	data, err := l.read(project, TemplatesFile)
	if err != nil {
		return nil, err
	}
	templates := map[string]string{}
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", TemplatesFile, err)
	}
	return resolve.ResolveReferences(templates)
}

// Inventory loads inventory.yaml. The file is required.
func (l *Loader) Inventory(project string) (map[string][]resolve.Item, error) {
	data, err := l.read(project, InventoryFile)
	if err != nil {
		return nil, err
	}
	inventory := map[string][]resolve.Item{}
	if err := yaml.Unmarshal(data, &inventory); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", InventoryFile, err)
	}
	return inventory, nil
}

// Settings loads be.yaml. The file is optional; a project without one
// gets the zero settings.
func (l *Loader) Settings(project string) (*Settings, error) {
	data, err := l.read(project, SettingsFile)
	if err != nil {
		var missing *MissingFileError
		if errors.As(err, &missing) {
			return &Settings{}, nil
		}
		return nil, err
	}
	settings := &Settings{}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", SettingsFile, err)
	}
	return settings, nil
}

func (l *Loader) read(project, file string) ([]byte, error) {
	key := project + "/" + file
	if data, ok := l.cache[key]; ok {
		return data, nil
	}
	data, err := os.ReadFile(filepath.Join(l.Root, project, file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingFileError{Project: project, File: file}
		}
		return nil, err
	}
	if l.cache == nil {
		l.cache = make(map[string][]byte)
	}
	l.cache[key] = data
	return data, nil
}
