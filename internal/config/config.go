// Package config loads the tool-level configuration and the per
// project yaml files (templates, inventory, settings).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultIndexURL is the preset hub queried by `be new` and
// `be update` when the user has not pointed at their own index.
const DefaultIndexURL = "https://be-presets.now.sh/presets.json"

// Config is the user-level tool configuration, read from
// ~/.config/be/config.toml. Project behavior lives in the project's
// own yaml files, not here.
type Config struct {
	ProjectsRoot string `toml:"projects_root"` // where projects live; default is the working directory
	PresetsDir   string `toml:"presets_dir"`   // local preset cache
	IndexURL     string `toml:"preset_index_url"`
	GithubToken  string `toml:"github_api_token"`
	NoColor      bool   `toml:"no_color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		ProjectsRoot: filepath.ToSlash(cwd),
		PresetsDir:   filepath.Join(configDir(), "presets"),
		IndexURL:     DefaultIndexURL,
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.toml")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".be")
	}
	return filepath.Join(home, ".config", "be")
}

// Load reads the configuration at path (DefaultPath when empty) over
// the defaults, then applies environment overrides. A missing file is
// not an error; a malformed one is.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Env > TOML > Default
	if root := os.Getenv("BE_CWD"); root != "" {
		cfg.ProjectsRoot = filepath.ToSlash(root)
	}
	if dir := os.Getenv("BE_PRESETSDIR"); dir != "" {
		cfg.PresetsDir = dir
	}
	if token := os.Getenv("BE_GITHUB_API_TOKEN"); token != "" {
		cfg.GithubToken = token
	}

	return cfg, nil
}
