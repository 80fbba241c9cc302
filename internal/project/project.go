// Package project discovers be projects on disk.
package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// markers are the files whose presence makes a directory a project.
var markers = []string{"templates.yaml", "inventory.yaml"}

// Dir returns the absolute path of a project, forward-slashed.
func Dir(root, name string) string {
	return filepath.ToSlash(filepath.Join(root, name))
}

// Exists reports whether a project directory is present under root.
func Exists(root, name string) bool {
	info, err := os.Stat(filepath.Join(root, name))
	return err == nil && info.IsDir()
}

// IsProject reports whether path is a be project: a directory whose
// name is not dot- or underscore-prefixed and which carries at least
// one of the project marker files.
func IsProject(path string) bool {
	base := filepath.Base(path)
	if base == "" || strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(path, marker)); err == nil {
			return true
		}
	}
	return false
}

// List returns the sorted names of the projects under root. A missing
// root yields an empty list, not an error; the caller is browsing.
func List(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var projects []string
	for _, entry := range entries {
		if IsProject(filepath.Join(root, entry.Name())) {
			projects = append(projects, entry.Name())
		}
	}
	sort.Strings(projects)
	return projects
}
