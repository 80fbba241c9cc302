package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// WriteAliases writes one small launcher script per alias into a new
// "aliases" directory under dir and returns that directory, meant to
// be prepended to PATH. On Windows the launchers are batch files;
// elsewhere they are executable sh scripts.
func WriteAliases(aliases map[string]string, dir string) (string, error) {
	aliasDir := filepath.Join(dir, "aliases")
	if err := os.MkdirAll(aliasDir, 0o755); err != nil {
		return "", fmt.Errorf("creating alias dir: %w", err)
	}

	for alias, command := range aliases {
		var path, body string
		if runtime.GOOS == "windows" {
			path = filepath.Join(aliasDir, alias+".bat")
			body = "@echo off\r\n" + command + " %*\r\n"
		} else {
			path = filepath.Join(aliasDir, alias)
			body = "#!/bin/sh\n" + command + " \"$@\"\n"
		}
		if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
			return "", fmt.Errorf("writing alias %q: %w", alias, err)
		}
	}
	return filepath.ToSlash(aliasDir), nil
}

// WriteScript writes the user-supplied script lines from be.yaml into
// dir and returns the file's path, exposed to the subshell as
// BE_SCRIPT.
func WriteScript(lines []string, dir string) (string, error) {
	name := "script.sh"
	if runtime.GOOS == "windows" {
		name = "script.bat"
	}
	path := filepath.Join(dir, name)
	body := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		return "", fmt.Errorf("writing script: %w", err)
	}
	return filepath.ToSlash(path), nil
}
