// Package shell detects the calling shell and launches the context
// subshell with a fully composed environment.
package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Parent returns the path of the shell that invoked us: $SHELL on
// unix-likes, %COMSPEC% on Windows, with a per-platform fallback.
func Parent() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	if runtime.GOOS == "windows" {
		if comspec := os.Getenv("COMSPEC"); comspec != "" {
			return comspec
		}
		return "cmd.exe"
	}
	return "/bin/sh"
}

// family normalizes a shell path to its base name for dispatch.
func family(parent string) string {
	return strings.ToLower(strings.TrimSuffix(filepath.Base(parent), ".exe"))
}

// Command builds the argv that starts an interactive subshell in the
// given parent shell. Unknown shells are an error rather than a
// guess; launching the wrong binary with a composed environment is
// harder to diagnose than refusing.
func Command(parent string) ([]string, error) {
	switch family(parent) {
	case "bash", "zsh", "fish", "sh", "dash", "ksh":
		return []string{parent}, nil
	case "cmd":
		return []string{parent, "/K"}, nil
	case "powershell", "pwsh":
		return []string{parent, "-NoExit"}, nil
	default:
		return nil, fmt.Errorf("unsupported shell %q", parent)
	}
}

// OneShot builds the argv that runs a single command in the given
// parent shell and exits with its status.
func OneShot(parent, command string) ([]string, error) {
	switch family(parent) {
	case "bash", "zsh", "fish", "sh", "dash", "ksh":
		return []string{parent, "-c", command}, nil
	case "cmd":
		return []string{parent, "/C", command}, nil
	case "powershell", "pwsh":
		return []string{parent, "-Command", command}, nil
	default:
		return nil, fmt.Errorf("unsupported shell %q", parent)
	}
}

// Flatten turns a context mapping into the KEY=VALUE form expected by
// exec, in sorted key order.
func Flatten(context map[string]string) []string {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	env := make([]string, len(keys))
	for i, key := range keys {
		env[i] = key + "=" + context[key]
	}
	return env
}

// Run starts argv with the given environment and working directory,
// wired to the caller's terminal, and returns the child's exit code.
func Run(ctx context.Context, argv []string, environ map[string]string, dir string) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = Flatten(environ)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("launching %s: %w", argv[0], err)
}
