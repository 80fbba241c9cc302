package env

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/beworkflow/be/internal/resolve"
)

// Prefix marks the context keys that become replacement fields:
// BE_PROJECT turns into the field "project".
const Prefix = "BE_"

var variablePattern = regexp.MustCompile(`\$\w+`)

// UnresolvedVariableError is returned when a $NAME reference has no
// value in the base environment. A dangling reference almost always
// means a misconfigured project, so composition fails rather than
// launching a subshell with literal "$NAME" text in it.
type UnresolvedVariableError struct {
	Name string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("unavailable environment variable %q", e.Name)
}

// UnresolvedFieldError is returned when a {name} or {N} reference in a
// setting has no value among the context fields and topics.
type UnresolvedFieldError struct {
	Name string
}

func (e *UnresolvedFieldError) Error() string {
	return fmt.Sprintf("unavailable reference %q", e.Name)
}

// Fields derives replacement fields from a context mapping: every key
// carrying Prefix is stripped of it and lowercased, so BE_PROJECT
// becomes the field "project".
func Fields(context map[string]string) map[string]string {
	fields := make(map[string]string)
	for key, value := range context {
		if strings.HasPrefix(key, Prefix) {
			fields[strings.ToLower(key[len(Prefix):])] = value
		}
	}
	return fields
}

// Composer resolves the environment table of a project. The zero
// value uses the platform path-list separator; tests inject the
// separator to cover both conventions.
type Composer struct {
	// ListSeparator joins list values, ":" on unix and ";" on
	// Windows. Empty means the platform default.
	ListSeparator string
}

func (c Composer) separator() string {
	if c.ListSeparator != "" {
		return c.ListSeparator
	}
	return string(os.PathListSeparator)
}

// Compose materializes raw settings into final string values through
// three total passes, in order: list flattening, $NAME expansion
// against baseEnv, and {field}/{N} expansion against the Prefix-derived
// fields of baseEnv merged with the topics. Each pass completes over
// every setting before the next begins, so a later pass always
// observes fully flattened and fully $-expanded values.
func (c Composer) Compose(settings map[string]Value, baseEnv map[string]string, topics []string) (map[string]string, error) {
	flattened := c.flatten(settings)

	expanded, err := c.expandVariables(flattened, baseEnv)
	if err != nil {
		return nil, err
	}

	return c.expandFields(expanded, baseEnv, topics)
}

// flatten joins list values with the path-list separator. On ":"
// platforms a literal ";" written in the project file is normalized to
// ":" so one be.yaml serves both conventions.
func (c Composer) flatten(settings map[string]Value) map[string]string {
	sep := c.separator()
	out := make(map[string]string, len(settings))
	for key, value := range settings {
		joined := strings.Join(value.Strings(), sep)
		if sep == ":" {
			joined = strings.ReplaceAll(joined, ";", ":")
		}
		out[key] = joined
	}
	return out
}

func (c Composer) expandVariables(settings map[string]string, baseEnv map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(settings))
	for key, value := range settings {
		var missing string
		expanded := variablePattern.ReplaceAllStringFunc(value, func(ref string) string {
			name := ref[1:]
			resolved, ok := baseEnv[name]
			if !ok && missing == "" {
				missing = name
			}
			return resolved
		})
		if missing != "" {
			return nil, &UnresolvedVariableError{Name: missing}
		}
		out[key] = expanded
	}
	return out, nil
}

func (c Composer) expandFields(settings map[string]string, baseEnv map[string]string, topics []string) (map[string]string, error) {
	source := Fields(baseEnv)
	for i, topic := range topics {
		// A repeated topic value resolves to its first occurrence
		// index only; later indexes of the same value stay unset.
		first := i
		for j := 0; j < i; j++ {
			if topics[j] == topic {
				first = j
				break
			}
		}
		source[strconv.Itoa(first)] = topic
	}

	out := make(map[string]string, len(settings))
	for key, value := range settings {
		expanded, err := expandPattern(value, source)
		if err != nil {
			return nil, err
		}
		out[key] = expanded
	}
	return out, nil
}

// expandPattern fills {name} and {N} references from source. The
// pattern is walked as a token stream, so positional and named
// references are resolved in one pass without ordering ambiguity.
func expandPattern(pattern string, source map[string]string) (string, error) {
	expanded, err := resolve.Expand(pattern, source)
	if err != nil {
		var unknown *resolve.UnknownFieldError
		if errors.As(err, &unknown) {
			return "", &UnresolvedFieldError{Name: unknown.Field}
		}
		return "", err
	}
	return expanded, nil
}

// Redirect applies a redirect table to a resolved context. A source of
// the positional form "{N}" copies topics[N] into context[dest]; any
// other source copies context[source]. Redirection runs after the
// composition passes so it observes final values. Pairs are applied in
// sorted source order for determinism.
func Redirect(table map[string]string, topics []string, context map[string]string) error {
	sources := make([]string, 0, len(table))
	for source := range table {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		dest := table[source]
		if pos, ok := positionalSource(source); ok {
			if pos >= len(topics) {
				return &resolve.InsufficientTopicsError{Required: pos + 1}
			}
			context[dest] = topics[pos]
			continue
		}
		value, ok := context[source]
		if !ok {
			return fmt.Errorf("redirect source %q not in context", source)
		}
		context[dest] = value
	}
	return nil
}

func positionalSource(source string) (int, bool) {
	if len(source) < 3 || source[0] != '{' || source[len(source)-1] != '}' {
		return 0, false
	}
	n, err := strconv.Atoi(source[1 : len(source)-1])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
