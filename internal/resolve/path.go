package resolve

import (
	"sort"
	"strings"
)

// FormatPath fills a pattern with positional topics and named fields
// and returns the result with path separators normalized to forward
// slashes. Topic sufficiency is validated before any substitution
// happens, so a short topic list is always reported as the number of
// topics required. A named placeholder with no matching field fails
// with *UnknownFieldError listing every field in scope.
func FormatPath(pattern string, topics []string, fields map[string]string) (string, error) {
	if err := CheckTopics(pattern, topics); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, tok := range tokenize(pattern) {
		switch tok.kind {
		case tokenPositional:
			b.WriteString(topics[tok.index])
		case tokenField:
			value, ok := fields[tok.text]
			if !ok {
				return "", &UnknownFieldError{Field: tok.text, Available: fieldNames(fields)}
			}
			b.WriteString(value)
		default:
			b.WriteString(rawToken(tok))
		}
	}
	return strings.ReplaceAll(b.String(), "\\", "/"), nil
}

// PartialPattern truncates pattern for listing the next level below
// the supplied topics, used by tab-completion and `be ls`.
//
// The pattern is cut just after the placeholder for the last supplied
// topic index. If positional placeholders remain beyond the cut, the
// fixed literal text up to (not including) the next placeholder is
// kept as well, minus any trailing path separator:
//
//	PartialPattern("{0}/{1}/assets/{2}", ["proj", "item"])
//	  == "{0}/{1}/assets", true
//
// When nothing positional remains beyond the cut the topic chain is
// already complete and there is nothing to list, reported as ok=false.
func PartialPattern(pattern string, topics []string) (string, bool) {
	if len(topics) == 0 {
		return "", false
	}
	last := len(topics) - 1

	tokens := tokenize(pattern)
	cut := -1
	for i, tok := range tokens {
		if tok.kind == tokenPositional && tok.index == last {
			cut = i
		}
	}
	if cut < 0 {
		return "", false
	}

	remaining := false
	for _, tok := range tokens[cut+1:] {
		if tok.kind == tokenPositional {
			remaining = true
			break
		}
	}
	if !remaining {
		return "", false
	}

	var b strings.Builder
	for _, tok := range tokens[:cut+1] {
		b.WriteString(rawToken(tok))
	}
	if next := tokens[cut+1]; next.kind == tokenLiteral {
		b.WriteString(next.text)
	}
	return strings.TrimRight(b.String(), "/\\"), true
}

func fieldNames(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
