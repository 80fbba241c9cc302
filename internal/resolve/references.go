package resolve

import "strings"

// ResolveReferences expands "{@name}" references in a template set.
//
// Given {"root": "{cwd}/{project}", "asset": "{@root}/assets/{item}"},
// it returns {"root": "{cwd}/{project}", "asset": "{cwd}/{project}/assets/{item}"}.
//
// Each reference is replaced by the referenced pattern's value as it
// appears in the input map; references are not expanded recursively.
// A reference to a key that does not exist fails the whole call with
// *UnresolvedReferenceError. Resolving an already reference-free set
// returns an equal map.
func ResolveReferences(templates map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(templates))
	for name, pattern := range templates {
		var b strings.Builder
		for _, tok := range tokenize(pattern) {
			if tok.kind != tokenAlias {
				b.WriteString(rawToken(tok))
				continue
			}
			target, ok := templates[tok.text]
			if !ok {
				return nil, &UnresolvedReferenceError{Reference: tok.text}
			}
			b.WriteString(target)
		}
		resolved[name] = b.String()
	}
	return resolved, nil
}

// rawToken renders a token back to its source text.
func rawToken(tok token) string {
	switch tok.kind {
	case tokenPositional:
		return "{" + tok.text + "}"
	case tokenField:
		return "{" + tok.text + "}"
	case tokenAlias:
		return "{@" + tok.text + "}"
	default:
		return tok.text
	}
}
