package resolve

import "strconv"

// tokenKind discriminates the pieces a pattern is cut into.
type tokenKind int

const (
	// tokenLiteral is plain text between placeholders.
	tokenLiteral tokenKind = iota
	// tokenPositional is "{N}" or a bare "{}", filled from topics.
	tokenPositional
	// tokenField is "{name}", filled from the replacement fields.
	tokenField
	// tokenAlias is "{@name}", expanded at template-load time only.
	tokenAlias
)

// token is one element of a tokenized pattern. Text holds the literal
// text for tokenLiteral, the field name for tokenField and the alias
// name for tokenAlias. Index is only meaningful for tokenPositional.
type token struct {
	kind  tokenKind
	text  string
	index int
}

// tokenize cuts a pattern into literal, positional, field and alias
// tokens in a single pass. Bare "{}" placeholders are numbered by
// order of appearance, matching the auto-numbering of the positional
// syntax. Malformed braces (no closing brace, or content that is
// neither an index, an identifier nor an "@" reference) are kept as
// literal text.
func tokenize(pattern string) []token {
	var tokens []token
	var literal []byte
	auto := 0

	flush := func() {
		if len(literal) > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, text: string(literal)})
			literal = literal[:0]
		}
	}

	for i := 0; i < len(pattern); {
		if pattern[i] != '{' {
			literal = append(literal, pattern[i])
			i++
			continue
		}

		end := -1
		for j := i + 1; j < len(pattern); j++ {
			if pattern[j] == '}' {
				end = j
				break
			}
			if pattern[j] == '{' {
				break
			}
		}
		if end < 0 {
			literal = append(literal, pattern[i])
			i++
			continue
		}

		inner := pattern[i+1 : end]
		switch {
		case inner == "":
			flush()
			tokens = append(tokens, token{kind: tokenPositional, index: auto})
			auto++
		case isDigits(inner):
			flush()
			n, _ := strconv.Atoi(inner)
			tokens = append(tokens, token{kind: tokenPositional, text: inner, index: n})
		case len(inner) > 1 && inner[0] == '@' && isIdentifier(inner[1:]):
			flush()
			tokens = append(tokens, token{kind: tokenAlias, text: inner[1:]})
		case isIdentifier(inner):
			flush()
			tokens = append(tokens, token{kind: tokenField, text: inner})
		default:
			literal = append(literal, pattern[i:end+1]...)
		}
		i = end + 1
	}
	flush()
	return tokens
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
