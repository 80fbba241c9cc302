package resolve

import "strconv"

// DefaultKey is the key selector used when a project does not
// configure templates.key: the second topic identifies the item.
const DefaultKey = "{1}"

// ItemFromTopics selects the topic that identifies the inventory item.
//
// The key selector must be of the literal form "{N}"; anything else is
// a project configuration fault reported as *KeySelectorError. When N
// is beyond the supplied topics the caller can recover by re-invoking
// with more arguments, so the error carries the required count.
func ItemFromTopics(key string, topics []string) (string, error) {
	pos, ok := selectorIndex(key)
	if !ok {
		return "", &KeySelectorError{Selector: key}
	}
	if pos >= len(topics) {
		return "", &InsufficientTopicsError{Required: pos + 1}
	}
	return topics[pos], nil
}

// selectorIndex parses "{N}" into N.
func selectorIndex(key string) (int, bool) {
	if len(key) < 3 || key[0] != '{' || key[len(key)-1] != '}' {
		return 0, false
	}
	inner := key[1 : len(key)-1]
	if !isDigits(inner) {
		return 0, false
	}
	n, err := strconv.Atoi(inner)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HighestPosition returns the highest positional index a pattern
// refers to, or -1 when the pattern has no positional placeholders.
// Bare "{}" placeholders count at their auto-assigned position.
func HighestPosition(pattern string) int {
	highest := -1
	for _, tok := range tokenize(pattern) {
		if tok.kind == tokenPositional && tok.index > highest {
			highest = tok.index
		}
	}
	return highest
}

// CheckTopics verifies that enough topics were supplied to fill every
// positional placeholder of pattern, so that formatting failures are
// reported as a required count up front rather than surfacing as an
// opaque substitution error.
func CheckTopics(pattern string, topics []string) error {
	highest := HighestPosition(pattern)
	if len(topics)-1 < highest {
		return &InsufficientTopicsError{Required: highest + 1}
	}
	return nil
}
