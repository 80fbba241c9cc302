package resolve

import (
	"strconv"
	"strings"
)

// Expand fills both {name} and {N} placeholders of pattern from a
// single flat source map; positional placeholders are looked up under
// their decimal key ("0", "1", ...). Any reference without a value
// fails with *UnknownFieldError. Unlike FormatPath the result is not
// path-normalized; callers that produce paths normalize themselves.
func Expand(pattern string, source map[string]string) (string, error) {
	var b strings.Builder
	for _, tok := range tokenize(pattern) {
		switch tok.kind {
		case tokenPositional:
			value, ok := source[strconv.Itoa(tok.index)]
			if !ok {
				return "", &UnknownFieldError{Field: strconv.Itoa(tok.index), Available: fieldNames(source)}
			}
			b.WriteString(value)
		case tokenField:
			value, ok := source[tok.text]
			if !ok {
				return "", &UnknownFieldError{Field: tok.text, Available: fieldNames(source)}
			}
			b.WriteString(value)
		default:
			b.WriteString(rawToken(tok))
		}
	}
	return b.String(), nil
}
