package resolve

import (
	"fmt"
	"sort"
)

// UnresolvedReferenceError is returned when a "{@name}" reference in a
// template points at a key that does not exist. It aborts template
// loading entirely; a template set with a dangling reference cannot
// produce correct paths for any binding.
type UnresolvedReferenceError struct {
	Reference string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolvable reference %q", e.Reference)
}

// KeySelectorError is returned when the configured template key is not
// of the literal form "{N}". This is a project configuration fault,
// distinct from an item simply not being found.
type KeySelectorError struct {
	Selector string
}

func (e *KeySelectorError) Error() string {
	return fmt.Sprintf("template key %q not recognised", e.Selector)
}

// InsufficientTopicsError is returned when fewer topics were supplied
// than a template or key selector demands. Required is the minimum
// number of topics the caller must provide.
type InsufficientTopicsError struct {
	Required int
}

func (e *InsufficientTopicsError) Error() string {
	return fmt.Sprintf("at least %d topics are required", e.Required)
}

// UnknownItemError is returned when an item has no binding in the
// inventory. Bindings carries the full item-to-binding index so the
// caller can present suggestions.
type UnknownItemError struct {
	Item     string
	Bindings Index
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("%q not found", e.Item)
}

// Suggestions returns the known items sorted by (binding, item),
// formatted as "item (binding)".
func (e *UnknownItemError) Suggestions() []string {
	items := make([]string, 0, len(e.Bindings))
	for item := range e.Bindings {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		bi, bj := e.Bindings[items[i]], e.Bindings[items[j]]
		if bi != bj {
			return bi < bj
		}
		return items[i] < items[j]
	})
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprintf("%s (%s)", item, e.Bindings[item])
	}
	return out
}

// UnknownTemplateError is returned when a binding names a template
// that does not exist in the template set.
type UnknownTemplateError struct {
	Name string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("no template named %q", e.Name)
}

// UnknownFieldError is returned when a named placeholder in a pattern
// has no corresponding replacement field. Available lists every field
// that was in scope, sorted, to aid debugging.
type UnknownFieldError struct {
	Field     string
	Available []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%q is not an available key", e.Field)
}
