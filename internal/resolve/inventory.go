package resolve

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Item is one entry of an inventory binding. In yaml an item is either
// a plain scalar (string or number) or a one-key mapping whose key is
// the item id and whose value is free-form metadata:
//
//	asset:
//	  - peter
//	  - 1000
//	  - goblin: {note: "hero asset"}
type Item struct {
	Name string
	Meta map[string]string
}

// UnmarshalYAML decodes the scalar and one-key mapping forms. Numbers
// are kept as their literal text, so "1000" and 1000 identify the same
// item.
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		it.Name = node.Value
		return nil
	case yaml.MappingNode:
		if len(node.Content) < 2 {
			return fmt.Errorf("inventory item mapping is empty")
		}
		it.Name = node.Content[0].Value
		meta := map[string]string{}
		if err := node.Content[1].Decode(&meta); err == nil && len(meta) > 0 {
			it.Meta = meta
		}
		return nil
	default:
		return fmt.Errorf("inventory item must be a scalar or a one-key mapping, got %s", nodeKind(node))
	}
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "unknown node"
	}
}

// Index maps an item id to the binding it belongs to.
type Index map[string]string

// Binding returns the binding for item, or *UnknownItemError carrying
// the whole index for suggestion rendering.
func (ix Index) Binding(item string) (string, error) {
	binding, ok := ix[item]
	if !ok {
		return "", &UnknownItemError{Item: item, Bindings: ix}
	}
	return binding, nil
}

// DuplicateWarning records an item id that appeared under more than
// one binding. The first occurrence wins; the duplicate is skipped.
type DuplicateWarning struct {
	Item    string
	Kept    string
	Skipped string
}

func (w DuplicateWarning) String() string {
	return fmt.Sprintf("duplicate item %q for %q, keeping %q", w.Item, w.Skipped, w.Kept)
}

// InvertInventory turns {binding: [items...]} into {item: binding}.
// Bindings are visited in sorted order so the result and the warnings
// are deterministic; within a binding, item order is preserved. When
// an item id repeats across bindings the first mapping is kept and a
// non-fatal DuplicateWarning is recorded for every later occurrence.
func InvertInventory(inventory map[string][]Item) (Index, []DuplicateWarning) {
	bindings := make([]string, 0, len(inventory))
	for binding := range inventory {
		bindings = append(bindings, binding)
	}
	sort.Strings(bindings)

	index := make(Index)
	var warnings []DuplicateWarning
	for _, binding := range bindings {
		for _, item := range inventory[binding] {
			if kept, ok := index[item.Name]; ok {
				warnings = append(warnings, DuplicateWarning{
					Item:    item.Name,
					Kept:    kept,
					Skipped: binding,
				})
				continue
			}
			index[item.Name] = binding
		}
	}
	return index, warnings
}
