// Package env builds the environment mapping handed to the subshell:
// list concatenation, $VAR expansion against the inherited
// environment, {field}/{N} expansion against context fields and
// topics, and redirection of values between keys.
package env

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Value is one setting from the environment table of be.yaml. A value
// is either a single string or a list of strings; the shape is fixed
// at decode time rather than inspected at every use:
//
//	environment:
//	  PYTHONPATH:
//	    - "{cwd}/{0}/scripts"
//	    - $PYTHONPATH
//	  PROJECT_BIN: "{cwd}/bin"
type Value struct {
	str  string
	list []string
	// isList distinguishes an empty list from an empty string.
	isList bool
}

// String makes a single-string value.
func String(s string) Value { return Value{str: s} }

// List makes a list value.
func List(items ...string) Value { return Value{list: items, isList: true} }

// IsList reports whether the value carries a list.
func (v Value) IsList() bool { return v.isList }

// Strings returns the list form; a string value yields a one-element
// list.
func (v Value) Strings() []string {
	if v.isList {
		return v.list
	}
	return []string{v.str}
}

func (v Value) String() string {
	if v.isList {
		return fmt.Sprintf("%v", v.list)
	}
	return v.str
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v.str = node.Value
		v.list = nil
		v.isList = false
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return fmt.Errorf("environment list: %w", err)
		}
		v.str = ""
		v.list = items
		v.isList = true
		return nil
	default:
		return fmt.Errorf("environment value must be a string or a list of strings")
	}
}
