package env

import (
	"errors"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/beworkflow/be/internal/resolve"
)

func TestValue_UnmarshalYAML(t *testing.T) {
	src := `
PROJECT_BIN: "{cwd}/bin"
PYTHONPATH:
  - "{cwd}/{0}/scripts"
  - $PYTHONPATH
`
	var settings map[string]Value
	if err := yaml.Unmarshal([]byte(src), &settings); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if settings["PROJECT_BIN"].IsList() {
		t.Error("PROJECT_BIN decoded as a list")
	}
	if got := settings["PROJECT_BIN"].String(); got != "{cwd}/bin" {
		t.Errorf("PROJECT_BIN = %q", got)
	}

	if !settings["PYTHONPATH"].IsList() {
		t.Fatal("PYTHONPATH not decoded as a list")
	}
	want := []string{"{cwd}/{0}/scripts", "$PYTHONPATH"}
	if got := settings["PYTHONPATH"].Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("PYTHONPATH = %v, want %v", got, want)
	}
}

func TestValue_UnmarshalYAML_RejectsMapping(t *testing.T) {
	var settings map[string]Value
	if err := yaml.Unmarshal([]byte("KEY: {nested: value}"), &settings); err == nil {
		t.Fatal("expected error for mapping value")
	}
}

func TestFields(t *testing.T) {
	context := map[string]string{
		"BE_PROJECT": "spiderman",
		"BE_CWD":     "/projects",
		"PATH":       "/usr/bin",
		"HOME":       "/home/marcus",
	}
	want := map[string]string{
		"project": "spiderman",
		"cwd":     "/projects",
	}
	if got := Fields(context); !reflect.DeepEqual(got, want) {
		t.Errorf("Fields = %v, want %v", got, want)
	}
}

func TestCompose_ListFlattening(t *testing.T) {
	c := Composer{ListSeparator: ":"}
	settings := map[string]Value{
		"PYTHONPATH": List("/a", "/b", "/c"),
		"SINGLE":     String("untouched"),
	}

	got, err := c.Compose(settings, nil, nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got["PYTHONPATH"] != "/a:/b:/c" {
		t.Errorf("PYTHONPATH = %q, want %q", got["PYTHONPATH"], "/a:/b:/c")
	}
	if got["SINGLE"] != "untouched" {
		t.Errorf("SINGLE = %q, want %q", got["SINGLE"], "untouched")
	}
}

func TestCompose_VariableExpansion(t *testing.T) {
	// "$PATH;extra" on a ";" platform keeps the literal separator; on
	// a ":" platform the ";" is normalized before substitution.
	baseEnv := map[string]string{"PATH": "/usr/bin"}

	windows := Composer{ListSeparator: ";"}
	got, err := windows.Compose(map[string]Value{"PATH": String("$PATH;extra")}, baseEnv, nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got["PATH"] != "/usr/bin;extra" {
		t.Errorf(`PATH = %q, want %q`, got["PATH"], "/usr/bin;extra")
	}

	unix := Composer{ListSeparator: ":"}
	got, err = unix.Compose(map[string]Value{"PATH": String("$PATH;extra")}, baseEnv, nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got["PATH"] != "/usr/bin:extra" {
		t.Errorf(`PATH = %q, want %q`, got["PATH"], "/usr/bin:extra")
	}
}

func TestCompose_UnresolvedVariable(t *testing.T) {
	c := Composer{ListSeparator: ":"}
	_, err := c.Compose(map[string]Value{"KEY": String("$NOPE/bin")}, map[string]string{}, nil)
	var unresolved *UnresolvedVariableError
	if !errors.As(err, &unresolved) {
		t.Fatalf("error = %T, want *UnresolvedVariableError", err)
	}
	if unresolved.Name != "NOPE" {
		t.Errorf("Name = %q, want %q", unresolved.Name, "NOPE")
	}
}

func TestCompose_FieldAndTopicExpansion(t *testing.T) {
	c := Composer{ListSeparator: ":"}
	baseEnv := map[string]string{
		"BE_CWD":     "/projects",
		"BE_PROJECT": "spiderman",
	}
	topics := []string{"spiderman", "peter", "model"}
	settings := map[string]Value{
		"PROJECT_SCRIPTS": String("{cwd}/{0}/scripts"),
		"CURRENT_TASK":    String("{2}"),
		"BY_NAME":         String("{project}"),
	}

	got, err := c.Compose(settings, baseEnv, topics)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got["PROJECT_SCRIPTS"] != "/projects/spiderman/scripts" {
		t.Errorf("PROJECT_SCRIPTS = %q", got["PROJECT_SCRIPTS"])
	}
	if got["CURRENT_TASK"] != "model" {
		t.Errorf("CURRENT_TASK = %q, want %q", got["CURRENT_TASK"], "model")
	}
	if got["BY_NAME"] != "spiderman" {
		t.Errorf("BY_NAME = %q, want %q", got["BY_NAME"], "spiderman")
	}
}

func TestCompose_UnresolvedField(t *testing.T) {
	c := Composer{ListSeparator: ":"}
	_, err := c.Compose(map[string]Value{"KEY": String("{nope}")}, nil, nil)
	var unresolved *UnresolvedFieldError
	if !errors.As(err, &unresolved) {
		t.Fatalf("error = %T, want *UnresolvedFieldError", err)
	}
	if unresolved.Name != "nope" {
		t.Errorf("Name = %q, want %q", unresolved.Name, "nope")
	}
}

func TestCompose_PassesAreOrdered(t *testing.T) {
	// A list whose elements carry both $VAR and {field} references is
	// flattened first, then $-expanded, then field-expanded.
	c := Composer{ListSeparator: ":"}
	baseEnv := map[string]string{
		"PYTHONPATH": "/site-packages",
		"BE_CWD":     "/projects",
	}
	settings := map[string]Value{
		"PYTHONPATH": List("{cwd}/{0}/scripts", "$PYTHONPATH"),
	}

	got, err := c.Compose(settings, baseEnv, []string{"hulk"})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	want := "/projects/hulk/scripts:/site-packages"
	if got["PYTHONPATH"] != want {
		t.Errorf("PYTHONPATH = %q, want %q", got["PYTHONPATH"], want)
	}
}

func TestCompose_RepeatedTopicKeepsLowestIndex(t *testing.T) {
	c := Composer{ListSeparator: ":"}
	topics := []string{"model", "peter", "model"}

	got, err := c.Compose(map[string]Value{"KEY": String("{0}")}, nil, topics)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got["KEY"] != "model" {
		t.Errorf("KEY = %q, want %q", got["KEY"], "model")
	}

	// The repeated value occupies index 0 only, so {2} has no value.
	_, err = c.Compose(map[string]Value{"KEY": String("{2}")}, nil, topics)
	var unresolved *UnresolvedFieldError
	if !errors.As(err, &unresolved) {
		t.Fatalf("error = %T, want *UnresolvedFieldError", err)
	}
}

func TestRedirect(t *testing.T) {
	topics := []string{"spiderman", "peter"}
	context := map[string]string{"BE_USER": "marcus"}

	err := Redirect(map[string]string{
		"{0}":     "BE_PROJECT",
		"BE_USER": "USERNAME",
	}, topics, context)
	if err != nil {
		t.Fatalf("Redirect failed: %v", err)
	}

	if context["BE_PROJECT"] != "spiderman" {
		t.Errorf("BE_PROJECT = %q, want %q", context["BE_PROJECT"], "spiderman")
	}
	if context["USERNAME"] != "marcus" {
		t.Errorf("USERNAME = %q, want %q", context["USERNAME"], "marcus")
	}
}

func TestRedirect_PositionalOutOfRange(t *testing.T) {
	err := Redirect(map[string]string{"{3}": "BE_TASK"}, []string{"a"}, map[string]string{})
	var insufficient *resolve.InsufficientTopicsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %T, want *InsufficientTopicsError", err)
	}
	if insufficient.Required != 4 {
		t.Errorf("Required = %d, want 4", insufficient.Required)
	}
}

func TestRedirect_MissingSource(t *testing.T) {
	if err := Redirect(map[string]string{"NOPE": "DEST"}, nil, map[string]string{}); err == nil {
		t.Fatal("expected error for missing redirect source")
	}
}
