package resolve

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestFormatPath(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		topics  []string
		fields  map[string]string
		want    string
	}{
		{
			name:    "positional only",
			pattern: "{0}/{1}/{2}",
			topics:  []string{"a", "b", "c"},
			want:    "a/b/c",
		},
		{
			name:    "named and positional mixed",
			pattern: "{cwd}/{0}/assets/{1}/{2}",
			topics:  []string{"spiderman", "peter", "model"},
			fields:  map[string]string{"cwd": "/projects"},
			want:    "/projects/spiderman/assets/peter/model",
		},
		{
			name:    "backslashes normalized",
			pattern: "{cwd}/{project}",
			fields:  map[string]string{"cwd": `c:\projects`, "project": "hulk"},
			want:    "c:/projects/hulk",
		},
		{
			name:    "bare braces auto-number",
			pattern: "{}/{}",
			topics:  []string{"a", "b"},
			want:    "a/b",
		},
		{
			name:    "malformed braces kept literally",
			pattern: "{0}/{not-a-field}",
			topics:  []string{"a"},
			want:    "a/{not-a-field}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatPath(tt.pattern, tt.topics, tt.fields)
			if err != nil {
				t.Fatalf("FormatPath failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatPath_ResolvesScenario(t *testing.T) {
	// be in spiderman peter model, with key {1} binding "peter" to the
	// "asset" template.
	templates := map[string]string{"asset": "{cwd}/{project}/assets/{item}/{type}"}
	inventory := map[string][]Item{"asset": {{Name: "peter"}}}
	topics := []string{"spiderman", "peter", "model"}

	item, err := ItemFromTopics("{1}", topics)
	if err != nil {
		t.Fatalf("ItemFromTopics: %v", err)
	}
	if item != "peter" {
		t.Fatalf("item = %q, want %q", item, "peter")
	}

	index, _ := InvertInventory(inventory)
	binding, err := index.Binding(item)
	if err != nil {
		t.Fatalf("Binding: %v", err)
	}
	if binding != "asset" {
		t.Fatalf("binding = %q, want %q", binding, "asset")
	}

	fields := map[string]string{
		"cwd":     "/projects",
		"project": "spiderman",
		"item":    "peter",
		"type":    "model",
	}
	path, err := FormatPath(templates[binding], topics, fields)
	if err != nil {
		t.Fatalf("FormatPath: %v", err)
	}
	if !strings.HasSuffix(path, "/spiderman/assets/peter/model") {
		t.Errorf("path = %q, want suffix %q", path, "/spiderman/assets/peter/model")
	}
	if strings.ContainsAny(path, "{}") {
		t.Errorf("path %q still contains braces", path)
	}
}

func TestFormatPath_InsufficientTopics(t *testing.T) {
	_, err := FormatPath("{0}/{1}/{2}", []string{"a", "b"}, nil)
	var insufficient *InsufficientTopicsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %T, want *InsufficientTopicsError", err)
	}
	if insufficient.Required != 3 {
		t.Errorf("Required = %d, want 3", insufficient.Required)
	}
}

func TestFormatPath_UnknownField(t *testing.T) {
	fields := map[string]string{"cwd": "/projects", "user": "marcus"}
	_, err := FormatPath("{cwd}/{missing}", nil, fields)
	var unknown *UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %T, want *UnknownFieldError", err)
	}
	if unknown.Field != "missing" {
		t.Errorf("Field = %q, want %q", unknown.Field, "missing")
	}
	if want := []string{"cwd", "user"}; !reflect.DeepEqual(unknown.Available, want) {
		t.Errorf("Available = %v, want %v", unknown.Available, want)
	}
}

func TestPartialPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		topics  []string
		want    string
		ok      bool
	}{
		{
			name:    "literal tail appended before next placeholder",
			pattern: "{0}/{1}/assets/{2}",
			topics:  []string{"proj", "item"},
			want:    "{0}/{1}/assets",
			ok:      true,
		},
		{
			name:    "adjacent placeholders keep no tail",
			pattern: "{0}/{1}/{2}",
			topics:  []string{"a", "b"},
			want:    "{0}/{1}",
			ok:      true,
		},
		{
			name:    "single topic",
			pattern: "{0}/{1}/assets/{2}",
			topics:  []string{"proj"},
			want:    "{0}",
			ok:      true,
		},
		{
			name:    "complete chain lists nothing",
			pattern: "{0}/{1}/assets/{2}",
			topics:  []string{"proj", "item", "task"},
			ok:      false,
		},
		{
			name:    "named fields survive truncation",
			pattern: "{cwd}/{0}/assets/{1}/{2}",
			topics:  []string{"proj"},
			want:    "{cwd}/{0}/assets",
			ok:      true,
		},
		{
			name:    "more topics than placeholders",
			pattern: "{0}/{1}",
			topics:  []string{"a", "b", "c"},
			ok:      false,
		},
		{
			name:    "no topics",
			pattern: "{0}/{1}",
			topics:  nil,
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PartialPattern(tt.pattern, tt.topics)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("PartialPattern = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPartialPattern_ThenFormat(t *testing.T) {
	partial, ok := PartialPattern("{cwd}/{0}/assets/{1}/{2}", []string{"spiderman", "peter"})
	if !ok {
		t.Fatal("expected a partial pattern")
	}
	path, err := FormatPath(partial, []string{"spiderman", "peter"}, map[string]string{"cwd": "/projects"})
	if err != nil {
		t.Fatalf("FormatPath: %v", err)
	}
	if path != "/projects/spiderman/assets/peter" {
		t.Errorf("path = %q, want %q", path, "/projects/spiderman/assets/peter")
	}
}
