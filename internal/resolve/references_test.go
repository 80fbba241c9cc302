package resolve

import (
	"errors"
	"testing"
)

func TestResolveReferences(t *testing.T) {
	tests := []struct {
		name      string
		templates map[string]string
		want      map[string]string
	}{
		{
			name:      "single reference",
			templates: map[string]string{"a": "{@b}/x", "b": "{key}/y"},
			want:      map[string]string{"a": "{key}/y/x", "b": "{key}/y"},
		},
		{
			name: "shared root",
			templates: map[string]string{
				"root":  "{cwd}/{project}",
				"asset": "{@root}/assets/{item}/{type}",
				"shot":  "{@root}/film/{item}/{type}",
			},
			want: map[string]string{
				"root":  "{cwd}/{project}",
				"asset": "{cwd}/{project}/assets/{item}/{type}",
				"shot":  "{cwd}/{project}/film/{item}/{type}",
			},
		},
		{
			name:      "multiple references in one pattern",
			templates: map[string]string{"a": "x", "b": "y", "c": "{@a}/{@b}"},
			want:      map[string]string{"a": "x", "b": "y", "c": "x/y"},
		},
		{
			name:      "no references is a no-op",
			templates: map[string]string{"asset": "{cwd}/{project}/assets/{item}"},
			want:      map[string]string{"asset": "{cwd}/{project}/assets/{item}"},
		},
		{
			name:      "empty set",
			templates: map[string]string{},
			want:      map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveReferences(tt.templates)
			if err != nil {
				t.Fatalf("ResolveReferences failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for name, want := range tt.want {
				if got[name] != want {
					t.Errorf("templates[%q] = %q, want %q", name, got[name], want)
				}
			}
		})
	}
}

func TestResolveReferences_Unresolvable(t *testing.T) {
	_, err := ResolveReferences(map[string]string{"a": "{@missing}/x"})
	if err == nil {
		t.Fatal("expected error for dangling reference")
	}
	var refErr *UnresolvedReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("error = %T, want *UnresolvedReferenceError", err)
	}
	if refErr.Reference != "missing" {
		t.Errorf("Reference = %q, want %q", refErr.Reference, "missing")
	}
}

func TestResolveReferences_Idempotent(t *testing.T) {
	templates := map[string]string{"a": "{@b}/x", "b": "{key}/y"}
	once, err := ResolveReferences(templates)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	twice, err := ResolveReferences(once)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	for name := range once {
		if once[name] != twice[name] {
			t.Errorf("resolving twice changed %q: %q -> %q", name, once[name], twice[name])
		}
	}
}

func TestResolveReferences_DoesNotMutateInput(t *testing.T) {
	templates := map[string]string{"a": "{@b}/x", "b": "y"}
	if _, err := ResolveReferences(templates); err != nil {
		t.Fatalf("ResolveReferences failed: %v", err)
	}
	if templates["a"] != "{@b}/x" {
		t.Errorf("input mutated: a = %q", templates["a"])
	}
}
