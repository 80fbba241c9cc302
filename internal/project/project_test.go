package project

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func mkProject(t *testing.T, root, name, marker string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if marker != "" {
		if err := os.WriteFile(filepath.Join(dir, marker), []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestIsProject(t *testing.T) {
	root := t.TempDir()
	mkProject(t, root, "spiderman", "templates.yaml")
	mkProject(t, root, "hulk", "inventory.yaml")
	mkProject(t, root, "empty", "")
	mkProject(t, root, ".hidden", "templates.yaml")
	mkProject(t, root, "_archive", "templates.yaml")
	if err := os.WriteFile(filepath.Join(root, "afile"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want bool
	}{
		{"spiderman", true},
		{"hulk", true},
		{"empty", false},
		{".hidden", false},
		{"_archive", false},
		{"afile", false},
		{"missing", false},
	}
	for _, tt := range tests {
		if got := IsProject(filepath.Join(root, tt.name)); got != tt.want {
			t.Errorf("IsProject(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestList(t *testing.T) {
	root := t.TempDir()
	mkProject(t, root, "zed", "templates.yaml")
	mkProject(t, root, "alpha", "inventory.yaml")
	mkProject(t, root, ".hidden", "templates.yaml")

	if got, want := List(root), []string{"alpha", "zed"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}

func TestList_MissingRoot(t *testing.T) {
	if got := List(filepath.Join(t.TempDir(), "nope")); got != nil {
		t.Errorf("List = %v, want nil", got)
	}
}
