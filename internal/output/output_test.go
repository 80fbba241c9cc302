package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestEcho(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, true)
	f.Echo("entering %s", "calzone")
	if got := buf.String(); got != "entering calzone\n" {
		t.Errorf("Echo output = %q, want %q", got, "entering calzone\n")
	}
}

func TestWarningAndErrorPlain(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, true)
	f.Warning("duplicate item %q", "ham")
	f.Error("project %q not found", "calzone")
	got := buf.String()
	if !strings.Contains(got, `Warning: duplicate item "ham"`) {
		t.Errorf("missing warning line in %q", got)
	}
	if !strings.Contains(got, `ERROR: project "calzone" not found`) {
		t.Errorf("missing error line in %q", got)
	}
}

func TestColumnsAligned(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, true)
	f.Columns(map[string]string{
		"ham":       "toppings",
		"mozzarella": "cheeses",
	})
	want := "- ham        (toppings)\n- mozzarella (cheeses)\n"
	if got := buf.String(); got != want {
		t.Errorf("Columns output = %q, want %q", got, want)
	}
}

func TestKeyValuesSorted(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, true)
	f.KeyValues(map[string]string{"BE_PROJECT": "calzone", "BE_ACTIVE": "1"})
	want := "- BE_ACTIVE=1\n- BE_PROJECT=calzone\n"
	if got := buf.String(); got != want {
		t.Errorf("KeyValues output = %q, want %q", got, want)
	}
}

func TestPrompt(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
	}{
		{"\n", true},
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{"nope\n", false},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		f := New(&buf, true)
		if got := f.Prompt(strings.NewReader(tc.answer), "continue"); got != tc.want {
			t.Errorf("Prompt(%q) = %v, want %v", tc.answer, got, tc.want)
		}
	}
}
