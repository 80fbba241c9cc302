// Package output renders user-facing text: plain echo lines, styled
// warnings and errors, and aligned suggestion listings.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const fallbackWidth = 80

// Formatter writes styled output. Styles degrade to plain text when
// the writer is not a terminal or color is disabled.
type Formatter struct {
	w     io.Writer
	width int

	errStyle  lipgloss.Style
	warnStyle lipgloss.Style
	hintStyle lipgloss.Style
}

// New builds a formatter for w. Color is used only when w is a
// terminal, the profile supports it and noColor is false.
func New(w io.Writer, noColor bool) *Formatter {
	f := &Formatter{w: w, width: fallbackWidth}

	color := false
	if file, ok := w.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
		color = termenv.ColorProfile() != termenv.Ascii
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			f.width = width
		}
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		color = false
	}

	if color {
		f.errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		f.warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		f.hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}
	return f
}

// Echo prints one formatted line.
func (f *Formatter) Echo(format string, args ...any) {
	fmt.Fprintf(f.w, format+"\n", args...)
}

// Warning prints a styled warning line.
func (f *Formatter) Warning(format string, args ...any) {
	fmt.Fprintln(f.w, f.warnStyle.Render("Warning: "+fmt.Sprintf(format, args...)))
}

// Error prints a styled error line.
func (f *Formatter) Error(format string, args ...any) {
	fmt.Fprintln(f.w, f.errStyle.Render("ERROR: "+fmt.Sprintf(format, args...)))
}

// Hint prints subdued helper text, wrapped to the terminal width.
func (f *Formatter) Hint(format string, args ...any) {
	wrapped := wordwrap.String(fmt.Sprintf(format, args...), f.width)
	fmt.Fprintln(f.w, f.hintStyle.Render(wrapped))
}

// List prints "- item" lines.
func (f *Formatter) List(items []string) {
	for _, item := range items {
		fmt.Fprintf(f.w, "- %s\n", item)
	}
}

// Columns prints "- key  (value)" lines with the keys padded to a
// common display width.
func (f *Formatter) Columns(pairs map[string]string) {
	keys := make([]string, 0, len(pairs))
	widest := 0
	for key := range pairs {
		keys = append(keys, key)
		if w := runewidth.StringWidth(key); w > widest {
			widest = w
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(f.w, "- %s (%s)\n", runewidth.FillRight(key, widest), pairs[key])
	}
}

// KeyValues prints "- KEY=value" lines in sorted key order, the form
// used by `be dump`.
func (f *Formatter) KeyValues(values map[string]string) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(f.w, "- %s=%s\n", key, values[key])
	}
}

// Width reports the wrap width in use.
func (f *Formatter) Width() int { return f.width }

// Prompt asks a yes/no question on the terminal; empty input counts
// as yes.
func (f *Formatter) Prompt(r io.Reader, question string) bool {
	fmt.Fprintf(f.w, "%s [Y/n]: ", question)
	var answer string
	fmt.Fscanln(r, &answer)
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}
