// Package tui implements the interactive context browser. It follows
// The Elm Architecture via bubbletea: the model holds the current
// screen, Update reacts to messages, View renders.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/beworkflow/be/internal/config"
	"github.com/beworkflow/be/internal/project"
	"github.com/beworkflow/be/internal/resolve"
)

type screen int

const (
	screenProjects screen = iota
	screenItems
)

var hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// projectEntry implements list.Item for the project picker.
type projectEntry struct {
	name string
}

func (e projectEntry) Title() string       { return e.name }
func (e projectEntry) Description() string { return "project" }
func (e projectEntry) FilterValue() string { return e.name }

// inventoryEntry implements list.Item for the item picker.
type inventoryEntry struct {
	name    string
	binding string
}

func (e inventoryEntry) Title() string       { return e.name }
func (e inventoryEntry) Description() string { return e.binding }
func (e inventoryEntry) FilterValue() string { return e.name }

// reloadMsg signals that a watched project file changed on disk.
type reloadMsg struct{}

// watchErrMsg carries a watcher failure into the update loop.
type watchErrMsg struct {
	err error
}

// Model is the browser state.
type Model struct {
	root    string
	screen  screen
	project string

	projects list.Model
	items    list.Model

	watcher *fsnotify.Watcher
	errText string

	// Selection is the topic chain the user picked, empty when the
	// browser was quit without choosing.
	Selection []string
}

// New builds a browser over the projects root. An initial project name
// may be given to start on its inventory directly.
func New(root, initial string) (*Model, error) {
	projects := list.New(projectItems(root), list.NewDefaultDelegate(), 0, 0)
	projects.Title = "be - projects"
	projects.SetShowStatusBar(false)

	items := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	items.SetShowStatusBar(false)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starting file watcher: %w", err)
	}

	m := &Model{
		root:     root,
		screen:   screenProjects,
		projects: projects,
		items:    items,
		watcher:  watcher,
	}
	if initial != "" {
		if err := m.enterProject(initial); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return m, nil
}

// Close releases the file watcher.
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Close()
	}
}

func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.projects.SetSize(msg.Width-4, msg.Height-4)
		m.items.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case reloadMsg:
		m.reload()
		return m, m.waitForChange()

	case watchErrMsg:
		m.errText = msg.err.Error()
		return m, m.waitForChange()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.screen == screenItems {
				m.screen = screenProjects
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			return m.choose()
		}
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenProjects:
		m.projects, cmd = m.projects.Update(msg)
	case screenItems:
		m.items, cmd = m.items.Update(msg)
	}
	return m, cmd
}

func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenProjects:
		body = m.projects.View()
	case screenItems:
		body = m.items.View()
	}
	footer := hintStyle.Render("enter: select | esc: back | q: quit")
	if m.errText != "" {
		footer = hintStyle.Render("! " + m.errText)
	}
	return body + "\n" + footer
}

func (m *Model) choose() (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenProjects:
		entry, ok := m.projects.SelectedItem().(projectEntry)
		if !ok {
			return m, nil
		}
		if err := m.enterProject(entry.name); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		return m, nil
	default:
		entry, ok := m.items.SelectedItem().(inventoryEntry)
		if !ok {
			return m, nil
		}
		m.Selection = []string{m.project, entry.name}
		return m, tea.Quit
	}
}

// enterProject loads the project's inventory into the item list and
// watches its yaml files, so edits show up while browsing.
func (m *Model) enterProject(name string) error {
	entries, err := inventoryItems(m.root, name)
	if err != nil {
		return err
	}
	m.project = name
	m.screen = screenItems
	m.items.Title = "be - " + name
	m.items.SetItems(entries)

	dir := project.Dir(m.root, name)
	for _, file := range []string{config.SettingsFile, config.TemplatesFile, config.InventoryFile} {
		// Missing optional files are fine; there is nothing to watch.
		_ = m.watcher.Add(filepath.Join(dir, file))
	}
	return nil
}

// reload refreshes whatever screen is showing from disk.
func (m *Model) reload() {
	m.errText = ""
	switch m.screen {
	case screenProjects:
		m.projects.SetItems(projectItems(m.root))
	case screenItems:
		entries, err := inventoryItems(m.root, m.project)
		if err != nil {
			m.errText = err.Error()
			return
		}
		m.items.SetItems(entries)
	}
}

// waitForChange blocks on the watcher until a project file changes.
func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case _, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			return reloadMsg{}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return watchErrMsg{err: err}
		}
	}
}

func projectItems(root string) []list.Item {
	names := project.List(root)
	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = projectEntry{name: name}
	}
	return items
}

func inventoryItems(root, name string) ([]list.Item, error) {
	loader := config.NewLoader(root)
	inventory, err := loader.Inventory(name)
	if err != nil {
		return nil, err
	}
	index, _ := resolve.InvertInventory(inventory)

	names := make([]string, 0, len(index))
	for item := range index {
		names = append(names, item)
	}
	sort.Slice(names, func(i, j int) bool {
		if index[names[i]] != index[names[j]] {
			return index[names[i]] < index[names[j]]
		}
		return names[i] < names[j]
	})

	entries := make([]list.Item, len(names))
	for i, item := range names {
		entries[i] = inventoryEntry{name: item, binding: index[item]}
	}
	return entries, nil
}

// Run starts the browser and returns the chosen topic chain, empty
// when the user quit without selecting.
func Run(root, initial string) ([]string, error) {
	model, err := New(root, initial)
	if err != nil {
		return nil, err
	}
	defer model.Close()

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("running browser: %w", err)
	}
	if m, ok := final.(*Model); ok {
		return m.Selection, nil
	}
	return nil, nil
}
