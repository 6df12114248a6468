package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spiffcs/tracker/internal/format"
	"github.com/spiffcs/tracker/internal/template"
)

// ErrNoSelection is returned when the user quits the selector without
// choosing a template.
var ErrNoSelection = errors.New("no template selected")

// SelectorModel is the Bubble Tea model for the template picker. The
// list comes pre-sorted by most recent use.
type SelectorModel struct {
	dir       string
	templates []template.Info
	cursor    int
	selected  *template.Info
	errMsg    string
	quitting  bool

	windowWidth  int
	windowHeight int
}

// NewSelectorModel creates a selector over the templates in dir.
func NewSelectorModel(dir string, templates []template.Info) SelectorModel {
	return SelectorModel{
		dir:          dir,
		templates:    templates,
		windowWidth:  80,
		windowHeight: 24,
	}
}

// Init implements tea.Model
func (m SelectorModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m SelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil
	}

	return m, nil
}

func (m SelectorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.templates)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "g", "home":
		m.cursor = 0
		return m, nil

	case "G", "end":
		if len(m.templates) > 0 {
			m.cursor = len(m.templates) - 1
		}
		return m, nil

	case "r":
		return m.reload()

	case "enter":
		if len(m.templates) == 0 {
			return m, nil
		}
		t := m.templates[m.cursor]
		m.selected = &t
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// reload re-reads the template directory so edits made in another
// window show up without restarting.
func (m SelectorModel) reload() (tea.Model, tea.Cmd) {
	infos, err := template.List(m.dir)
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.templates = infos
	m.errMsg = ""
	if m.cursor >= len(m.templates) {
		m.cursor = len(m.templates) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m, nil
}

// View implements tea.Model
func (m SelectorModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Select a template"))
	b.WriteString("\n\n")

	if len(m.templates) == 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("No templates found in %s", m.dir)))
		b.WriteString("\n")
	}

	for i, t := range m.templates {
		cursor := "  "
		name := t.Name
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
			name = selectedStyle.Render(name)
		}

		used := "never used"
		if !t.LastUsed.IsZero() {
			used = "used " + format.Age(time.Since(t.LastUsed)) + " ago"
		}
		meta := dimStyle.Render(fmt.Sprintf("  %d repos, %s", t.RepoCount, used))

		b.WriteString(cursor + name + meta + "\n")
		if t.Description != "" {
			b.WriteString(dimStyle.Render("    "+t.Description) + "\n")
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.errMsg) + "\n")
	}

	b.WriteString(footerStyle.Render("enter select | j/k move | r reload | q quit"))
	return b.String()
}

// RunSelector shows the template picker and returns the chosen entry.
func RunSelector(dir string) (template.Info, error) {
	infos, err := template.List(dir)
	if err != nil {
		return template.Info{}, err
	}

	final, err := runProgram(NewSelectorModel(dir, infos))
	if err != nil {
		return template.Info{}, err
	}

	m, ok := final.(SelectorModel)
	if !ok || m.selected == nil {
		return template.Info{}, ErrNoSelection
	}
	return *m.selected, nil
}
