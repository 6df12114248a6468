package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spiffcs/tracker/internal/format"
	"github.com/spiffcs/tracker/internal/model"
	"github.com/spiffcs/tracker/internal/overlay"
)

// SaveFunc persists an annotation set after an edit.
type SaveFunc func(model.Annotations) error

// ItemsModel is the Bubble Tea model for the interactive item browser.
// Every edit goes through the overlay and is saved immediately, so a
// crash or quit never loses annotation changes.
type ItemsModel struct {
	title       string
	items       []model.Item
	annotations model.Annotations
	failures    []string
	save        SaveFunc

	cursor      int
	showIgnored bool
	editingNote bool
	noteInput   textinput.Model

	statusMsg string
	quitting  bool

	windowWidth  int
	windowHeight int
}

// NewItemsModel creates an item browser over merged results. failures
// holds the per-repository fetch failures of the refresh that produced
// the items; they stay on screen so partial data is never mistaken for
// a complete result.
func NewItemsModel(title string, items []model.Item, ann model.Annotations, failures []string, save SaveFunc) ItemsModel {
	input := textinput.New()
	input.Placeholder = "note"
	input.CharLimit = 200

	return ItemsModel{
		title:        title,
		items:        items,
		annotations:  ann,
		failures:     failures,
		save:         save,
		noteInput:    input,
		windowWidth:  80,
		windowHeight: 24,
	}
}

// visible returns the items currently shown, honoring the ignore toggle.
func (m ItemsModel) visible() []overlay.Annotated {
	merged := overlay.Merge(m.items, m.annotations)
	if m.showIgnored {
		return merged
	}
	shown := make([]overlay.Annotated, 0, len(merged))
	for _, item := range merged {
		if !item.Ignored {
			shown = append(shown, item)
		}
	}
	return shown
}

// Init implements tea.Model
func (m ItemsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ItemsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editingNote {
			return m.handleNoteKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil
	}

	return m, nil
}

func (m ItemsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visible()

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(items)-1 {
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
		if len(items) > 0 {
			m.cursor = len(items) - 1
		}
		return m, nil

	case "x":
		m.showIgnored = !m.showIgnored
		m.clampCursor()
		return m, nil

	case "i":
		return m.applyEdit(overlay.ToggleIgnore{}, "ignore toggled")

	case "s":
		return m.applyEdit(overlay.CycleStatus{}, "status cycled")

	case "n":
		if len(items) == 0 {
			return m, nil
		}
		m.editingNote = true
		m.noteInput.SetValue(items[m.cursor].Note)
		m.noteInput.Focus()
		return m, textinput.Blink

	case "enter":
		if len(items) == 0 {
			return m, nil
		}
		if url := items[m.cursor].HTMLURL; url != "" {
			return m, openURL(url)
		}
		return m, nil
	}

	return m, nil
}

func (m ItemsModel) handleNoteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editingNote = false
		m.noteInput.Blur()
		return m.applyEdit(overlay.SetNote{Text: m.noteInput.Value()}, "note saved")

	case "esc":
		m.editingNote = false
		m.noteInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.noteInput, cmd = m.noteInput.Update(msg)
	return m, cmd
}

func (m ItemsModel) applyEdit(edit overlay.Edit, status string) (tea.Model, tea.Cmd) {
	items := m.visible()
	if len(items) == 0 {
		return m, nil
	}

	id := items[m.cursor].ID
	updated := overlay.ApplyEdit(m.annotations, id, edit)
	if m.save != nil {
		if err := m.save(updated); err != nil {
			m.statusMsg = "save failed: " + err.Error()
			return m, clearStatusAfter(3 * time.Second)
		}
	}
	m.annotations = updated
	m.clampCursor()

	m.statusMsg = status
	return m, clearStatusAfter(2 * time.Second)
}

func (m *ItemsModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model
func (m ItemsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for _, f := range m.failures {
		b.WriteString(warnStyle.Render("! "+f) + "\n")
	}
	if len(m.failures) > 0 {
		b.WriteString("\n")
	}

	items := m.visible()
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("No items to show.") + "\n")
	}

	titleCol := m.windowWidth - 30
	if titleCol < 20 {
		titleCol = 20
	}

	for i, item := range items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		line, width := format.TruncateToWidth(
			fmt.Sprintf("%s #%d %s", item.Repository.FullName(), item.Number, item.Title), titleCol)
		line = format.PadRight(line, width, titleCol)
		if item.Ignored {
			line = ignoredStyle.Render(line)
		} else if i == m.cursor {
			line = selectedStyle.Render(line)
		}

		b.WriteString(cursor + line + " " + renderStatus(item.Status))
		b.WriteString(dimStyle.Render("  " + format.Age(time.Since(item.UpdatedAt))))
		b.WriteString("\n")

		if item.Note != "" {
			b.WriteString(noteStyle.Render("    ✎ "+item.Note) + "\n")
		}
	}

	if m.editingNote {
		b.WriteString("\n" + m.noteInput.View() + "\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n" + dimStyle.Render(m.statusMsg) + "\n")
	}

	b.WriteString(footerStyle.Render("i ignore | n note | s status | x show ignored | enter open | q quit"))
	return b.String()
}

func renderStatus(s model.Status) string {
	switch s {
	case model.StatusInProgress:
		return statusInProgressStyle.Render("in_progress")
	case model.StatusBlocked:
		return statusBlockedStyle.Render("blocked")
	case model.StatusFuture:
		return statusFutureStyle.Render("future")
	}
	return dimStyle.Render("-")
}

// RunItems shows the item browser, returning the final annotation set.
func RunItems(title string, items []model.Item, ann model.Annotations, failures []string, save SaveFunc) (model.Annotations, error) {
	final, err := runProgram(NewItemsModel(title, items, ann, failures, save))
	if err != nil {
		return ann, err
	}
	if m, ok := final.(ItemsModel); ok {
		return m.annotations, nil
	}
	return ann, nil
}

// clearStatusMsg is a message to clear the status
type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// openURL opens a URL in the default browser
func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd

		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "linux":
			cmd = exec.Command("xdg-open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			return nil
		}

		_ = cmd.Start()
		return nil
	}
}
