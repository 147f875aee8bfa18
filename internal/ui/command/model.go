package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkarlsen/mailterm/internal/theme"
)

// CommandMsg is emitted when the user executes a command; the root model
// interprets it.
type CommandMsg string

// spec names a palette command with its aliases and a short description.
type spec struct {
	name    string
	aliases []string
	desc    string
}

// registry lists what the palette accepts. Aliases resolve in the root
// model; the palette only needs them for matching and completion.
var registry = []spec{
	{"refresh", []string{"sync"}, "fetch the mailbox now"},
	{"compose", []string{"new"}, "write a new message"},
	{"resume", []string{"draft"}, "reopen the latest draft"},
	{"help", nil, "show keyboard shortcuts"},
	{"quit", []string{"q"}, "exit mailterm"},
}

// matches returns the registry entries whose name or alias starts with
// prefix. An empty prefix matches everything.
func matches(prefix string) []spec {
	var out []spec
	for _, s := range registry {
		if strings.HasPrefix(s.name, prefix) {
			out = append(out, s)
			continue
		}
		for _, a := range s.aliases {
			if strings.HasPrefix(a, prefix) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "refresh, compose, resume, help, quit"
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette. Enter executes the
// typed command; tab completes it to the first matching name.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if cmd != "" {
				return m, func() tea.Msg {
					return CommandMsg(cmd)
				}
			}
			return m, nil

		case "tab":
			prefix := strings.TrimSpace(m.input.Value())
			if found := matches(prefix); prefix != "" && len(found) > 0 {
				m.input.SetValue(found[0].name)
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the input with the matching commands listed beneath it.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	nameStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue)

	rows := []string{
		titleStyle.Render("Command"),
		m.input.View(),
		"",
	}
	for _, s := range matches(strings.TrimSpace(m.input.Value())) {
		rows = append(rows, fmt.Sprintf(
			"%s %s",
			nameStyle.Render(fmt.Sprintf("%-8s", s.name)),
			theme.HelpStyle.Render(s.desc),
		))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
