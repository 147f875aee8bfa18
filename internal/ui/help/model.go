package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkarlsen/mailterm/internal/keys"
	"github.com/dkarlsen/mailterm/internal/theme"
)

// section is a titled group of bindings on the help screen.
type section struct {
	title    string
	bindings []key.Binding
}

// Model is the help screen. Bindings are grouped by what they act on:
// moving through the mailbox, acting on a single message, and everything
// else.
type Model struct {
	help     help.Model
	sections []section
	width    int
	height   int
}

// New creates the help screen for the given keymap.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width

	return Model{
		help: h,
		sections: []section{
			{"Mailbox", []key.Binding{
				k.Up, k.Down, k.Select, k.Back, k.Refresh,
			}},
			{"Message", []key.Binding{
				k.Compose, k.Delete, k.ToggleUnread, k.Export,
			}},
			{"General", []key.Binding{
				k.Command, k.Help, k.Quit,
			}},
		},
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the grouped shortcut listing with a palette hint at the
// bottom.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue)

	parts := []string{titleStyle.Render("mailterm keys")}
	for _, s := range m.sections {
		parts = append(parts,
			sectionStyle.Render(s.title),
			m.help.FullHelpView([][]key.Binding{s.bindings}),
			"",
		)
	}
	parts = append(parts, theme.HelpStyle.Render(
		"palette commands: refresh, compose, resume, help, quit",
	))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
