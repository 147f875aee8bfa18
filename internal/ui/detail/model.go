package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkarlsen/mailterm/internal/keys"
	"github.com/dkarlsen/mailterm/internal/model"
	"github.com/dkarlsen/mailterm/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// DeleteRequestMsg asks the parent to delete the open message.
type DeleteRequestMsg struct {
	ID int64
}

// ToggleUnreadRequestMsg asks the parent to flip the unread flag.
type ToggleUnreadRequestMsg struct {
	ID     int64
	Unread bool
}

// ExportRequestMsg asks the parent to save the open message as .eml.
type ExportRequestMsg struct {
	ID int64
}

// Model is the message detail view. It renders whatever email the parent
// resolves from the current selection; when the selection is dangling
// (deleted id) or empty it renders nothing but the empty state.
type Model struct {
	email    *model.Email
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetEmail updates the message being displayed. A nil email clears the
// pane (nothing selected, or the selected record disappeared).
func (m *Model) SetEmail(email *model.Email) {
	m.email = email
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(keyMsg, m.keys.Delete):
			if m.email != nil {
				id := m.email.ID
				return m, func() tea.Msg {
					return DeleteRequestMsg{ID: id}
				}
			}

		case key.Matches(keyMsg, m.keys.ToggleUnread):
			if m.email != nil {
				id := m.email.ID
				unread := !m.email.Unread
				return m, func() tea.Msg {
					return ToggleUnreadRequestMsg{ID: id, Unread: unread}
				}
			}

		case key.Matches(keyMsg, m.keys.Export):
			if m.email != nil {
				id := m.email.ID
				return m, func() tea.Msg {
					return ExportRequestMsg{ID: id}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.email == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No message selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.email == nil {
		return ""
	}

	email := m.email
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(email.Subject))

	if email.Unread {
		badge := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorYellow).
			Render("UNREAD")
		sections = append(sections, badge)
	}
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("From:"),
		valStyle.Render(email.Sender),
	))
	sections = append(sections, fmt.Sprintf(
		"%s    %s",
		metaStyle.Render("To:"),
		valStyle.Render(email.Recipient),
	))
	if !email.Date.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Date:"),
			valStyle.Render(email.Date.Format("2006-01-02 15:04")),
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	body := email.Body
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No body")
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}
