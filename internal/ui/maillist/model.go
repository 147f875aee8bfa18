package maillist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkarlsen/mailterm/internal/keys"
	"github.com/dkarlsen/mailterm/internal/model"
	"github.com/dkarlsen/mailterm/internal/theme"
)

// SelectedEmailMsg is sent when the user opens a message for detail view.
type SelectedEmailMsg struct {
	ID int64
}

// Model is the message list view. It is a pure view over the collection
// owned by the root model; it holds no authoritative state of its own.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	unread int
	total  int
	width  int
	height int
}

// New creates a new message list model.
func New(k *keys.KeyMap, width, height int) Model {
	delegate := ItemDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetEmails replaces the rows with the given collection, keeping the
// cursor position where possible.
func (m *Model) SetEmails(emails []model.Email) tea.Cmd {
	items := make([]list.Item, len(emails))
	unread := 0
	for i, e := range emails {
		items[i] = EmailItem{Email: e}
		if e.Unread {
			unread++
		}
	}
	m.unread = unread
	m.total = len(emails)
	return m.list.SetItems(items)
}

// SelectedItem returns the email under the cursor.
func (m Model) SelectedItem() (model.Email, bool) {
	item, ok := m.list.SelectedItem().(EmailItem)
	if !ok {
		return model.Email{}, false
	}
	return item.Email, true
}

// UnreadCount returns the number of unread messages in the current rows.
func (m Model) UnreadCount() int {
	return m.unread
}

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Select) {
			item, ok := m.list.SelectedItem().(EmailItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedEmailMsg{ID: item.Email.ID}
			}
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the message list.
func (m Model) View() string {
	if m.total == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when the mailbox is empty.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render(fmt.Sprintf(
		"No messages.\n\nPress %s to compose one.",
		m.keys.Compose.Help().Key,
	))
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
