package compose

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkarlsen/mailterm/internal/model"
	"github.com/dkarlsen/mailterm/internal/theme"
)

// SubmitMsg is dispatched when the user submits the compose form.
// DraftID is non-empty when the message was resumed from a saved draft.
type SubmitMsg struct {
	Sender    string
	Recipient string
	Subject   string
	Body      string
	DraftID   string
}

// CancelMsg is dispatched when the user abandons the form. Draft carries
// whatever was typed so the parent can decide to keep it.
type CancelMsg struct {
	Draft model.Draft
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	sender    string
	recipient string
	subject   string
	body      string
}

// Model is the Bubble Tea model for the compose form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	draftID string
	width   int
	height  int
}

// New creates a new compose form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCompose initializes an empty form, pre-filling the sender.
func (m *Model) StartCompose(defaultSender string) tea.Cmd {
	m.draftID = ""
	m.fb.sender = defaultSender
	m.fb.recipient = ""
	m.fb.subject = ""
	m.fb.body = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartFromDraft initializes the form with a saved draft's content.
func (m *Model) StartFromDraft(d model.Draft) tea.Cmd {
	m.draftID = d.ID
	m.fb.sender = d.Sender
	m.fb.recipient = d.Recipient
	m.fb.subject = d.Subject
	m.fb.body = d.Body
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the compose form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, m.handleCancel()
	}

	return m, cmd
}

// View renders the compose form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Message"
	if m.draftID != "" {
		titleText = "New Message (draft)"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("From").
				Placeholder("you@example.com").
				Value(&m.fb.sender).
				Validate(validateRequired("From")),
			huh.NewInput().
				Title("To").
				Placeholder("recipient@example.com").
				Value(&m.fb.recipient).
				Validate(validateRequired("To")),
			huh.NewInput().
				Title("Subject").
				Placeholder("Subject").
				Value(&m.fb.subject),
			huh.NewText().
				Title("Body").
				Placeholder("Write your message...").
				Value(&m.fb.body),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	msg := SubmitMsg{
		Sender:    m.fb.sender,
		Recipient: m.fb.recipient,
		Subject:   m.fb.subject,
		Body:      m.fb.body,
		DraftID:   m.draftID,
	}
	return func() tea.Msg { return msg }
}

func (m Model) handleCancel() tea.Cmd {
	draft := model.Draft{
		ID:        m.draftID,
		Sender:    m.fb.sender,
		Recipient: m.fb.recipient,
		Subject:   m.fb.subject,
		Body:      m.fb.body,
	}
	return func() tea.Msg { return CancelMsg{Draft: draft} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
