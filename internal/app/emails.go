package app

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkarlsen/mailterm/internal/model"
	"github.com/dkarlsen/mailterm/internal/ui/compose"
)

// Every mutation resolves to an explicit result message carrying the
// affected record and the error, so the success and failure paths are
// both visible to the root model. On failure the local state is left
// alone and the error is logged; there is no compensating rollback, the
// next poll is the reconciliation point.

// emailCreatedMsg is sent after a POST /emails completes.
type emailCreatedMsg struct {
	provisional model.Email
	draftID     string
	err         error
}

// emailDeletedMsg is sent after a DELETE /emails/{id} completes.
type emailDeletedMsg struct {
	id  int64
	err error
}

// unreadSetMsg is sent after a PUT /emails/{id} completes.
type unreadSetMsg struct {
	id     int64
	unread bool
	err    error
}

// emailExportedMsg is sent after an .eml export completes.
type emailExportedMsg struct {
	path string
	err  error
}

// requestTimeout bounds each mutation request.
const requestTimeout = 30 * time.Second

// sendEmail POSTs the composed message. On success the result carries a
// provisional record (id = current Unix-millis, unread) that the handler
// prepends; the authoritative copy arrives on the next poll and replaces
// it via snapshot inequality.
func (m Model) sendEmail(msg compose.SubmitMsg) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := backend.CreateEmail(
			ctx, msg.Sender, msg.Recipient, msg.Subject, msg.Body,
		)
		if err != nil {
			return emailCreatedMsg{err: err}
		}

		provisional := model.NewProvisional(
			msg.Sender, msg.Recipient, msg.Subject, msg.Body, time.Now(),
		)
		return emailCreatedMsg{provisional: provisional, draftID: msg.DraftID}
	}
}

// deleteEmail issues a DELETE for the given id.
func (m Model) deleteEmail(id int64) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := backend.DeleteEmail(ctx, id)
		return emailDeletedMsg{id: id, err: err}
	}
}

// setUnread issues a PUT updating the unread flag for the given id.
func (m Model) setUnread(id int64, unread bool) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := backend.SetUnread(ctx, id, unread)
		return unreadSetMsg{id: id, unread: unread, err: err}
	}
}

// exportEmail saves the message with the given id as an .eml file.
func (m Model) exportEmail(id int64) tea.Cmd {
	email, ok := model.FindByID(m.emails, id)
	if !ok {
		return nil
	}
	exporter := m.exporter
	return func() tea.Msg {
		path, err := exporter.Save(email)
		return emailExportedMsg{path: path, err: err}
	}
}

// handleEmailCreated prepends the provisional record on success and
// discards the backing draft, if any.
func (m Model) handleEmailCreated(msg emailCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("create failed: %v", msg.err)
		return m, nil
	}

	m.emails = model.Prepend(m.emails, msg.provisional)
	cmd := m.mailList.SetEmails(m.emails)

	if msg.draftID != "" {
		return m, tea.Batch(cmd, m.deleteDraft(msg.draftID))
	}
	return m, cmd
}

// handleEmailDeleted removes the record on success and clears a
// selection that referenced it.
func (m Model) handleEmailDeleted(msg emailDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("delete failed for id %d: %v", msg.id, msg.err)
		return m, nil
	}

	m.emails = model.Remove(m.emails, msg.id)
	if m.selection == msg.id {
		m.selection = model.NoSelection
		if m.currentView == ViewDetail {
			m.currentView = ViewList
		}
	}
	m.refreshDetail()
	return m, m.mailList.SetEmails(m.emails)
}

// handleUnreadSet flips the record's flag immutably on success.
func (m Model) handleUnreadSet(msg unreadSetMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("unread update failed for id %d: %v", msg.id, msg.err)
		return m, nil
	}

	m.emails = model.SetUnread(m.emails, msg.id, msg.unread)
	m.refreshDetail()
	return m, m.mailList.SetEmails(m.emails)
}
