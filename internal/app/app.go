package app

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkarlsen/mailterm/internal/keys"
	"github.com/dkarlsen/mailterm/internal/model"
	appsync "github.com/dkarlsen/mailterm/internal/sync"
	"github.com/dkarlsen/mailterm/internal/ui"
	"github.com/dkarlsen/mailterm/internal/ui/command"
	"github.com/dkarlsen/mailterm/internal/ui/compose"
	"github.com/dkarlsen/mailterm/internal/ui/detail"
	helpview "github.com/dkarlsen/mailterm/internal/ui/help"
	"github.com/dkarlsen/mailterm/internal/ui/maillist"
)

// Backend is the slice of the REST client the root model depends on.
type Backend interface {
	ListEmails(ctx context.Context) ([]model.Email, error)
	CreateEmail(ctx context.Context, sender, recipient, subject, body string) error
	SetUnread(ctx context.Context, id int64, unread bool) error
	DeleteEmail(ctx context.Context, id int64) error
}

// DraftStore persists unsent compose content locally.
type DraftStore interface {
	SaveDraft(ctx context.Context, d model.Draft) (model.Draft, error)
	LatestDraft(ctx context.Context) (*model.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// Exporter writes a message to a local .eml file.
type Exporter interface {
	Save(email model.Email) (string, error)
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewCompose
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model. It owns the authoritative local
// copy of the email collection and the current selection, routes view
// state, and dispatches optimistic mutations against the backend.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	backend  Backend
	drafts   DraftStore
	exporter Exporter
	poller   *appsync.Poller

	// emails is the collection, replaced wholesale on poll inequality
	// and rebuilt immutably on successful mutations.
	emails []model.Email

	// selection is the id of the open message, model.NoSelection when
	// nothing is open. It is a lookup key only: the referenced record
	// may vanish underneath it.
	selection int64

	mailList    maillist.Model
	detail      detail.Model
	composeView compose.Model
	helpView    helpview.Model
	commandView command.Model

	defaultSender string
	ready         bool
}

// New creates the root application model. The poll interval and default
// sender come from cfg.
func New(
	backend Backend,
	drafts DraftStore,
	exporter Exporter,
	cfg *model.AppConfig,
) Model {
	k := keys.DefaultKeyMap()
	interval := time.Duration(cfg.Display.PollIntervalMS) * time.Millisecond
	p := appsync.New(backend, interval)

	return Model{
		currentView:   ViewList,
		keys:          k,
		backend:       backend,
		drafts:        drafts,
		exporter:      exporter,
		poller:        p,
		selection:     model.NoSelection,
		mailList:      maillist.New(k, 80, 24),
		detail:        detail.New(k, 80, 24),
		composeView:   compose.New(80, 24),
		helpView:      helpview.New(k, 80, 24),
		commandView:   command.New(80, 24),
		defaultSender: cfg.Display.DefaultSender,
	}
}

// Init starts the polling loop; the poller fetches once immediately.
func (m Model) Init() tea.Cmd {
	return m.poller.Start()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.mailList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.composeView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case appsync.SyncResultMsg:
		waitCmd := m.poller.WaitForNextResult()
		if msg.Err != nil {
			// Already logged by the poller; keep listening.
			return m, waitCmd
		}
		cmd := m.replaceCollection(msg.Emails)
		return m, tea.Batch(cmd, waitCmd)

	case maillist.SelectedEmailMsg:
		return m.openEmail(msg.ID)

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.DeleteRequestMsg:
		return m, m.deleteEmail(msg.ID)

	case detail.ToggleUnreadRequestMsg:
		return m, m.setUnread(msg.ID, msg.Unread)

	case detail.ExportRequestMsg:
		return m, m.exportEmail(msg.ID)

	case compose.SubmitMsg:
		m.currentView = ViewList
		return m, m.sendEmail(msg)

	case compose.CancelMsg:
		m.currentView = ViewList
		if msg.Draft.Empty() {
			return m, nil
		}
		return m, m.saveDraft(msg.Draft)

	case emailCreatedMsg:
		return m.handleEmailCreated(msg)

	case emailDeletedMsg:
		return m.handleEmailDeleted(msg)

	case unreadSetMsg:
		return m.handleUnreadSet(msg)

	case emailExportedMsg:
		if msg.err != nil {
			log.Printf("export failed: %v", msg.err)
		} else {
			log.Printf("saved message to %s", msg.path)
		}
		return m, nil

	case draftSavedMsg:
		if msg.err != nil {
			log.Printf("saving draft failed: %v", msg.err)
		}
		return m, nil

	case draftLoadedMsg:
		m.previousView = m.currentView
		m.currentView = ViewCompose
		if msg.draft != nil {
			return m, m.composeView.StartFromDraft(*msg.draft)
		}
		return m, m.composeView.StartCompose(m.defaultSender)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		return m.handleGlobalKeys(msg)
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the active
// view, then delegates the rest.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.poller.Stop()
		return m, tea.Quit

	case "q":
		if m.currentView == ViewList {
			m.poller.Stop()
			return m, tea.Quit
		}

	case "?":
		if m.currentView == ViewCompose || m.currentView == ViewCommand {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case ":":
		if m.currentView == ViewCompose {
			break
		}
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case "n":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewCompose
			return m, m.composeView.StartCompose(m.defaultSender)
		}

	case "r":
		if m.currentView == ViewList {
			return m, m.poller.Refresh()
		}

	case "d":
		if m.currentView == ViewList {
			if item, ok := m.mailList.SelectedItem(); ok {
				return m, m.deleteEmail(item.ID)
			}
		}

	case "u":
		if m.currentView == ViewList {
			if item, ok := m.mailList.SelectedItem(); ok {
				return m, m.setUnread(item.ID, !item.Unread)
			}
		}

	case "esc":
		if m.currentView == ViewHelp || m.currentView == ViewCommand {
			m.currentView = m.previousView
			return m, nil
		}
	}

	return m.updateActiveView(msg)
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "refresh", "sync":
		return m, m.poller.Refresh()
	case "compose", "new":
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.composeView.StartCompose(m.defaultSender)
	case "resume", "draft":
		return m, m.loadLatestDraft()
	case "quit", "q":
		m.poller.Stop()
		return m, tea.Quit
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	default:
		return m, nil
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.mailList, cmd = m.mailList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// replaceCollection swaps in a freshly polled collection, but only when
// it differs from current state; identical payloads leave everything
// untouched so downstream views do no redundant work.
func (m *Model) replaceCollection(emails []model.Email) tea.Cmd {
	if slices.Equal(m.emails, emails) {
		return nil
	}
	m.emails = emails
	m.refreshDetail()
	return m.mailList.SetEmails(m.emails)
}

// openEmail sets the selection and switches to the detail view. When the
// newly selected id differs from the previous one, a mark-read request
// is issued as a side effect.
func (m Model) openEmail(id int64) (tea.Model, tea.Cmd) {
	previous := m.selection
	m.selection = id
	m.previousView = m.currentView
	m.currentView = ViewDetail
	m.refreshDetail()

	if id != previous {
		if _, ok := model.FindByID(m.emails, id); ok {
			return m, m.setUnread(id, false)
		}
	}
	return m, nil
}

// selectedEmail derives the open message from the collection by linear
// lookup. Returns nil for no selection or a dangling id.
func (m Model) selectedEmail() *model.Email {
	if m.selection == model.NoSelection {
		return nil
	}
	if email, ok := model.FindByID(m.emails, m.selection); ok {
		return &email
	}
	return nil
}

// refreshDetail re-derives the detail view's content from the current
// collection and selection.
func (m *Model) refreshDetail() {
	m.detail.SetEmail(m.selectedEmail())
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(
		"mailterm", m.mailList.UnreadCount(), m.pollStatus(),
	)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.messageCount())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// messageCount returns the status bar's mailbox size label.
func (m Model) messageCount() string {
	if len(m.emails) == 1 {
		return "1 message"
	}
	return fmt.Sprintf("%d messages", len(m.emails))
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.mailList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewCompose:
		return m.composeView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// pollStatus returns a short string describing the polling state.
func (m Model) pollStatus() string {
	status := m.poller.Status()
	switch status.State {
	case appsync.SyncRunning:
		return "syncing"
	case appsync.SyncError:
		return "⚠ unreachable"
	default:
		if status.LastSync.IsZero() {
			return "idle"
		}
		return "idle · " + status.LastSync.Format("15:04:05")
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewDetail:
		return "esc back | u toggle unread | d delete | s save .eml | j/k scroll"
	case ViewCompose:
		return "enter next field | esc cancel (keeps draft)"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close palette | enter execute | esc back"
	default:
		return "q quit | ? help | n compose | d delete | u unread | r refresh"
	}
}
