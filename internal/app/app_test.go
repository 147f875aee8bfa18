package app

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkarlsen/mailterm/internal/model"
	"github.com/dkarlsen/mailterm/internal/ui/compose"
	"github.com/dkarlsen/mailterm/internal/ui/detail"
	"github.com/dkarlsen/mailterm/internal/ui/maillist"
)

// fakeBackend records mutation calls and optionally fails them.
type fakeBackend struct {
	emails []model.Email

	createCalls int
	deleteCalls []int64
	unreadCalls []struct {
		ID     int64
		Unread bool
	}

	err error
}

func (f *fakeBackend) ListEmails(_ context.Context) ([]model.Email, error) {
	return f.emails, f.err
}

func (f *fakeBackend) CreateEmail(
	_ context.Context, _, _, _, _ string,
) error {
	f.createCalls++
	return f.err
}

func (f *fakeBackend) SetUnread(_ context.Context, id int64, unread bool) error {
	f.unreadCalls = append(f.unreadCalls, struct {
		ID     int64
		Unread bool
	}{id, unread})
	return f.err
}

func (f *fakeBackend) DeleteEmail(_ context.Context, id int64) error {
	f.deleteCalls = append(f.deleteCalls, id)
	return f.err
}

type fakeDrafts struct {
	saved   []model.Draft
	deleted []string
	latest  *model.Draft
}

func (f *fakeDrafts) SaveDraft(_ context.Context, d model.Draft) (model.Draft, error) {
	if d.ID == "" {
		d.ID = "draft-1"
	}
	f.saved = append(f.saved, d)
	return d, nil
}

func (f *fakeDrafts) LatestDraft(_ context.Context) (*model.Draft, error) {
	return f.latest, nil
}

func (f *fakeDrafts) DeleteDraft(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeExporter struct {
	saved []model.Email
}

func (f *fakeExporter) Save(email model.Email) (string, error) {
	f.saved = append(f.saved, email)
	return "/tmp/" + "x.eml", nil
}

func newTestModel(backend *fakeBackend) (Model, *fakeDrafts, *fakeExporter) {
	drafts := &fakeDrafts{}
	exporter := &fakeExporter{}
	cfg := &model.AppConfig{
		Display: model.DisplayConfig{
			PollIntervalMS: 2000,
			DefaultSender:  "me@example.com",
		},
	}
	m := New(backend, drafts, exporter, cfg)
	return m, drafts, exporter
}

// sendMsg routes a message through Update and re-asserts the root type.
func sendMsg(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	root, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want app.Model", updated)
	}
	return root, cmd
}

func seedEmails() []model.Email {
	return []model.Email{
		{ID: 1, Sender: "a@example.com", Recipient: "me@example.com",
			Subject: "First", Body: "one", Date: time.Now().Add(-time.Hour), Unread: true},
		{ID: 2, Sender: "b@example.com", Recipient: "me@example.com",
			Subject: "Second", Body: "two", Date: time.Now().Add(-2 * time.Hour), Unread: false},
	}
}

func TestIdenticalPayloadDoesNotReplaceState(t *testing.T) {
	m, _, _ := newTestModel(&fakeBackend{})
	m.emails = seedEmails()

	same := append([]model.Email(nil), m.emails...)
	if cmd := m.replaceCollection(same); cmd != nil {
		t.Fatal("equal payload must not replace state")
	}

	changed := append([]model.Email(nil), m.emails...)
	changed[0].Unread = false
	if cmd := m.replaceCollection(changed); cmd == nil {
		t.Fatal("changed payload must replace state")
	}
	if m.emails[0].Unread {
		t.Fatal("collection was not replaced")
	}
}

func TestCreatePrependsProvisionalRecord(t *testing.T) {
	backend := &fakeBackend{}
	m, _, _ := newTestModel(backend)
	m.emails = seedEmails()
	before := len(m.emails)

	m, cmd := sendMsg(t, m, compose.SubmitMsg{
		Sender:    "me@example.com",
		Recipient: "c@example.com",
		Subject:   "New message",
		Body:      "hello",
	})
	if cmd == nil {
		t.Fatal("expected a mutation command")
	}

	msg := cmd()
	created, ok := msg.(emailCreatedMsg)
	if !ok {
		t.Fatalf("expected emailCreatedMsg, got %T", msg)
	}
	if created.err != nil {
		t.Fatalf("unexpected error: %v", created.err)
	}
	if backend.createCalls != 1 {
		t.Fatalf("expected exactly one POST, got %d", backend.createCalls)
	}

	m, _ = sendMsg(t, m, created)
	if len(m.emails) != before+1 {
		t.Fatalf("expected %d emails, got %d", before+1, len(m.emails))
	}
	first := m.emails[0]
	if first.Subject != "New message" || !first.Unread {
		t.Fatalf("provisional record not first: %+v", first)
	}
	if first.ID == 0 {
		t.Fatal("provisional record needs a timestamp id")
	}
}

func TestCreateFailureLeavesStateUntouched(t *testing.T) {
	backend := &fakeBackend{err: errors.New("boom")}
	m, _, _ := newTestModel(backend)
	m.emails = seedEmails()
	before := len(m.emails)

	m, cmd := sendMsg(t, m, compose.SubmitMsg{
		Sender: "me@example.com", Recipient: "c@example.com",
	})
	m, _ = sendMsg(t, m, cmd())

	if len(m.emails) != before {
		t.Fatalf("failed create must not change the collection")
	}
}

func TestDeleteSelectedClearsSelection(t *testing.T) {
	backend := &fakeBackend{}
	m, _, _ := newTestModel(backend)
	m.emails = seedEmails()
	m.selection = 2
	m.currentView = ViewDetail

	m, cmd := sendMsg(t, m, detail.DeleteRequestMsg{ID: 2})
	m, _ = sendMsg(t, m, cmd())

	if m.selection != model.NoSelection {
		t.Fatalf("expected selection cleared, got %d", m.selection)
	}
	if _, ok := model.FindByID(m.emails, 2); ok {
		t.Fatal("deleted record still in collection")
	}
	if m.currentView != ViewList {
		t.Fatal("expected navigation back to the list")
	}
	if len(backend.deleteCalls) != 1 || backend.deleteCalls[0] != 2 {
		t.Fatalf("expected one DELETE for id 2, got %v", backend.deleteCalls)
	}
}

func TestDeleteUnselectedKeepsSelection(t *testing.T) {
	m, _, _ := newTestModel(&fakeBackend{})
	m.emails = seedEmails()
	m.selection = 1

	m, cmd := sendMsg(t, m, detail.DeleteRequestMsg{ID: 2})
	m, _ = sendMsg(t, m, cmd())

	if m.selection != 1 {
		t.Fatalf("selection of an unrelated record must survive, got %d", m.selection)
	}
}

func TestSelectIssuesExactlyOneMarkRead(t *testing.T) {
	backend := &fakeBackend{}
	m, _, _ := newTestModel(backend)
	m.emails = []model.Email{
		{ID: 1, Sender: "a@example.com", Subject: "First", Unread: true},
	}

	m, cmd := sendMsg(t, m, maillist.SelectedEmailMsg{ID: 1})
	if m.currentView != ViewDetail {
		t.Fatal("expected detail view")
	}
	if cmd == nil {
		t.Fatal("expected a mark-read command")
	}

	msg := cmd()
	set, ok := msg.(unreadSetMsg)
	if !ok {
		t.Fatalf("expected unreadSetMsg, got %T", msg)
	}
	if len(backend.unreadCalls) != 1 {
		t.Fatalf("expected exactly one PUT, got %d", len(backend.unreadCalls))
	}
	if backend.unreadCalls[0].ID != 1 || backend.unreadCalls[0].Unread {
		t.Fatalf("expected PUT {unread:false} for id 1, got %+v", backend.unreadCalls[0])
	}

	m, _ = sendMsg(t, m, set)
	email, _ := model.FindByID(m.emails, 1)
	if email.Unread {
		t.Fatal("local unread flag must flip to false")
	}

	// Re-selecting the same id must not issue a second request.
	m.currentView = ViewList
	_, cmd = sendMsg(t, m, maillist.SelectedEmailMsg{ID: 1})
	if cmd != nil {
		t.Fatal("re-selecting the open message must not dispatch again")
	}
}

func TestDanglingSelectionRendersNothing(t *testing.T) {
	m, _, _ := newTestModel(&fakeBackend{})
	m.emails = seedEmails()
	m.selection = 99
	m.refreshDetail()

	if m.selectedEmail() != nil {
		t.Fatal("dangling selection must resolve to nil")
	}
	if !strings.Contains(m.detail.View(), "No message selected") {
		t.Fatal("detail pane must render the empty state")
	}
}

func TestUnreadToggleFailureKeepsFlag(t *testing.T) {
	backend := &fakeBackend{err: errors.New("boom")}
	m, _, _ := newTestModel(backend)
	m.emails = seedEmails()

	m, cmd := sendMsg(t, m, detail.ToggleUnreadRequestMsg{ID: 2, Unread: true})
	m, _ = sendMsg(t, m, cmd())

	email, _ := model.FindByID(m.emails, 2)
	if email.Unread {
		t.Fatal("failed PUT must leave the flag unchanged")
	}
}

func TestComposeCancelSavesNonEmptyDraft(t *testing.T) {
	m, drafts, _ := newTestModel(&fakeBackend{})

	m, cmd := sendMsg(t, m, compose.CancelMsg{
		Draft: model.Draft{Recipient: "c@example.com", Body: "wip"},
	})
	if m.currentView != ViewList {
		t.Fatal("cancel must return to the list")
	}
	sendMsg(t, m, cmd())

	if len(drafts.saved) != 1 || drafts.saved[0].Recipient != "c@example.com" {
		t.Fatalf("expected the draft to be saved, got %+v", drafts.saved)
	}
}

func TestComposeCancelDropsEmptyDraft(t *testing.T) {
	m, drafts, _ := newTestModel(&fakeBackend{})

	_, cmd := sendMsg(t, m, compose.CancelMsg{Draft: model.Draft{Sender: "me@example.com"}})
	if cmd != nil {
		t.Fatal("empty drafts must not be saved")
	}
	if len(drafts.saved) != 0 {
		t.Fatal("empty drafts must not be saved")
	}
}

type failingDrafts struct {
	fakeDrafts
}

func (f *failingDrafts) LatestDraft(_ context.Context) (*model.Draft, error) {
	return nil, errors.New("db locked")
}

func TestLoadLatestDraftFailureLogsAndFallsBack(t *testing.T) {
	drafts := &failingDrafts{}
	cfg := &model.AppConfig{Display: model.DisplayConfig{PollIntervalMS: 2000}}
	m := New(&fakeBackend{}, drafts, &fakeExporter{}, cfg)

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	msg := m.loadLatestDraft()()
	loaded, ok := msg.(draftLoadedMsg)
	if !ok {
		t.Fatalf("expected draftLoadedMsg, got %T", msg)
	}
	if loaded.draft != nil {
		t.Fatalf("a failed load must yield no draft, got %+v", loaded.draft)
	}
	if !strings.Contains(buf.String(), "loading latest draft failed") {
		t.Fatalf("expected the failure to be logged, got %q", buf.String())
	}

	// A nil draft falls back to an empty compose form.
	updated, _ := sendMsg(t, m, loaded)
	if updated.currentView != ViewCompose {
		t.Fatal("expected the compose view to open")
	}
}

func TestSendFromDraftDeletesDraft(t *testing.T) {
	backend := &fakeBackend{}
	m, drafts, _ := newTestModel(backend)

	m, cmd := sendMsg(t, m, compose.SubmitMsg{
		Sender: "me@example.com", Recipient: "c@example.com", DraftID: "d-7",
	})
	created := cmd().(emailCreatedMsg)
	if created.draftID != "d-7" {
		t.Fatalf("draft id must ride along, got %q", created.draftID)
	}

	_, cmd = sendMsg(t, m, created)
	if cmd == nil {
		t.Fatal("expected a follow-up command")
	}
	runBatch(t, cmd)

	if len(drafts.deleted) != 1 || drafts.deleted[0] != "d-7" {
		t.Fatalf("expected draft d-7 deleted, got %v", drafts.deleted)
	}
}

func TestExportRequestSavesOpenMessage(t *testing.T) {
	m, _, exporter := newTestModel(&fakeBackend{})
	m.emails = seedEmails()

	_, cmd := sendMsg(t, m, detail.ExportRequestMsg{ID: 1})
	if cmd == nil {
		t.Fatal("expected an export command")
	}
	msg := cmd()
	if exported, ok := msg.(emailExportedMsg); !ok || exported.err != nil {
		t.Fatalf("unexpected export result: %+v", msg)
	}
	if len(exporter.saved) != 1 || exporter.saved[0].ID != 1 {
		t.Fatalf("expected email 1 exported, got %+v", exporter.saved)
	}
}

// runBatch executes a command, following tea.Batch results one level deep.
func runBatch(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return
	}
	for _, c := range batch {
		if c != nil {
			c()
		}
	}
}
