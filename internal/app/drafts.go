package app

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkarlsen/mailterm/internal/model"
)

// draftSavedMsg is sent after a draft is persisted.
type draftSavedMsg struct {
	err error
}

// draftLoadedMsg carries the latest draft, or nil when there is none.
type draftLoadedMsg struct {
	draft *model.Draft
}

// saveDraft persists abandoned compose content.
func (m Model) saveDraft(d model.Draft) tea.Cmd {
	drafts := m.drafts
	return func() tea.Msg {
		_, err := drafts.SaveDraft(context.Background(), d)
		return draftSavedMsg{err: err}
	}
}

// loadLatestDraft fetches the most recent draft for resuming.
func (m Model) loadLatestDraft() tea.Cmd {
	drafts := m.drafts
	return func() tea.Msg {
		d, err := drafts.LatestDraft(context.Background())
		if err != nil {
			log.Printf("loading latest draft failed: %v", err)
			return draftLoadedMsg{draft: nil}
		}
		return draftLoadedMsg{draft: d}
	}
}

// deleteDraft removes a draft once its message has been sent.
func (m Model) deleteDraft(id string) tea.Cmd {
	drafts := m.drafts
	return func() tea.Msg {
		err := drafts.DeleteDraft(context.Background(), id)
		return draftSavedMsg{err: err}
	}
}
