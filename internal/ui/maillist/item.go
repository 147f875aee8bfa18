package maillist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkarlsen/mailterm/internal/model"
	"github.com/dkarlsen/mailterm/internal/theme"
)

// EmailItem wraps a model.Email so it can be used in a bubbles/list.
type EmailItem struct {
	Email model.Email
}

// FilterValue returns the string used for fuzzy filtering.
func (i EmailItem) FilterValue() string {
	return i.Email.Sender + " " + i.Email.Subject
}

// Title returns the subject line for the list.
func (i EmailItem) Title() string { return i.Email.Subject }

// Description returns a short summary line for the list.
func (i EmailItem) Description() string {
	return i.Email.Sender + " | " + relativeTime(i.Email.Date)
}

// ItemDelegate renders message rows: unread marker, sender, subject,
// relative time.
type ItemDelegate struct{}

// Height returns the number of lines each row takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between rows.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single message row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EmailItem)
	if !ok {
		return
	}

	email := ei.Email
	isSelected := index == m.Index()

	marker := " "
	if email.Unread {
		marker = "●"
	}

	sender := truncateSender(email.Sender, 24)

	var line string
	if email.Unread {
		line = fmt.Sprintf(
			"%s %s  %s",
			marker,
			theme.UnreadStyle.Render(fmt.Sprintf("%-24s", sender)),
			theme.UnreadStyle.Render(email.Subject),
		)
	} else {
		line = fmt.Sprintf(
			"%s %s  %s",
			marker,
			theme.ReadStyle.Render(fmt.Sprintf("%-24s", sender)),
			email.Subject,
		)
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render("  " + relativeTime(email.Date))
	line += timeStr

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// truncateSender caps the sender column at max runes, never splitting a
// multibyte character.
func truncateSender(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		return t.Format("Jan 02, 2006")
	}
}
