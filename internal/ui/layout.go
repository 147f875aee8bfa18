package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dkarlsen/mailterm/internal/theme"
)

// Layout composes the mailbox chrome: a header carrying the unread badge
// and poll status, the content area, and a status bar with key hints on
// the left and the message count on the right.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top bar: mailbox name and unread badge on the
// left, poll status on the right. The badge disappears at zero unread.
func (l Layout) RenderHeader(mailbox string, unread int, pollStatus string) string {
	left := theme.HeaderStyle.Render("✉ " + mailbox)
	if unread > 0 {
		badge := theme.HeaderStyle.
			Foreground(theme.ColorYellow).
			Bold(true).
			Render(fmt.Sprintf("%d unread", unread))
		left = lipgloss.JoinHorizontal(lipgloss.Top, left, badge)
	}

	right := theme.HeaderStyle.Render(pollStatus)

	return l.spread(left, right, theme.HeaderStyle)
}

// RenderStatusBar renders the bottom bar: key hints left, message count
// right.
func (l Layout) RenderStatusBar(hints string, counter string) string {
	left := theme.StatusBarStyle.Render(hints)
	right := theme.StatusBarStyle.Render(counter)
	return l.spread(left, right, theme.StatusBarStyle)
}

// spread lays out left and right edge-to-edge, filling the gap with the
// bar's background color.
func (l Layout) spread(left, right string, bar lipgloss.Style) string {
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(bar.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderWithFrame joins header, content, and status bar vertically.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
