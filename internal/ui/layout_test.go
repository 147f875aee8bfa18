package ui

import (
	"strings"
	"testing"
)

func TestRenderHeaderUnreadBadge(t *testing.T) {
	l := NewLayout(80, 24)

	withUnread := l.RenderHeader("mailterm", 3, "idle")
	if !strings.Contains(withUnread, "3 unread") {
		t.Fatalf("expected the unread badge, got %q", withUnread)
	}
	if !strings.Contains(withUnread, "mailterm") || !strings.Contains(withUnread, "idle") {
		t.Fatalf("expected mailbox name and poll status, got %q", withUnread)
	}

	allRead := l.RenderHeader("mailterm", 0, "idle")
	if strings.Contains(allRead, "unread") {
		t.Fatalf("badge must disappear at zero unread, got %q", allRead)
	}
}

func TestRenderStatusBarSides(t *testing.T) {
	l := NewLayout(80, 24)

	bar := l.RenderStatusBar("q quit", "12 messages")
	if !strings.Contains(bar, "q quit") || !strings.Contains(bar, "12 messages") {
		t.Fatalf("expected hints and counter, got %q", bar)
	}
}

func TestContentHeightSubtractsBars(t *testing.T) {
	l := NewLayout(80, 24)
	if got := l.ContentHeight(); got != 22 {
		t.Fatalf("expected 22 content rows, got %d", got)
	}
	if got := l.ContentWidth(); got != 80 {
		t.Fatalf("expected full width, got %d", got)
	}
}
