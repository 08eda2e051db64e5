package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/subnews/internal/reddit"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
		{time.Time{}, ""},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestRelativeTimeOld(t *testing.T) {
	old := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	got := relativeTime(old)
	if got != "Jun 15" {
		t.Errorf("relativeTime(old date) = %q, want %q", got, "Jun 15")
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1234, "1.2k"},
		{45678, "45k"},
		{2_500_000, "2.5M"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.n); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCommentsLabel(t *testing.T) {
	if got := commentsLabel(1); got != "1 comment" {
		t.Errorf("commentsLabel(1) = %q", got)
	}
	if got := commentsLabel(7); got != "7 comments" {
		t.Errorf("commentsLabel(7) = %q", got)
	}
}

func TestRenderListItemShowsCounts(t *testing.T) {
	p := reddit.Post{Title: "Hello", Ups: 42, NumComments: 9}
	got := renderListItem(p, false, 40)
	if !strings.Contains(got, "▲ 42") {
		t.Errorf("expected upvotes in %q", got)
	}
	if !strings.Contains(got, "9 comments") {
		t.Errorf("expected comment count in %q", got)
	}
	if !strings.Contains(renderListItem(p, true, 40), "> Hello") {
		t.Error("expected selection marker")
	}
}

func TestRenderListScrollsToCursor(t *testing.T) {
	var posts []reddit.Post
	for i := 0; i < 10; i++ {
		posts = append(posts, reddit.Post{Title: string(rune('A' + i))})
	}
	// Height 9 shows 3 items; cursor 8 should keep items 6..8 visible.
	got := renderList(posts, 8, 9, 40)
	if !strings.Contains(got, "> I") {
		t.Errorf("expected selected item visible:\n%s", got)
	}
	if strings.Contains(got, "  A") {
		t.Errorf("expected first item scrolled out:\n%s", got)
	}
}

func TestWrapTextKeepsParagraphs(t *testing.T) {
	got := wrapText("one two three\n\nfour", 7)
	want := "one two\nthree\n\nfour"
	if got != want {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
}

func TestRenderCopyActions(t *testing.T) {
	idle := renderCopyActions("a1", copyAck{})
	if !strings.Contains(idle, "copy title") || strings.Contains(idle, "copied") {
		t.Errorf("unexpected idle actions %q", idle)
	}
	acked := renderCopyActions("a1", copyAck{postID: "a1", kind: copyWithBody, token: 1})
	if !strings.Contains(acked, "copied title + text") {
		t.Errorf("expected acknowledgement in %q", acked)
	}
	other := renderCopyActions("b2", copyAck{postID: "a1", kind: copyWithBody, token: 1})
	if strings.Contains(other, "copied") {
		t.Errorf("acknowledgement leaked to another post: %q", other)
	}
}
