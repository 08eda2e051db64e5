package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/subnews/internal/config"
	"github.com/matheuskafuri/subnews/internal/history"
	"github.com/matheuskafuri/subnews/internal/logging"
	"github.com/matheuskafuri/subnews/internal/reddit"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * 24 * time.Hour, "30d"},
		{36 * time.Hour, "1d"},
		{5 * time.Hour, "5h"},
		{30 * time.Minute, "0h"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrintPosts(t *testing.T) {
	var buf bytes.Buffer
	printPosts(&buf, []reddit.Post{
		{Title: "First", Author: "alice", Ups: 10, NumComments: 2, Permalink: "/r/golang/comments/a1/first/"},
		{Title: "Second", Author: "bob", Ups: 3, NumComments: 0, URL: "https://go.dev"},
	})
	out := buf.String()
	for _, want := range []string{
		"First\n",
		"▲ 10 · 2 comments · u/alice",
		"https://www.reddit.com/r/golang/comments/a1/first/",
		"Second\n",
		"https://go.dev",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2024, 3, 5, 14, 30, 0, 0, time.Local)
	printHistory(&buf, []history.Entry{
		{Subreddit: "golang", OK: true, PostCount: 25, QueriedAt: at},
		{Subreddit: "nope", OK: false, Message: "Subreddit not found", QueriedAt: at},
	})
	out := buf.String()
	if !strings.Contains(out, "Mar 05 14:30  r/golang") || !strings.Contains(out, "25 posts") {
		t.Errorf("successful entry not rendered:\n%s", out)
	}
	if !strings.Contains(out, "Subreddit not found") {
		t.Errorf("failed entry should show its message:\n%s", out)
	}
}

type stubLast struct {
	name string
	err  error
}

func (s stubLast) LastSubreddit() (string, error) { return s.name, s.err }

func TestInitialQuery(t *testing.T) {
	cfg := &config.Config{DefaultSubreddit: "golang"}
	log := logging.Nop()

	tests := []struct {
		name string
		flag string
		h    lastQuerier
		want string
	}{
		{"flag wins", "rust", stubLast{name: "python"}, "rust"},
		{"last successful query", "", stubLast{name: "python"}, "python"},
		{"empty history", "", stubLast{}, "golang"},
		{"history error", "", stubLast{err: errors.New("boom")}, "golang"},
		{"no history", "  ", nil, "golang"},
	}
	for _, tt := range tests {
		if got := initialQuery(tt.flag, tt.h, cfg, log); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2024-01-01")
	defer SetVersionInfo("dev", "none", "unknown")

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	if got := buf.String(); !strings.Contains(got, "subnews 1.2.3 (commit: abc123") {
		t.Errorf("unexpected version output: %q", got)
	}
}

type stubMaintainer struct {
	openedErr error
	pruned    int64
	pruneErr  error
	maxAge    time.Duration
}

func (s *stubMaintainer) SetLastOpened() error { return s.openedErr }

func (s *stubMaintainer) Prune(maxAge time.Duration) (int64, error) {
	s.maxAge = maxAge
	return s.pruned, s.pruneErr
}

func TestMaintainHistoryLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core).Sugar()

	h := &stubMaintainer{
		openedErr: errors.New("disk full"),
		pruned:    3,
		pruneErr:  errors.New("vacuuming history: database is locked"),
	}
	maintainHistory(h, 48*time.Hour, log)

	if h.maxAge != 48*time.Hour {
		t.Errorf("pruned with %v, want 48h", h.maxAge)
	}
	if n := logs.FilterMessage("recording last opened failed").Len(); n != 1 {
		t.Errorf("expected last-opened failure logged once, got %d", n)
	}
	entries := logs.FilterMessage("auto-prune failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected prune failure logged once, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["deleted"]; got != int64(3) {
		t.Errorf("deleted = %v, want 3", got)
	}
}

func TestMaintainHistoryQuietOnSuccess(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	maintainHistory(&stubMaintainer{}, time.Hour, zap.New(core).Sugar())
	if logs.Len() != 0 {
		t.Errorf("expected no warnings, got %d", logs.Len())
	}
}

func TestFetchFailurePrintsNoUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	t.Setenv("SUBNEWS_BASE_URL", srv.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"fetch", "doesnotexist", "--config", filepath.Join(t.TempDir(), "config.yaml")})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	if err == nil || err.Error() != "Subreddit not found" {
		t.Fatalf("expected %q, got %v", "Subreddit not found", err)
	}
	if strings.Contains(out.String(), "Usage:") {
		t.Errorf("usage printed after a fetch failure:\n%s", out.String())
	}
}
