package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEntries() []Entry {
	now := time.Now()
	return []Entry{
		{Subreddit: "golang", OK: true, PostCount: 25, QueriedAt: now.Add(-48 * time.Hour)},
		{Subreddit: "rust", OK: true, PostCount: 25, QueriedAt: now.Add(-2 * time.Hour)},
		{Subreddit: "doesnotexist", OK: false, Message: "Subreddit not found", QueriedAt: now.Add(-1 * time.Hour)},
	}
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	for _, e := range sampleEntries() {
		if err := s.Record(e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	got, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	// Newest first
	if got[0].Subreddit != "doesnotexist" {
		t.Errorf("expected newest first, got %s", got[0].Subreddit)
	}
	if got[0].OK || got[0].Message != "Subreddit not found" {
		t.Errorf("failed query not preserved: %+v", got[0])
	}
	if !got[1].OK || got[1].PostCount != 25 {
		t.Errorf("successful query not preserved: %+v", got[1])
	}
}

func TestRecentLimit(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	got, err := s.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 entry with limit, got %d", len(got))
	}
}

func TestRecordStampsTime(t *testing.T) {
	s := testStore(t)
	if err := s.Record(Entry{Subreddit: "golang", OK: true}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, _ := s.Recent(1)
	if len(got) != 1 || time.Since(got[0].QueriedAt) > 5*time.Second {
		t.Errorf("expected a fresh timestamp, got %+v", got)
	}
}

func TestLastSubreddit(t *testing.T) {
	s := testStore(t)

	name, err := s.LastSubreddit()
	if err != nil {
		t.Fatalf("LastSubreddit on empty db: %v", err)
	}
	if name != "" {
		t.Errorf("expected empty name, got %q", name)
	}

	seed(t, s)
	name, err = s.LastSubreddit()
	if err != nil {
		t.Fatalf("LastSubreddit: %v", err)
	}
	// The newest entry failed, so the last successful one wins
	if name != "rust" {
		t.Errorf("expected rust, got %q", name)
	}
}

func TestPruneDeletesOldEntries(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	deleted, err := s.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned, got %d", deleted)
	}

	got, _ := s.Recent(10)
	if len(got) != 2 {
		t.Errorf("expected 2 remaining entries, got %d", len(got))
	}
}

func TestPruneClosedStoreFails(t *testing.T) {
	s := testStore(t)
	seed(t, s)
	s.Close()

	if _, err := s.Prune(24 * time.Hour); err == nil {
		t.Error("expected error pruning a closed store")
	}
}

func TestPruneNothingToDelete(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	deleted, err := s.Prune(365 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 pruned, got %d", deleted)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	seed(t, s)

	count, size, err := s.Stats(dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
	if size == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestLastOpened(t *testing.T) {
	s := testStore(t)

	if _, err := s.GetLastOpened(); err == nil {
		t.Error("expected error when no last_opened set")
	}

	if err := s.SetLastOpened(); err != nil {
		t.Fatalf("SetLastOpened: %v", err)
	}
	got, err := s.GetLastOpened()
	if err != nil {
		t.Fatalf("GetLastOpened: %v", err)
	}
	if time.Since(got) > 2*time.Second {
		t.Errorf("last opened too old: %v", got)
	}
}

func TestOpenCreatesDir(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "deep", "test.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening db in nested dir: %v", err)
	}
	s.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}
