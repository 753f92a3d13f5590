package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, profile string) *Store {
	t.Helper()
	s, err := Open(":memory:", profile)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReadState(t *testing.T) {
	s := openTestStore(t, "local")

	seq, err := s.LastRead("general")
	if err != nil {
		t.Fatalf("LastRead: %v", err)
	}
	if seq != 0 {
		t.Errorf("unopened channel LastRead = %d, want 0", seq)
	}

	if err := s.MarkRead("general", 42); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if seq, _ = s.LastRead("general"); seq != 42 {
		t.Errorf("LastRead = %d, want 42", seq)
	}

	// Lower seq is ignored, higher advances
	if err := s.MarkRead("general", 10); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if seq, _ = s.LastRead("general"); seq != 42 {
		t.Errorf("LastRead after lower mark = %d, want 42", seq)
	}
	if err := s.MarkRead("general", 100); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if seq, _ = s.LastRead("general"); seq != 100 {
		t.Errorf("LastRead after higher mark = %d, want 100", seq)
	}
}

func TestLastReads(t *testing.T) {
	s := openTestStore(t, "local")

	s.MarkRead("general", 5)
	s.MarkRead("dev", 17)

	all, err := s.LastReads()
	if err != nil {
		t.Fatalf("LastReads: %v", err)
	}
	if len(all) != 2 || all["general"] != 5 || all["dev"] != 17 {
		t.Errorf("LastReads = %v", all)
	}
}

func TestDrafts(t *testing.T) {
	s := openTestStore(t, "local")

	if _, err := s.Draft("general"); !errors.Is(err, ErrNoDraft) {
		t.Errorf("Draft on empty = %v, want ErrNoDraft", err)
	}

	if err := s.SaveDraft("general", "half-written message"); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	body, err := s.Draft("general")
	if err != nil || body != "half-written message" {
		t.Errorf("Draft = %q, %v", body, err)
	}

	// Overwrite
	s.SaveDraft("general", "rewritten")
	if body, _ := s.Draft("general"); body != "rewritten" {
		t.Errorf("Draft after overwrite = %q", body)
	}

	// Empty body deletes
	s.SaveDraft("general", "")
	if _, err := s.Draft("general"); !errors.Is(err, ErrNoDraft) {
		t.Errorf("Draft after empty save = %v, want ErrNoDraft", err)
	}
}

func TestPrefs(t *testing.T) {
	s := openTestStore(t, "local")

	p, err := s.ChannelPrefs("general")
	if err != nil {
		t.Fatalf("ChannelPrefs: %v", err)
	}
	if p.Muted || p.MentionOnly {
		t.Errorf("default prefs = %+v, want all off", p)
	}

	if err := s.SavePrefs("general", Prefs{Muted: true, MentionOnly: true}); err != nil {
		t.Fatalf("SavePrefs: %v", err)
	}
	p, _ = s.ChannelPrefs("general")
	if !p.Muted || !p.MentionOnly {
		t.Errorf("prefs = %+v, want both on", p)
	}
}

func TestProfileIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	a, err := Open(path, "work")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	a.MarkRead("general", 50)
	a.SaveDraft("general", "work draft")
	a.Close()

	b, err := Open(path, "home")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	if seq, _ := b.LastRead("general"); seq != 0 {
		t.Errorf("other profile sees LastRead = %d, want 0", seq)
	}
	if _, err := b.Draft("general"); !errors.Is(err, ErrNoDraft) {
		t.Errorf("other profile sees draft: %v", err)
	}
}
