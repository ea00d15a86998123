package storage

import (
	"os"
	"path/filepath"
	"testing"

	"go.creack.net/melee/tournament"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "melee.db"))
	if err != nil {
		t.Fatalf("Open: %s", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "melee.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file: %s", err)
	}
}

func TestSaveAndLoadCompetition(t *testing.T) {
	s := openStore(t)

	rows := []tournament.Row{
		{Warrior: "dwarf", Team: "diggers", Score: 420, Wins: 4, Losses: 1},
		{Warrior: "imp", Score: 120, Wins: 1, Losses: 3, Draws: 1},
	}
	id, err := s.SaveCompetition("nightly", 42, rows)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Standings(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0] != rows[0] || got[1] != rows[1] {
		t.Errorf("rows = %+v, want %+v", got, rows)
	}

	latest, ok, err := s.Latest()
	if err != nil || !ok {
		t.Fatalf("Latest: ok=%t err=%v", ok, err)
	}
	if latest.ID != id || latest.Label != "nightly" || latest.Seed != 42 {
		t.Errorf("latest = %+v", latest)
	}
}

func TestLatestOnEmptyStore(t *testing.T) {
	s := openStore(t)
	if _, ok, err := s.Latest(); ok || err != nil {
		t.Errorf("empty store: ok=%t err=%v", ok, err)
	}
}

func TestCompetitionsNewestFirst(t *testing.T) {
	s := openStore(t)
	if _, err := s.SaveCompetition("first", 1, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveCompetition("second", 2, nil); err != nil {
		t.Fatal(err)
	}
	all, err := s.Competitions()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Label != "second" || all[1].Label != "first" {
		t.Errorf("competitions = %+v", all)
	}
}
