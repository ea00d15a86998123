// Package storage persists competition standings in SQLite, using the
// pure-Go modernc.org/sqlite driver to stay CGO-free.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"go.creack.net/melee/tournament"
)

// Store manages the database connection.
type Store struct {
	db *sql.DB
}

// CompetitionInfo is one recorded competition run.
type CompetitionInfo struct {
	ID        int64
	Label     string
	Seed      int64
	CreatedAt time.Time
}

// Open creates or opens the database at path, creating parent
// directories and running migrations as needed.
func Open(path string) (*Store, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: connect: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS competitions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT NOT NULL,
			seed INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS standings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			competition_id INTEGER NOT NULL REFERENCES competitions(id),
			warrior TEXT NOT NULL,
			team TEXT NOT NULL,
			score REAL NOT NULL,
			wins INTEGER NOT NULL,
			losses INTEGER NOT NULL,
			draws INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_standings_competition
			ON standings(competition_id, score DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

// SaveCompetition records one competition's final rows in a single
// transaction and returns the competition id.
func (s *Store) SaveCompetition(label string, seed int64, rows []tournament.Row) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO competitions (label, seed) VALUES (?, ?)", label, seed)
	if err != nil {
		return 0, fmt.Errorf("storage: insert competition: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: competition id: %w", err)
	}
	for _, r := range rows {
		if _, err := tx.Exec(
			"INSERT INTO standings (competition_id, warrior, team, score, wins, losses, draws) VALUES (?, ?, ?, ?, ?, ?, ?)",
			id, r.Warrior, r.Team, r.Score, r.Wins, r.Losses, r.Draws,
		); err != nil {
			return 0, fmt.Errorf("storage: insert standing for %q: %w", r.Warrior, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: commit: %w", err)
	}
	return id, nil
}

// Standings returns one competition's rows, best score first.
func (s *Store) Standings(competitionID int64) ([]tournament.Row, error) {
	rows, err := s.db.Query(
		"SELECT warrior, team, score, wins, losses, draws FROM standings WHERE competition_id = ? ORDER BY score DESC, warrior ASC",
		competitionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: query standings: %w", err)
	}
	defer rows.Close()

	var out []tournament.Row
	for rows.Next() {
		var r tournament.Row
		if err := rows.Scan(&r.Warrior, &r.Team, &r.Score, &r.Wins, &r.Losses, &r.Draws); err != nil {
			return nil, fmt.Errorf("storage: scan standing: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Competitions lists recorded competitions, newest first.
func (s *Store) Competitions() ([]CompetitionInfo, error) {
	rows, err := s.db.Query("SELECT id, label, seed, created_at FROM competitions ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("storage: query competitions: %w", err)
	}
	defer rows.Close()

	var out []CompetitionInfo
	for rows.Next() {
		var c CompetitionInfo
		if err := rows.Scan(&c.ID, &c.Label, &c.Seed, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage: scan competition: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Latest returns the most recent competition, or false when the store
// is empty.
func (s *Store) Latest() (CompetitionInfo, bool, error) {
	all, err := s.Competitions()
	if err != nil || len(all) == 0 {
		return CompetitionInfo{}, false, err
	}
	return all[0], true, nil
}
