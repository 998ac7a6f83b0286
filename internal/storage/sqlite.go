// Package storage provides SQLite-based persistence for finished matches
// and their replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/fejd/internal/engine"
	"github.com/vovakirdan/fejd/internal/replay"
)

// ErrNotFound is returned when a match or replay does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry is the tally of one slot in a stored match.
type ScoreEntry struct {
	Slot   int
	Kills  int
	Deaths int
}

// MatchRecord is a finished match.
type MatchRecord struct {
	ID        int64
	MatchID   string
	Seed      uint64
	Map       string
	Players   int
	Ticks     uint64
	Hash      uint64
	Scores    []ScoreEntry
	HasReplay bool
	CreatedAt time.Time
}

// RecordFromResult converts an engine result into a storable record.
func RecordFromResult(r engine.Result) MatchRecord {
	rec := MatchRecord{
		MatchID: r.ID.String(),
		Seed:    r.Seed,
		Map:     r.Map,
		Players: r.Players,
		Ticks:   r.Ticks,
		Hash:    r.Hash,
	}
	for _, s := range r.Scores {
		rec.Scores = append(rec.Scores, ScoreEntry{Slot: s.Slot, Kills: s.Kills, Deaths: s.Deaths})
	}
	return rec
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
// Seeds and hashes are stored as hex text since SQLite integers are signed.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			seed TEXT NOT NULL,
			map TEXT NOT NULL,
			players INTEGER NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);

		CREATE TABLE IF NOT EXISTS match_scores (
			match_id TEXT NOT NULL REFERENCES matches(match_id) ON DELETE CASCADE,
			slot INTEGER NOT NULL,
			kills INTEGER NOT NULL DEFAULT 0,
			deaths INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (match_id, slot)
		);

		CREATE TABLE IF NOT EXISTS replays (
			match_id TEXT PRIMARY KEY REFERENCES matches(match_id) ON DELETE CASCADE,
			data BLOB NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished match with its scores and, if rep is not
// nil, its replay. Returns the ID of the inserted record.
func (s *Store) SaveMatch(rec MatchRecord, rep *replay.Replay) (int64, error) {
	var blob []byte
	if rep != nil {
		var buf bytes.Buffer
		if err := replay.Encode(&buf, *rep); err != nil {
			return 0, fmt.Errorf("storage: cannot save match: %w", err)
		}
		blob = buf.Bytes()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after Commit

	res, err := tx.Exec(
		`INSERT INTO matches (match_id, seed, map, players, ticks, hash)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.MatchID, formatHex(rec.Seed), rec.Map, rec.Players, int64(rec.Ticks), formatHex(rec.Hash), //#nosec G115 -- tick counts fit
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	for _, sc := range rec.Scores {
		if _, err := tx.Exec(
			"INSERT INTO match_scores (match_id, slot, kills, deaths) VALUES (?, ?, ?, ?)",
			rec.MatchID, sc.Slot, sc.Kills, sc.Deaths,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save score: %w", err)
		}
	}

	if blob != nil {
		if _, err := tx.Exec("INSERT INTO replays (match_id, data) VALUES (?, ?)", rec.MatchID, blob); err != nil {
			return 0, fmt.Errorf("storage: cannot save replay: %w", err)
		}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit match: %w", err)
	}
	return id, nil
}

const matchColumns = `m.id, m.match_id, m.seed, m.map, m.players, m.ticks, m.hash,
	(SELECT COUNT(*) FROM replays r WHERE r.match_id = m.match_id), m.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (MatchRecord, error) {
	var rec MatchRecord
	var seed, hash string
	var ticks int64
	var replays int
	var createdAt any

	if err := row.Scan(&rec.ID, &rec.MatchID, &seed, &rec.Map, &rec.Players, &ticks, &hash, &replays, &createdAt); err != nil {
		return MatchRecord{}, err
	}

	var err error
	if rec.Seed, err = parseHex(seed); err != nil {
		return MatchRecord{}, err
	}
	if rec.Hash, err = parseHex(hash); err != nil {
		return MatchRecord{}, err
	}
	rec.Ticks = uint64(ticks) //#nosec G115 -- stored from a uint64
	rec.HasReplay = replays > 0
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// Match retrieves a match by its match ID.
func (s *Store) Match(matchID string) (*MatchRecord, error) {
	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM matches m WHERE m.match_id = ?`, matchID)
	rec, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}

	if rec.Scores, err = s.scores(matchID); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) scores(matchID string) ([]ScoreEntry, error) {
	rows, err := s.db.Query(
		"SELECT slot, kills, deaths FROM match_scores WHERE match_id = ? ORDER BY slot",
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.Slot, &e.Kills, &e.Deaths); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// RecentMatches retrieves the most recent matches, newest first. Scores
// are not loaded.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+` FROM matches m ORDER BY m.created_at DESC, m.id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// Replay loads the replay of a match.
func (s *Store) Replay(matchID string) (replay.Replay, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM replays WHERE match_id = ?", matchID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return replay.Replay{}, fmt.Errorf("replay %s: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return replay.Replay{}, fmt.Errorf("storage: cannot query replay: %w", err)
	}

	rep, err := replay.Decode(bytes.NewReader(data))
	if err != nil {
		return replay.Replay{}, fmt.Errorf("storage: %w", err)
	}
	return rep, nil
}

// DeleteMatch removes a match, its scores and its replay.
func (s *Store) DeleteMatch(matchID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after Commit

	for _, q := range []string{
		"DELETE FROM replays WHERE match_id = ?",
		"DELETE FROM match_scores WHERE match_id = ?",
	} {
		if _, err := tx.Exec(q, matchID); err != nil {
			return fmt.Errorf("storage: cannot delete match: %w", err)
		}
	}

	res, err := tx.Exec("DELETE FROM matches WHERE match_id = ?", matchID)
	if err != nil {
		return fmt.Errorf("storage: cannot delete match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	return tx.Commit()
}

// MatchStats contains aggregated statistics over all stored matches.
type MatchStats struct {
	Matches    int
	TotalTicks int64
	TotalKills int64
	LastPlayed time.Time
}

// Stats retrieves aggregated statistics.
func (s *Store) Stats() (*MatchStats, error) {
	stats := &MatchStats{}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(ticks), 0), MAX(created_at) FROM matches`,
	).Scan(&stats.Matches, &stats.TotalTicks, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get match stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	err = s.db.QueryRow(`SELECT COALESCE(SUM(kills), 0) FROM match_scores`).Scan(&stats.TotalKills)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get kill stats: %w", err)
	}
	return stats, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func formatHex(v uint64) string {
	return fmt.Sprintf("%016x", v)
}

func parseHex(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("storage: bad hex value %q: %w", s, err)
	}
	return v, nil
}
