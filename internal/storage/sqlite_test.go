package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/vovakirdan/fejd/internal/config"
	"github.com/vovakirdan/fejd/internal/engine"
	"github.com/vovakirdan/fejd/internal/fixed"
	"github.com/vovakirdan/fejd/internal/replay"
	"github.com/vovakirdan/fejd/internal/world"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testResult() engine.Result {
	return engine.Result{
		ID:      uuid.New(),
		Seed:    0xfedcba9876543210,
		Map:     "quad",
		Players: 2,
		Ticks:   480,
		Hash:    0x8000000000000001,
		Scores: []engine.Score{
			{Slot: 0, Kills: 3, Deaths: 1},
			{Slot: 1, Kills: 1, Deaths: 3},
		},
	}
}

func testReplay(id uuid.UUID) *replay.Replay {
	return &replay.Replay{
		Version: replay.Version,
		ID:      id,
		Seed:    0xfedcba9876543210,
		Players: 2,
		Map: world.Map{
			Name:   "quad",
			Width:  fixed.FromInt(600),
			Height: fixed.FromInt(600),
			Spawns: []world.Spawn{{Point: fixed.VI(100, 100), Direction: fixed.East}},
		},
		Rules:  config.DefaultRules(),
		Frames: [][][]world.Command{{nil, {world.Fire}}, {{world.Accelerate}, nil}},
		Hash:   0x8000000000000001,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndLoadMatch(t *testing.T) {
	store := openTestStore(t)
	res := testResult()

	if _, err := store.SaveMatch(RecordFromResult(res), testReplay(res.ID)); err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}

	rec, err := store.Match(res.ID.String())
	if err != nil {
		t.Fatalf("Match() failed: %v", err)
	}
	if rec.Seed != res.Seed || rec.Hash != res.Hash {
		t.Errorf("seed/hash = %x/%x, expected %x/%x", rec.Seed, rec.Hash, res.Seed, res.Hash)
	}
	if rec.Map != "quad" || rec.Players != 2 || rec.Ticks != 480 || !rec.HasReplay {
		t.Errorf("Match() = %+v", rec)
	}
	if len(rec.Scores) != 2 || rec.Scores[0] != (ScoreEntry{Slot: 0, Kills: 3, Deaths: 1}) {
		t.Errorf("Scores = %+v", rec.Scores)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	rep, err := store.Replay(res.ID.String())
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if rep.ID != res.ID || rep.Ticks() != 2 || rep.Frames[0][1][0] != world.Fire {
		t.Errorf("Replay() = %+v", rep)
	}
	if rep.Map.Spawns[0].Direction != fixed.East {
		t.Errorf("replay map lost its spawns: %+v", rep.Map)
	}
}

func TestSaveMatchWithoutReplay(t *testing.T) {
	store := openTestStore(t)
	res := testResult()

	if _, err := store.SaveMatch(RecordFromResult(res), nil); err != nil {
		t.Fatal(err)
	}
	rec, err := store.Match(res.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	if rec.HasReplay {
		t.Error("HasReplay should be false")
	}
	if _, err := store.Replay(res.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replay() error = %v, expected ErrNotFound", err)
	}

	if _, err := store.SaveMatch(RecordFromResult(res), nil); err == nil {
		t.Error("saving the same match twice should fail")
	}
}

func TestMatchNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Match("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Match() error = %v, expected ErrNotFound", err)
	}
	if err := store.DeleteMatch("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteMatch() error = %v, expected ErrNotFound", err)
	}
}

func TestRecentMatchesAndStats(t *testing.T) {
	store := openTestStore(t)

	var ids []string
	for range 3 {
		res := testResult()
		ids = append(ids, res.ID.String())
		if _, err := store.SaveMatch(RecordFromResult(res), nil); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := store.RecentMatches(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].MatchID != ids[2] || recent[1].MatchID != ids[1] {
		t.Errorf("RecentMatches(2) = %+v, expected the last two saved, newest first", recent)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Matches != 3 || stats.TotalTicks != 3*480 || stats.TotalKills != 12 {
		t.Errorf("Stats() = %+v", stats)
	}

	if err := store.DeleteMatch(ids[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Match(ids[0]); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted match still found: %v", err)
	}
}
