// Package session assembles a playable match: the engine, simulated peers
// for the slots nobody sits in, a replay recorder and the log handler.
package session

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fejd/internal/config"
	"github.com/vovakirdan/fejd/internal/engine"
	"github.com/vovakirdan/fejd/internal/multiplayer"
	"github.com/vovakirdan/fejd/internal/replay"
	"github.com/vovakirdan/fejd/internal/storage"
	"github.com/vovakirdan/fejd/internal/world"
)

// DefaultMaxLag is the arrival lag of simulated peers, in polls.
const DefaultMaxLag = 2

// Setup describes a match to assemble.
type Setup struct {
	Config    config.Config
	Map       world.Map
	Seed      uint64
	Local     int // Seat of the terminal player, or engine.NoLocal
	MaxLag    int
	TickLimit uint64
	Logger    *log.Logger
	Handlers  []engine.Handler // Extra sinks, called after the recorder
}

// Session is one assembled match.
type Session struct {
	engine   *engine.Engine
	recorder *replay.Recorder
	logger   *log.Logger
}

// New assembles a match. Every slot other than Local is played by a bot.
func New(s Setup) (*Session, error) {
	players := s.Config.Match.Players
	recorder := replay.NewRecorder(s.Config.Rules, s.Map, players, s.Seed)

	handlers := []engine.Handler{recorder}
	if s.Logger != nil {
		handlers = append(handlers, engine.NewLogHandler(s.Logger))
	}
	handlers = append(handlers, s.Handlers...)

	e, err := engine.New(engine.Options{
		Config:    s.Config,
		Map:       s.Map,
		Seed:      s.Seed,
		Local:     s.Local,
		Peers:     multiplayer.Bots(players, s.Local, s.Config.Engine.CommandDelay, s.MaxLag, s.Seed),
		Handlers:  handlers,
		Logger:    s.Logger,
		TickLimit: s.TickLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	return &Session{engine: e, recorder: recorder, logger: s.Logger}, nil
}

// Engine returns the match engine.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// Replay returns the recording of the match so far.
func (s *Session) Replay() replay.Replay {
	return s.recorder.Replay()
}

// Save stores the finished match with its replay. It does nothing for a
// nil store or a match that has not ended.
func (s *Session) Save(store *storage.Store) error {
	if store == nil || !s.engine.Done() {
		return nil
	}
	rep := s.recorder.Replay()
	if _, err := store.SaveMatch(storage.RecordFromResult(s.engine.Result()), &rep); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("match saved", "match", s.engine.ID(), "ticks", rep.Ticks())
	}
	return nil
}
