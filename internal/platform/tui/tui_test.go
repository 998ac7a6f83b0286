package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fejd/internal/config"
	"github.com/vovakirdan/fejd/internal/core"
	"github.com/vovakirdan/fejd/internal/engine"
	"github.com/vovakirdan/fejd/internal/maps"
	"github.com/vovakirdan/fejd/internal/render"
	"github.com/vovakirdan/fejd/internal/session"
	"github.com/vovakirdan/fejd/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapAction(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionRotateLeft},
		{runes("d"), core.ActionRotateRight},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionThrust},
		{runes("s"), core.ActionBrake},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionFire},
		{runes("x"), core.ActionSelfDestruct},
		{tea.KeyMsg{Type: tea.KeyF3}, core.ActionDebug},
		{runes("+"), core.ActionFaster},
		{runes("-"), core.ActionSlower},
		{runes("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runes("z"), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			if got := keys.Action(tt.msg); got != tt.want {
				t.Errorf("Action(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func newTestMatch(t *testing.T, store *storage.Store) MatchModel {
	t.Helper()
	cfg := config.Default()
	cfg.Match.Players = 2
	cfg.Match.Map = "duel"
	m, err := NewMatchModel(MatchOptions{
		Setup: session.Setup{
			Config: cfg,
			Map:    maps.Duel(),
			Seed:   3,
			Local:  0,
		},
		Store:   store,
		Runtime: core.DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("NewMatchModel() error = %v", err)
	}
	return m
}

func updateMatch(t *testing.T, m MatchModel, msg tea.Msg) (MatchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(MatchModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return mm, cmd
}

func TestMatchModelPlaysAndSaves(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "fejd.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	m := newTestMatch(t, store)
	period := m.engine.Period()
	start := time.Unix(1000, 0)

	m, cmd := updateMatch(t, m, FrameMsg(start))
	if cmd == nil {
		t.Fatal("a running match must schedule the next frame")
	}
	m, _ = updateMatch(t, m, runes("w"))
	if !m.input.Has(core.ActionThrust) {
		t.Fatal("thrust key was not captured")
	}

	m, _ = updateMatch(t, m, FrameMsg(start.Add(period)))
	if m.engine.Tick() != 1 {
		t.Fatalf("Tick() = %d after one period, expected 1", m.engine.Tick())
	}
	if !m.input.Empty() {
		t.Error("input must be cleared once a tick ran")
	}
	if view := m.View(); !strings.Contains(view, "P1") || !strings.Contains(view, "thrust") {
		t.Errorf("match view lacks HUD or help:\n%s", view)
	}

	m, _ = updateMatch(t, m, runes("q"))
	m, cmd = updateMatch(t, m, FrameMsg(start.Add(2*period)))
	if cmd != nil {
		t.Error("a finished match must stop scheduling frames")
	}
	res, ok := m.Result()
	if !ok || res.Ticks != 1 {
		t.Fatalf("Result() = %+v, %v", res, ok)
	}
	if !strings.Contains(m.View(), "MATCH OVER") {
		t.Error("result screen missing")
	}

	recent, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches() error = %v", err)
	}
	if len(recent) != 1 || recent[0].MatchID != res.ID.String() {
		t.Fatalf("stored matches = %+v", recent)
	}

	m, cmd = updateMatch(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.IsQuitting() || cmd == nil {
		t.Error("leaving the result screen of a standalone match should quit")
	}
}

func TestMatchModelRequests(t *testing.T) {
	m := newTestMatch(t, nil)
	tps := m.tps

	m, _ = updateMatch(t, m, runes("+"))
	m, _ = updateMatch(t, m, tea.KeyMsg{Type: tea.KeyF3})
	m, _ = updateMatch(t, m, FrameMsg(time.Unix(0, 0)))

	if m.tps != tps*2 {
		t.Errorf("tps = %d, expected %d", m.tps, tps*2)
	}
	if want := time.Second / time.Duration(tps*2); m.engine.Period() != want {
		t.Errorf("Period() = %v, expected %v", m.engine.Period(), want)
	}
	if !m.engine.Debug() {
		t.Error("debug toggle was not applied")
	}
	if m.fx.overlay().Message != "hulls on" {
		t.Errorf("overlay message = %q", m.fx.overlay().Message)
	}

	for range 10 {
		m, _ = updateMatch(t, m, runes("-"))
	}
	if m.tps != minTicksPerSecond {
		t.Errorf("tps = %d, expected the floor %d", m.tps, minTicksPerSecond)
	}
}

func TestEffects(t *testing.T) {
	fx := newEffects()
	fx.play(engine.CueFire)
	if ov := fx.overlay(); ov.Flash != core.ColorDefault {
		t.Errorf("firing should not flash, got %v", ov.Flash)
	}

	fx.play(engine.CueExplosion)
	fx.play(engine.CueHit)
	if ov := fx.overlay(); ov.Flash != core.ColorOrange {
		t.Errorf("a shorter flash must not cut the explosion, got %v", ov.Flash)
	}
	for range 2 * flashFrames {
		fx.decay()
	}
	if ov := fx.overlay(); ov.Flash != core.ColorDefault {
		t.Errorf("flash should fade, got %v", ov.Flash)
	}

	fx.HandleNotice(engine.Stalled{Tick: 2, Missing: []int{1, 3}})
	for range 2 * messageFrames {
		fx.decay()
	}
	if got := fx.overlay().Message; got != "waiting for P2, P4" {
		t.Errorf("stall message = %q", got)
	}
	fx.HandleStep(engine.Step{Tick: 2})
	for range messageFrames {
		fx.decay()
	}
	if got := fx.overlay().Message; got != "" {
		t.Errorf("message should fade once the match resumes, got %q", got)
	}
}

func sendSession(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return sm
}

func TestSessionModelFlow(t *testing.T) {
	m := NewSessionModel(SessionOptions{
		Match:   config.Default(),
		Runtime: core.DefaultConfig(),
		User:    "tester",
	})
	if !strings.Contains(m.View(), "Duel") {
		t.Fatalf("menu does not list the maps:\n%s", m.View())
	}

	m = sendSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.current != screenMatch || m.match == nil {
		t.Fatalf("enter should start a match, status %q", m.status)
	}
	if got := m.match.engine.View().Ships; len(got) != 2 {
		t.Errorf("duel started with %d ships, expected 2", len(got))
	}

	m = sendSession(t, m, runes("q"))
	m = sendSession(t, m, FrameMsg(time.Unix(0, 0)))
	if _, done := m.match.Result(); !done {
		t.Fatal("quit should end the match")
	}
	m = sendSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.current != screenMenu || m.quitting {
		t.Fatal("leaving the result screen should return to the menu")
	}

	m = sendSession(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.current != screenHistory {
		t.Fatal("tab should open the history")
	}
	if !strings.Contains(m.View(), "not available") {
		t.Errorf("history without a store:\n%s", m.View())
	}
	m = sendSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.current != screenMenu {
		t.Fatal("esc should return to the menu")
	}

	m = sendSession(t, m, runes("q"))
	if !m.quitting {
		t.Error("q in the menu should quit")
	}
}

func TestMenuPlayers(t *testing.T) {
	m := NewMenuModel(8, 80)
	if len(m.items) == 0 {
		t.Fatal("no maps registered")
	}
	for _, item := range m.items {
		if item.Players != item.MaxPlayers {
			t.Errorf("%s: players = %d, expected the map cap %d", item.Map, item.Players, item.MaxPlayers)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(MenuModel)
	if got, want := m.items[0].Players, m.items[0].MaxPlayers-1; got != want {
		t.Errorf("players after left = %d, expected %d", got, want)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(MenuModel)
	if got := m.items[0].Players; got != m.items[0].MaxPlayers {
		t.Errorf("players must not exceed the map cap, got %d", got)
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawTextColor(0, 0, "fejd", core.ColorCyan)
	s.DrawText(5, 0, "ok")
	s.DrawTextColor(0, 1, "P1", render.SlotColor(0))

	out := RenderScreen(s)
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Fatalf("RenderScreen() has %d lines, expected 2", len(lines))
	}
	for _, want := range []string{"fejd", "ok", "P1"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen() lost %q: %q", want, out)
		}
	}
}

func TestSlotStyleColor(t *testing.T) {
	tests := []struct {
		slot int
		want lipgloss.TerminalColor
	}{
		{0, lipgloss.Color("6")},
		{1, lipgloss.Color("3")},
		{-1, lipgloss.NoColor{}},
	}
	for _, tc := range tests {
		if got := slotStyleColor(tc.slot); got != tc.want {
			t.Errorf("slotStyleColor(%d) = %v, expected %v", tc.slot, got, tc.want)
		}
	}
}
