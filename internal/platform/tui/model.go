package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fejd/internal/core"
	"github.com/vovakirdan/fejd/internal/engine"
	"github.com/vovakirdan/fejd/internal/render"
	"github.com/vovakirdan/fejd/internal/session"
	"github.com/vovakirdan/fejd/internal/storage"
)

// Tick rate bounds for the faster/slower keys.
const (
	minTicksPerSecond = 2
	maxTicksPerSecond = 128
)

// MatchOptions configures a match view.
type MatchOptions struct {
	Setup   session.Setup
	Store   *storage.Store // Finished matches are saved here when set
	Runtime core.RuntimeConfig
}

// MatchModel is the Bubble Tea model that plays one match.
type MatchModel struct {
	session  *session.Session
	engine   *engine.Engine
	store    *storage.Store
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	input    core.InputFrame
	fx       *effects
	local    int
	tps      int
	height   int // Terminal rows, shared by the arena and the help footer
	last     time.Time
	result   *engine.Result
	saveErr  error
	embedded bool // Owned by a SessionModel, so leaving does not quit
	back     bool
	quitting bool
}

// NewMatchModel assembles the match and its view.
func NewMatchModel(opts MatchOptions) (MatchModel, error) {
	fx := newEffects()
	setup := opts.Setup
	setup.Handlers = append(slices.Clone(setup.Handlers), fx)

	s, err := session.New(setup)
	if err != nil {
		return MatchModel{}, err
	}

	return MatchModel{
		session: s,
		engine:  s.Engine(),
		store:   opts.Store,
		screen:  core.NewScreen(opts.Runtime.ScreenW, max(opts.Runtime.ScreenH-1, 0)),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   core.NewInputFrame(),
		fx:      fx,
		local:   setup.Local,
		tps:     setup.Config.Engine.TicksPerSecond,
		height:  opts.Runtime.ScreenH,
	}, nil
}

// Init starts the frame loop.
func (m MatchModel) Init() tea.Cmd {
	return frameCmd(DefaultFrameRate)
}

// Update handles messages and updates the model state.
func (m MatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.result != nil {
			return m.handleResultKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 0))
		return m, nil

	case FrameMsg:
		return m.handleFrame(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input during the match.
func (m MatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch a := m.keys.Action(msg); a {
	case core.ActionQuit:
		m.engine.Exit()
	case core.ActionDebug:
		m.engine.SetDebug(!m.engine.Debug())
	case core.ActionFaster:
		m.tps = min(m.tps*2, maxTicksPerSecond)
		m.engine.SetTicksPerSecond(m.tps)
	case core.ActionSlower:
		m.tps = max(m.tps/2, minTicksPerSecond)
		m.engine.SetTicksPerSecond(m.tps)
	default:
		m.input.Set(a)
	}
	return m, nil
}

// handleResultKey leaves the result screen.
func (m MatchModel) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter", "esc", "b", " ":
		if m.embedded {
			m.back = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleFrame feeds elapsed wall time and the held keys to the engine.
func (m MatchModel) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.result != nil {
		return m, nil
	}

	var elapsed time.Duration
	if !m.last.IsZero() {
		elapsed = now.Sub(m.last)
	}
	m.last = now

	m.engine.SetInput(m.input.Commands()...)
	if f := m.engine.Frame(elapsed); f.Steps > 0 {
		m.input.Clear()
	}
	m.fx.decay()

	if m.engine.Done() {
		m.finish()
		return m, nil
	}
	return m, frameCmd(DefaultFrameRate)
}

// finish captures the result and stores the match.
func (m *MatchModel) finish() {
	res := m.engine.Result()
	m.result = &res
	m.saveErr = m.session.Save(m.store)
}

// View renders the current state to a string for display.
func (m MatchModel) View() string {
	if m.quitting {
		return ""
	}
	if m.result != nil {
		return m.resultView()
	}

	helpView := helpStyle.Render(m.help.View(m.keys))
	m.screen.Resize(m.screen.Width(), max(m.height-lipgloss.Height(helpView), 0))

	render.Draw(m.screen, m.engine.View(), m.fx.overlay())
	return RenderScreen(m.screen) + "\n" + helpView
}

var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 3)
)

// resultView renders the final scores.
func (m MatchModel) resultView() string {
	r := m.result
	var b strings.Builder

	b.WriteString(titleStyle.Render("MATCH OVER"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s   %s %d   %s %016x\n\n",
		labelStyle.Render("map"), r.Map,
		labelStyle.Render("ticks"), r.Ticks,
		labelStyle.Render("hash"), r.Hash)

	scores := slices.Clone(r.Scores)
	slices.SortStableFunc(scores, func(a, b engine.Score) int {
		if c := cmp.Compare(b.Kills, a.Kills); c != 0 {
			return c
		}
		return cmp.Compare(a.Deaths, b.Deaths)
	})
	for i, s := range scores {
		marker := "  "
		if s.Slot == m.local {
			marker = "> "
		}
		line := fmt.Sprintf("%s%d. P%d  kills %-3d deaths %d", marker, i+1, s.Slot+1, s.Kills, s.Deaths)
		b.WriteString(lipgloss.NewStyle().Foreground(slotStyleColor(s.Slot)).Render(line))
		b.WriteString("\n")
	}

	switch {
	case m.saveErr != nil:
		b.WriteString("\n" + errorStyle.Render("not saved: "+m.saveErr.Error()))
	case m.store != nil:
		b.WriteString("\n" + labelStyle.Render("saved as "+r.ID.String()))
	}

	b.WriteString("\n\n" + helpStyle.Render("enter: continue  q: quit"))
	return resultStyle.Render(b.String())
}

// slotStyleColor returns the terminal color of a player slot.
func slotStyleColor(slot int) lipgloss.TerminalColor {
	if code := render.SlotColor(slot).ANSI(); code != "" {
		return lipgloss.Color(code)
	}
	return lipgloss.NoColor{}
}

// Result returns the match result once the match has ended.
func (m MatchModel) Result() (engine.Result, bool) {
	if m.result == nil {
		return engine.Result{}, false
	}
	return *m.result, true
}

// BackToMenu returns true if user asked to leave the result screen.
func (m MatchModel) BackToMenu() bool {
	return m.back
}

// IsQuitting returns true if user requested to quit entirely.
func (m MatchModel) IsQuitting() bool {
	return m.quitting
}

// Run plays one match in the terminal and returns its result.
func Run(opts MatchOptions) (engine.Result, error) {
	model, err := NewMatchModel(opts)
	if err != nil {
		return engine.Result{}, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return engine.Result{}, err
	}
	if fm, ok := final.(MatchModel); ok {
		if res, done := fm.Result(); done {
			return res, nil
		}
	}
	return model.engine.Result(), nil
}
