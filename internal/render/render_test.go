package render

import (
	"strings"
	"testing"

	"github.com/vovakirdan/fejd/internal/config"
	"github.com/vovakirdan/fejd/internal/core"
	"github.com/vovakirdan/fejd/internal/engine"
	"github.com/vovakirdan/fejd/internal/fixed"
	"github.com/vovakirdan/fejd/internal/world"
)

func testMap() world.Map {
	return world.Map{
		Name:   "test",
		Width:  fixed.FromInt(600),
		Height: fixed.FromInt(600),
		Spawns: []world.Spawn{
			{Point: fixed.VI(100, 100), Direction: fixed.East},
			{Point: fixed.VI(500, 500), Direction: fixed.West},
		},
	}
}

func testView(t *testing.T) engine.View {
	t.Helper()
	w, err := world.New(config.DefaultRules(), testMap(), 2, 1)
	if err != nil {
		t.Fatalf("world.New() error = %v", err)
	}
	return engine.View{
		Alpha:     1,
		Local:     0,
		Map:       w.Map(),
		Ships:     w.Ships(),
		RespawnIn: []int{0, 0},
	}
}

func TestViewport(t *testing.T) {
	// 600x600 in 80x15 cells: 20 units per column, 40 per row
	vp := NewViewport(core.NewRect(1, 1, 80, 15), testMap())

	tests := []struct {
		name     string
		x, y     float64
		col, row int
		ok       bool
	}{
		{"origin", 0, 0, 26, 1, true},
		{"center", 300, 300, 41, 8, true},
		{"far corner", 599.9, 599.9, 55, 15, true},
		{"outside left", -1000, 0, -24, 1, false},
		{"outside bottom", 0, 700, 26, 18, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row, ok := vp.Project(tt.x, tt.y)
			if ok != tt.ok {
				t.Errorf("Project(%v, %v) ok = %v, expected %v", tt.x, tt.y, ok, tt.ok)
			}
			if ok && (col != tt.col || row != tt.row) {
				t.Errorf("Project(%v, %v) = (%d, %d), expected (%d, %d)", tt.x, tt.y, col, row, tt.col, tt.row)
			}
		})
	}

	if b := vp.Bounds(); b != core.NewRect(26, 1, 30, 15) {
		t.Errorf("Bounds() = %+v", b)
	}
}

func TestViewportEmptyArea(t *testing.T) {
	vp := NewViewport(core.Rect{}, testMap())
	if _, _, ok := vp.Project(10, 10); ok {
		t.Error("empty viewport should project nothing")
	}
}

func TestArrow(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   rune
	}{
		{1, 0, '→'},
		{1, 1, '↘'},
		{0, 1, '↓'},
		{-1, 1, '↙'},
		{-1, 0, '←'},
		{-1, -1, '↖'},
		{0, -1, '↑'},
		{1, -1, '↗'},
		{1, 0.1, '→'},
		{-1, -0.01, '←'},
	}
	for _, tt := range tests {
		if got := Arrow(tt.dx, tt.dy); got != tt.want {
			t.Errorf("Arrow(%v, %v) = %q, expected %q", tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestDrawShips(t *testing.T) {
	v := testView(t)
	s := core.NewScreen(80, 24)
	Draw(s, v, Overlay{})

	vp := NewViewport(core.NewRect(0, 0, 80, 23).Inset(1), v.Map)
	for i := range v.Ships {
		ship := &v.Ships[i]
		c := ship.Centroid()
		col, row, ok := vp.Project(c.X.Float64(), c.Y.Float64())
		if !ok {
			t.Fatalf("ship %d projected off screen", i)
		}
		d := ship.Body.Live.Direction
		want := core.Cell{Rune: Arrow(d.X.Float64(), d.Y.Float64()), Color: SlotColor(i)}
		if i == v.Local {
			want.Color = core.ColorBrightWhite
		}
		if got := s.GetCell(col, row); got != want {
			t.Errorf("ship %d cell = %+v, expected %+v", i, got, want)
		}
	}

	if got := s.GetCell(0, 0); got.Rune != '┌' || got.Color != core.ColorGray {
		t.Errorf("frame corner = %+v", got)
	}
}

func TestDrawHUD(t *testing.T) {
	v := testView(t)
	v.Tick = 42
	v.Ships[1].Alive = false
	v.Ships[1].Deaths = 1
	v.Ships[0].Kills = 1
	v.RespawnIn[1] = 12

	s := core.NewScreen(80, 24)
	Draw(s, v, Overlay{})

	hud := s.Row(23)
	for _, want := range []string{"t42", ">P1 1/0 ♥♥♥", "P2 0/1 @12"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q does not contain %q", hud, want)
		}
	}
	if strings.Contains(hud, "[debug]") {
		t.Error("HUD shows debug while it is off")
	}

	// The dead ship leaves no glyph behind
	vp := NewViewport(core.NewRect(0, 0, 80, 23).Inset(1), v.Map)
	c := v.Ships[1].Centroid()
	col, row, _ := vp.Project(c.X.Float64(), c.Y.Float64())
	if got := s.Get(col, row); got != ' ' {
		t.Errorf("dead ship drawn as %q", got)
	}
}

func TestDrawDebugHulls(t *testing.T) {
	v := testView(t)
	v.Debug = true
	s := core.NewScreen(80, 24)
	Draw(s, v, Overlay{})

	if !strings.Contains(s.Row(23), "[debug]") {
		t.Error("HUD should flag debug mode")
	}
	if !strings.ContainsRune(s.String(), glyphCorner) {
		t.Error("debug mode should mark hull corners")
	}
}

func TestDrawOverlay(t *testing.T) {
	v := testView(t)
	s := core.NewScreen(80, 24)
	Draw(s, v, Overlay{Flash: core.ColorRed, Message: "hit"})

	if got := s.GetCell(0, 0).Color; got != core.ColorRed {
		t.Errorf("flash color = %v", got)
	}
	if !strings.Contains(s.Row(0), " hit ") {
		t.Errorf("message missing from %q", s.Row(0))
	}
}

func TestDrawTinyScreen(t *testing.T) {
	v := testView(t)
	s := core.NewScreen(2, 2)
	Draw(s, v, Overlay{})
	if s.String() != "  \n  " {
		t.Errorf("tiny screen = %q", s.String())
	}
}
