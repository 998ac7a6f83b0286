package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/fejd/internal/core"
	"github.com/vovakirdan/fejd/internal/engine"
	"github.com/vovakirdan/fejd/internal/fixed"
	"github.com/vovakirdan/fejd/internal/world"
)

// HUDRows is the number of screen rows the status bar occupies.
const HUDRows = 1

// Glyphs.
const (
	glyphProjectile = '•'
	glyphParticle   = '·'
	glyphCorner     = '+'
	glyphStar       = '.'
	glyphBrightStar = '*'
)

// arrows are ship glyphs by heading octant, starting east and turning
// clockwise (y grows downward).
var arrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// palette colors ships and their projectiles by slot.
var palette = []core.Color{
	core.ColorCyan,
	core.ColorYellow,
	core.ColorMagenta,
	core.ColorGreen,
	core.ColorOrange,
	core.ColorBrightBlue,
	core.ColorBrightRed,
	core.ColorWhite,
}

// SlotColor returns the color of a player slot.
func SlotColor(slot int) core.Color {
	if slot < 0 {
		return core.ColorDefault
	}
	return palette[slot%len(palette)]
}

// Arrow returns the glyph pointing along (dx, dy).
func Arrow(dx, dy float64) rune {
	octant := int(math.Round(math.Atan2(dy, dx) / (math.Pi / 4)))
	return arrows[(octant%8+8)%8]
}

// Overlay is transient decoration drawn on top of the arena.
type Overlay struct {
	Flash   core.Color // Frame color, ColorDefault for none
	Message string     // Centered on the top frame row
}

// Draw clears s and renders v into it: the arena framed in the rows above
// the HUD, then the status bar on the last row.
func Draw(s *core.Screen, v engine.View, ov Overlay) {
	s.Clear()
	if s.Width() < 3 || s.Height() < HUDRows+3 {
		return
	}

	frame := s.Bounds()
	frame.H -= HUDRows
	frameColor := core.ColorGray
	if ov.Flash != core.ColorDefault {
		frameColor = ov.Flash
	}
	s.DrawBox(frame, frameColor)
	if ov.Message != "" {
		s.DrawTextCentered(0, " "+ov.Message+" ", core.ColorBrightWhite)
	}

	vp := NewViewport(frame.Inset(1), v.Map)
	drawStars(s, vp, v.Stars)
	drawParticles(s, vp, v)
	drawProjectiles(s, vp, v)
	if v.Debug {
		drawHulls(s, vp, v)
	}
	drawShips(s, vp, v)
	drawHUD(s, s.Height()-HUDRows, v)
}

func drawStars(s *core.Screen, vp Viewport, stars []world.Star) {
	for _, st := range stars {
		if !st.Visible {
			continue
		}
		col, row, ok := vp.Project(st.Point.X.Float64(), st.Point.Y.Float64())
		if !ok {
			continue
		}
		if st.Bright || st.Size > 1 {
			s.SetColor(col, row, glyphBrightStar, core.ColorWhite)
		} else {
			s.SetColor(col, row, glyphStar, core.ColorGray)
		}
	}
}

func drawParticles(s *core.Screen, vp Viewport, v engine.View) {
	for _, p := range v.Particles {
		col, row, ok := vp.Project(p.Past.Lerp(p.Live, v.Alpha))
		if ok {
			s.SetColor(col, row, glyphParticle, SlotColor(p.Slot))
		}
	}
}

func drawProjectiles(s *core.Screen, vp Viewport, v engine.View) {
	for _, p := range v.Projectiles {
		if p.Dead {
			continue
		}
		past := p.Body.Past.Shape.Centroid()
		live := p.Body.Live.Shape.Centroid()
		col, row, ok := vp.Project(past.Lerp(live, v.Alpha))
		if ok {
			s.SetColor(col, row, glyphProjectile, SlotColor(p.Owner))
		}
	}
}

// drawHulls marks the live vertices of every body.
func drawHulls(s *core.Screen, vp Viewport, v engine.View) {
	var corners []fixed.Vec2
	mark := func() {
		for _, c := range corners {
			if col, row, ok := vp.Project(c.X.Float64(), c.Y.Float64()); ok {
				s.SetColor(col, row, glyphCorner, core.ColorGray)
			}
		}
	}
	for i := range v.Ships {
		if v.Ships[i].Alive {
			corners = v.Ships[i].Body.Live.Corners(corners[:0])
			mark()
		}
	}
	for i := range v.Projectiles {
		corners = v.Projectiles[i].Body.Live.Corners(corners[:0])
		mark()
	}
}

func drawShips(s *core.Screen, vp Viewport, v engine.View) {
	for i := range v.Ships {
		ship := &v.Ships[i]
		if !ship.Alive {
			continue
		}
		past, live := ship.Body.Past, ship.Body.Live
		col, row, ok := vp.Project(past.Shape.Centroid().Lerp(live.Shape.Centroid(), v.Alpha))
		if !ok {
			continue
		}
		dx, dy := past.Direction.Lerp(live.Direction, v.Alpha)
		color := SlotColor(ship.Slot)
		if ship.Slot == v.Local {
			color = core.ColorBrightWhite
		}
		s.SetColor(col, row, Arrow(dx, dy), color)
	}
}

// drawHUD writes the tick counter and one entry per ship.
func drawHUD(s *core.Screen, row int, v engine.View) {
	x := 0
	put := func(text string, c core.Color) {
		s.DrawTextColor(x, row, text, c)
		x += len([]rune(text))
	}

	put(fmt.Sprintf("t%-6d", v.Tick), core.ColorGray)
	for i := range v.Ships {
		put(" ", core.ColorDefault)
		put(shipStatus(v, i), SlotColor(v.Ships[i].Slot))
	}
	if v.Debug {
		put(" [debug]", core.ColorGray)
	}
}

func shipStatus(v engine.View, i int) string {
	ship := &v.Ships[i]
	var sb strings.Builder
	if ship.Slot == v.Local {
		sb.WriteString(">")
	}
	fmt.Fprintf(&sb, "P%d %d/%d ", ship.Slot+1, ship.Kills, ship.Deaths)
	switch {
	case ship.Alive:
		sb.WriteString(strings.Repeat("♥", ship.Health))
	case i < len(v.RespawnIn) && v.RespawnIn[i] > 0:
		fmt.Fprintf(&sb, "@%d", v.RespawnIn[i])
	default:
		sb.WriteString("x")
	}
	return sb.String()
}
