// Package render rasterises engine views into a core.Screen.
//
// Rendering is the only place fejd uses floating point: positions are
// interpolated between the past and live poses of each entity by the
// accumulator alpha and then scaled to terminal cells.
package render

import (
	"math"

	"github.com/vovakirdan/fejd/internal/core"
	"github.com/vovakirdan/fejd/internal/world"
)

// cellAspect is how many times taller a terminal cell is than it is wide.
const cellAspect = 2.0

// Viewport maps world coordinates onto a screen area while keeping the
// map's proportions.
type Viewport struct {
	Area  core.Rect
	unit  float64 // World units per column
	origX float64
	origY float64
}

// NewViewport fits the map into area and centers it.
func NewViewport(area core.Rect, m world.Map) Viewport {
	w, h := m.Width.Float64(), m.Height.Float64()
	vp := Viewport{Area: area}
	if area.W <= 0 || area.H <= 0 || w <= 0 || h <= 0 {
		return vp
	}
	vp.unit = math.Max(w/float64(area.W), h/(float64(area.H)*cellAspect))
	usedW := w / vp.unit
	usedH := h / (vp.unit * cellAspect)
	vp.origX = float64(area.X) + (float64(area.W)-usedW)/2
	vp.origY = float64(area.Y) + (float64(area.H)-usedH)/2
	return vp
}

// Project returns the cell under world point (x, y). ok is false when the
// cell lies outside the viewport area.
func (vp Viewport) Project(x, y float64) (col, row int, ok bool) {
	if vp.unit == 0 {
		return 0, 0, false
	}
	col = int(math.Floor(vp.origX + x/vp.unit))
	row = int(math.Floor(vp.origY + y/(vp.unit*cellAspect)))
	return col, row, vp.Area.Contains(col, row)
}

// Bounds returns the cells covered by the map.
func (vp Viewport) Bounds() core.Rect {
	if vp.unit == 0 {
		return core.Rect{}
	}
	x, y := int(math.Floor(vp.origX)), int(math.Floor(vp.origY))
	return core.NewRect(x, y, vp.Area.W-2*(x-vp.Area.X), vp.Area.H-2*(y-vp.Area.Y))
}
