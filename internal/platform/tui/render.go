package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vovakirdan/fejd/internal/core"
)

// cellStyles holds one foreground style per core.Color.
var cellStyles = func() [core.NumColors]lipgloss.Style {
	var styles [core.NumColors]lipgloss.Style
	for i := range styles {
		styles[i] = lipgloss.NewStyle()
		if code := core.Color(i).ANSI(); code != "" { //#nosec G115 -- i < NumColors
			styles[i] = styles[i].Foreground(lipgloss.Color(code))
		}
	}
	return styles
}()

// RenderScreen converts a Screen to styled terminal text. Adjacent cells of
// the same color share one escape sequence, and default-colored runs are
// written unstyled.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.Width(); {
			c := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != c {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(styleRun(c, run.String()))
		}
	}
	return sb.String()
}

func styleRun(c core.Color, text string) string {
	if c == core.ColorDefault || int(c) >= core.NumColors {
		return text
	}
	return cellStyles[c].Render(text)
}
