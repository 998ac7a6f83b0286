package core

// Color is the foreground color of a screen cell. The zero value keeps the
// terminal's default color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray

	NumColors = int(ColorGray) + 1
)

// ansi256 holds the 256-color palette code of every Color.
var ansi256 = [NumColors]string{
	"", "1", "2", "3", "4", "5", "6", "7",
	"9", "10", "11", "12", "13", "14", "15",
	"208", "245",
}

// ANSI returns the 256-color palette code of c. It returns "" for the
// default color and for unknown values.
func (c Color) ANSI() string {
	if int(c) >= NumColors {
		return ""
	}
	return ansi256[c]
}
