package core

// Color is a tile highlight colour handed to the renderer.
// ColorTransparent removes any highlight.
type Color uint8

const (
	ColorTransparent Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// Semantic aliases used by the simulation.
const (
	ColorSelectable = ColorYellow
	ColorSelected   = ColorCyan
	ColorPath       = ColorGreen
	ColorDanger     = ColorRed
)

// String returns the colour name.
func (c Color) String() string {
	switch c {
	case ColorTransparent:
		return "transparent"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorBlue:
		return "blue"
	case ColorMagenta:
		return "magenta"
	case ColorCyan:
		return "cyan"
	case ColorWhite:
		return "white"
	case ColorOrange:
		return "orange"
	case ColorGray:
		return "gray"
	default:
		return "unknown"
	}
}
