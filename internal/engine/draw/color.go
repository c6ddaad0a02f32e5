package draw

// Color is a straight-alpha RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Scene palette.
var (
	ColorTransparent = Color{0, 0, 0, 0}
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}

	ColorSelection = Color{1, 0.85, 0.2, 1}
	ColorPanel     = Color{0.05, 0.05, 0.08, 0.75}
	ColorBorder    = Color{0.6, 0.6, 0.7, 1}
	ColorMarker    = Color{0.2, 0.6, 0.9, 1}
)

// RGBA creates a color from 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Darken moves the colour towards black by factor.
func (c Color) Darken(factor float32) Color {
	return Color{c.R * (1 - factor), c.G * (1 - factor), c.B * (1 - factor), c.A}
}

// Lighten moves the colour towards white by factor.
func (c Color) Lighten(factor float32) Color {
	return Color{c.R + (1-c.R)*factor, c.G + (1-c.G)*factor, c.B + (1-c.B)*factor, c.A}
}

// Tint returns the colour as a sprite tint.
func (c Color) Tint() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}
