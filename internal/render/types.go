package render

// Color is an 8-bit RGB triple as sent to the strip.
type Color struct{ R, G, B uint8 }

// Off is black.
var Off = Color{}

// Scale multiplies every channel by b, clamped to [0,1], truncating toward
// zero.
func (c Color) Scale(b float64) Color {
	b = clamp01(b)
	return Color{
		R: uint8(float64(c.R) * b),
		G: uint8(float64(c.G) * b),
		B: uint8(float64(c.B) * b),
	}
}

// RGB builds a Color from a config triple.
func RGB(v [3]uint8) Color { return Color{R: v[0], G: v[1], B: v[2]} }

// Surface is an addressable LED buffer. SetPixel only touches the buffer;
// Flush pushes it to hardware.
type Surface interface {
	Len() int
	SetPixel(i int, c Color) error
	Flush() error
}

func clamp01(x float64) float64 {
	if x < 0 || x != x {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
