package render

// Channel breakpoints of matplotlib's "hot" colormap. Red saturates first,
// then green, then blue.
const (
	hotRedEnd   = 0.365079
	hotGreenEnd = 0.746032
)

// Hot maps a scalar in [0, 1] to the black-red-yellow-white "hot" gradient.
// Values outside the range are clamped.
func Hot(v float64) Color {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}

	var r, g, b float64
	switch {
	case v < hotRedEnd:
		r = 0.0416 + (1-0.0416)*v/hotRedEnd
	case v < hotGreenEnd:
		r = 1
		g = (v - hotRedEnd) / (hotGreenEnd - hotRedEnd)
	default:
		r = 1
		g = 1
		b = (v - hotGreenEnd) / (1 - hotGreenEnd)
	}

	return RGB(channel(r), channel(g), channel(b))
}

// channel converts a [0, 1] intensity to an 8-bit channel value.
func channel(v float64) uint8 {
	return uint8(v*255 + 0.5)
}
