package pdfink

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// DefaultColor is the fallback used when an annotation carries a malformed
// hex color. Export must never fail on a bad color string.
var DefaultColor = RGBA{R: 1, G: 0, B: 0, A: 1}

// ParseHex parses a hex color string.
// Supported formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without a
// leading '#'. The second return value reports whether the string was a
// well-formed hex color.
func ParseHex(hex string) (RGBA, bool) {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint32
	a := uint32(255)

	switch len(hex) {
	case 3: // RGB
		if !parseHex(hex[0:1], &r) || !parseHex(hex[1:2], &g) || !parseHex(hex[2:3], &b) {
			return DefaultColor, false
		}
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		if !parseHex(hex[0:1], &r) || !parseHex(hex[1:2], &g) || !parseHex(hex[2:3], &b) || !parseHex(hex[3:4], &a) {
			return DefaultColor, false
		}
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		if !parseHex(hex[0:2], &r) || !parseHex(hex[2:4], &g) || !parseHex(hex[4:6], &b) {
			return DefaultColor, false
		}
	case 8: // RRGGBBAA
		if !parseHex(hex[0:2], &r) || !parseHex(hex[2:4], &g) || !parseHex(hex[4:6], &b) || !parseHex(hex[6:8], &a) {
			return DefaultColor, false
		}
	default:
		return DefaultColor, false
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, true
}

// HexOrDefault parses a hex color, falling back to [DefaultColor] with a
// logged warning when the string is malformed.
func HexOrDefault(hex string) RGBA {
	c, ok := ParseHex(hex)
	if !ok {
		Logger().Warn("malformed hex color, using default", "color", hex)
	}
	return c
}

// parseHex parses a hex substring into v. It reports whether every rune was
// a valid hex digit.
func parseHex(s string, v *uint32) bool {
	var n uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			n = n*16 + uint32(c-'0')
		case c >= 'a' && c <= 'f':
			n = n*16 + uint32(c-'a'+10)
		case c >= 'A' && c <= 'F':
			n = n*16 + uint32(c-'A'+10)
		default:
			return false
		}
	}
	*v = n
	return true
}
