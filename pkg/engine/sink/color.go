package sink

import (
	"image/color"
	"strconv"
	"strings"
)

// named covers the handful of keyword colors templates actually use.
// Anything else must be hex or rgb()/rgba() form.
var named = map[string]color.NRGBA{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"transparent": {0, 0, 0, 0},
}

// parseColor interprets a CSS-compatible color string. The second return
// value is false for anything unparseable; per the engine's failure
// semantics an invalid color is a silent render no-op, never an error.
func parseColor(s string) (color.NRGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return color.NRGBA{}, false
	}
	if c, ok := named[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBFunc(s)
	}
	return color.NRGBA{}, false
}

func parseHex(hex string) (color.NRGBA, bool) {
	switch len(hex) {
	case 3:
		var expanded [6]byte
		for i := 0; i < 3; i++ {
			expanded[2*i], expanded[2*i+1] = hex[i], hex[i]
		}
		hex = string(expanded[:])
	case 6, 8:
	default:
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return color.NRGBA{}, false
	}
	if len(hex) == 8 {
		return color.NRGBA{
			R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v),
		}, true
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

func parseRGBFunc(s string) (color.NRGBA, bool) {
	open := strings.IndexByte(s, '(')
	close := strings.IndexByte(s, ')')
	if open < 0 || close < open {
		return color.NRGBA{}, false
	}
	parts := strings.Split(s[open+1:close], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, false
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return color.NRGBA{}, false
		}
		ch[i] = uint8(n)
	}
	a := uint8(255)
	if len(parts) == 4 {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || f < 0 || f > 1 {
			return color.NRGBA{}, false
		}
		a = uint8(f*255 + 0.5)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: a}, true
}
