package engine

import (
	"math"
	"unicode/utf8"
)

// Auto-fit constants. The width estimate is a fixed average-glyph-width
// approximation rather than true glyph measurement; downstream rasterizers
// were tuned against these exact values, so they are load-bearing.
const (
	avgCharWidthRatio = 0.6
	minFontSize       = 12
)

// FitFontSize shrinks base so that text approximately fits within width
// design pixels, using the estimate len(text) * size * 0.6.
//
// The result is floor-rounded and clamped to a 12px minimum. When the
// estimate already fits, or when text or width is degenerate, base is
// returned unchanged.
//
// Length is measured in runes, so a multi-code-unit glyph such as an
// emoji counts once regardless of its encoded width.
func FitFontSize(text string, base, width int) int {
	n := utf8.RuneCountInString(text)
	if n == 0 || width <= 0 || base <= 0 {
		return base
	}
	estimated := float64(n) * float64(base) * avgCharWidthRatio
	if estimated <= float64(width) {
		return base
	}
	fitted := int(math.Floor(float64(width) / (float64(n) * avgCharWidthRatio)))
	if fitted < minFontSize {
		return minFontSize
	}
	return fitted
}
