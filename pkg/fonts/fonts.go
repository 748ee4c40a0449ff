// Package fonts provides the embedded typefaces used for rasterization.
//
// The Go font family ships as compiled-in TTF data, so PNG rendering works
// without any system font lookup. Parsed fonts are cached after first use;
// faces are cheap per-size views over the cached fonts.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Weight selects between the two embedded cuts.
type Weight string

// Supported weights. Template fontWeight values of "bold", "600" and up map
// to Bold; everything else renders Regular.
const (
	Regular Weight = "regular"
	Bold    Weight = "bold"
)

var (
	parseOnce   sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
	parseErr    error
)

func parseFonts() {
	regularFont, parseErr = truetype.Parse(goregular.TTF)
	if parseErr != nil {
		return
	}
	boldFont, parseErr = truetype.Parse(gobold.TTF)
}

// Face returns a font.Face at the given point size. The underlying fonts
// are embedded and parse once; an error here means the embedded data is
// corrupt and is effectively unreachable in practice.
func Face(size float64, weight Weight) (font.Face, error) {
	parseOnce.Do(parseFonts)
	if parseErr != nil {
		return nil, parseErr
	}
	f := regularFont
	if weight == Bold {
		f = boldFont
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// WeightFor maps a template fontWeight style value to an embedded weight.
func WeightFor(fontWeight string) Weight {
	switch fontWeight {
	case "bold", "bolder", "600", "700", "800", "900":
		return Bold
	}
	return Regular
}

// FontFamily is the CSS font-family emitted for SVG output when a template
// names no explicit family.
const FontFamily = "Go, 'Helvetica Neue', Arial, sans-serif"
