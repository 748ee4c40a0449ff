package sink

import (
	"strings"
	"testing"

	"github.com/cardpress/cardpress/pkg/engine"
	"github.com/cardpress/cardpress/pkg/template"
)

func TestRenderSVGBasicScene(t *testing.T) {
	scene := engine.Scene{
		Width:      1200,
		Height:     630,
		Background: "#0f172a",
		Nodes: []engine.Node{
			{Kind: engine.KindRect, X: 0, Y: 0, Width: 480, Height: 630, Fill: "#6366f1"},
			{
				Kind: engine.KindText, LayerID: "t", X: 100, Y: 200, Width: 600,
				Text: "Launch <Week>", FontSize: 48, Align: template.AlignCenter, Color: "#ffffff",
			},
		},
	}

	svg := string(RenderSVG(scene))

	checks := []string{
		`viewBox="0 0 1200 630"`,
		`fill="#0f172a"`,
		`fill="#6366f1"`,
		`text-anchor="middle"`,
		`font-size="48"`,
		"Launch &lt;Week&gt;", // content is XML-escaped
	}
	for _, want := range checks {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q\n%s", want, svg)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not terminated")
	}
}

func TestRenderSVGRotationAboutOwnBox(t *testing.T) {
	scene := engine.Scene{
		Width: 100, Height: 100,
		Nodes: []engine.Node{
			{Kind: engine.KindRect, X: 10, Y: 20, Width: 40, Height: 20, Fill: "#000", Rotation: 45},
		},
	}
	svg := string(RenderSVG(scene))
	if !strings.Contains(svg, `transform="rotate(45 30 30)"`) {
		t.Errorf("rotation not about box center (30,30):\n%s", svg)
	}
}

func TestRenderSVGPlaceholderSlot(t *testing.T) {
	scene := engine.Scene{
		Width: 400, Height: 300,
		Nodes: []engine.Node{
			{Kind: engine.KindImage, LayerID: "up", X: 10, Y: 10, Width: 200, Height: 150,
				Uploadable: true, Placeholder: "Drop logo here"},
		},
	}
	svg := string(RenderSVG(scene))
	if !strings.Contains(svg, "stroke-dasharray") || !strings.Contains(svg, "Drop logo here") {
		t.Errorf("placeholder slot not rendered:\n%s", svg)
	}
	if strings.Contains(svg, "<image") {
		t.Error("empty slot emitted an image element")
	}
}

func TestRenderSVGSelectionOutline(t *testing.T) {
	scene := engine.Scene{
		Width: 100, Height: 100,
		Nodes: []engine.Node{
			{Kind: engine.KindRect, LayerID: "a", Width: 50, Height: 50, Fill: "#123456", Selected: true},
		},
	}
	svg := string(RenderSVG(scene))
	if !strings.Contains(svg, `stroke-dasharray="6 3"`) {
		t.Errorf("selected node has no outline:\n%s", svg)
	}
}

func TestRenderSVGPreservesURLString(t *testing.T) {
	url := "https://cdn.example.com/path/BG%20image.png?v=2&sig=a+b"
	scene := engine.Scene{
		Width: 100, Height: 100,
		Nodes: []engine.Node{{Kind: engine.KindBackground, Width: 100, Height: 100, ImageURL: url}},
	}
	svg := string(RenderSVG(scene))
	// Only XML escaping may change the string; &-escaping is reversible
	// and the URL itself is never re-encoded or canonicalized.
	if !strings.Contains(svg, `href="https://cdn.example.com/path/BG%20image.png?v=2&amp;sig=a+b"`) {
		t.Errorf("background URL altered:\n%s", svg)
	}
}

func TestParseViewBox(t *testing.T) {
	tests := []struct {
		name  string
		vb    string
		wantW float64
		wantH float64
	}{
		{"standard", "0 0 24 24", 24, 24},
		{"non-square", "0 0 32 16", 32, 16},
		{"garbage falls back", "bogus", 24, 24},
		{"empty falls back", "", 24, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, w, h := parseViewBox(tt.vb)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("parseViewBox(%q) = %v,%v want %v,%v", tt.vb, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
