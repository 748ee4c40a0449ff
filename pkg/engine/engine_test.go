package engine

import (
	"reflect"
	"testing"

	"github.com/cardpress/cardpress/pkg/template"
)

func intp(v int) *int { return &v }

func customConfig(layers ...template.Element) *template.Config {
	return &template.Config{
		Layout:          template.LayoutCustom,
		BackgroundColor: "#ffffff",
		TextColor:       "#111111",
		Layers:          layers,
	}
}

func TestVariableFallback(t *testing.T) {
	layer := template.Element{
		ID:         "t1",
		Type:       template.ElementText,
		VariableID: "subtitle",
		Content:    "Fallback",
	}

	tests := []struct {
		name    string
		content template.ContentData
		want    string
	}{
		{"missing variable falls back", template.ContentData{"title": "x"}, "Fallback"},
		{"empty variable falls back", template.ContentData{"subtitle": ""}, "Fallback"},
		{"bound variable wins", template.ContentData{"subtitle": "Real"}, "Real"},
		{"nil content falls back", nil, "Fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := Render(customConfig(layer), tt.content)
			node, ok := scene.NodeByLayer("t1")
			if !ok {
				t.Fatal("text layer missing from scene")
			}
			if node.Text != tt.want {
				t.Errorf("Text = %q, want %q", node.Text, tt.want)
			}
		})
	}
}

func TestZOrderWithBackground(t *testing.T) {
	cfg := customConfig(
		template.Element{ID: "a", Type: template.ElementRect, Styles: template.Styles{ZIndex: intp(1)}},
		template.Element{ID: "b", Type: template.ElementRect, Styles: template.Styles{ZIndex: intp(10)}},
	)
	cfg.BackgroundImage = "https://cdn.example.com/bg.png"
	cfg.BackgroundZIndex = intp(5)

	scene := Render(cfg, nil)

	var order []string
	for _, n := range scene.Nodes {
		if n.Kind == KindBackground {
			order = append(order, "background")
		} else {
			order = append(order, n.LayerID)
		}
	}
	want := []string{"a", "background", "b"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("draw order = %v, want %v", order, want)
	}
}

func TestZOrderTiesKeepListOrder(t *testing.T) {
	cfg := customConfig(
		template.Element{ID: "first", Type: template.ElementRect},
		template.Element{ID: "second", Type: template.ElementRect},
		template.Element{ID: "third", Type: template.ElementRect},
	)
	scene := Render(cfg, nil)

	var order []string
	for _, n := range scene.Nodes {
		order = append(order, n.LayerID)
	}
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("draw order = %v, want %v", order, want)
	}
}

func TestSelectedLayerDrawsOnTop(t *testing.T) {
	cfg := customConfig(
		template.Element{ID: "low", Type: template.ElementRect, Styles: template.Styles{ZIndex: intp(1)}},
		template.Element{ID: "high", Type: template.ElementRect, Styles: template.Styles{ZIndex: intp(99)}},
	)

	scene := Render(cfg, nil, WithSelected("low"))
	top := scene.Nodes[len(scene.Nodes)-1]
	if top.LayerID != "low" || !top.Selected {
		t.Errorf("top node = %q (selected=%v), want selected layer on top", top.LayerID, top.Selected)
	}

	// The override lives only in the render call, not the config.
	if cfg.Layers[0].Styles.EffectiveZIndex() != 1 {
		t.Error("selection override leaked into the config")
	}
}

func TestUnknownIconRendersNothing(t *testing.T) {
	cfg := customConfig(
		template.Element{ID: "i1", Type: template.ElementIcon, IconName: "no-such-icon"},
		template.Element{ID: "i2", Type: template.ElementIcon, IconName: "star"},
	)
	scene := Render(cfg, nil)

	if _, ok := scene.NodeByLayer("i1"); ok {
		t.Error("unknown icon produced a node")
	}
	node, ok := scene.NodeByLayer("i2")
	if !ok || node.IconPath == "" {
		t.Errorf("known icon missing or incomplete: %+v", node)
	}
}

func TestDimensionDefault(t *testing.T) {
	content := template.ContentData{"title": "Launch Day", "subtitle": "It ships"}

	bare := &template.Config{Layout: template.LayoutSimpleCentered, TextColor: "#fff"}
	explicit := &template.Config{
		Layout:     template.LayoutSimpleCentered,
		TextColor:  "#fff",
		Dimensions: &template.Dimensions{Width: 1200, Height: 630, Label: "Open Graph"},
	}

	a := Render(bare, content)
	b := Render(explicit, content)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("scene with default dimensions differs from explicit 1200x630:\n%+v\nvs\n%+v", a, b)
	}
	if a.Width != 1200 || a.Height != 630 {
		t.Errorf("default canvas = %dx%d, want 1200x630", a.Width, a.Height)
	}
}

func TestNeonCardFallsBackToSimpleCentered(t *testing.T) {
	content := template.ContentData{"title": "Hello"}
	neon := &template.Config{Layout: template.LayoutNeonCard}
	simple := &template.Config{Layout: template.LayoutSimpleCentered}

	if !reflect.DeepEqual(Render(neon, content).Nodes, Render(simple, content).Nodes) {
		t.Error("neon-card did not fall back to the simple-centered composition")
	}
}

func TestRoundTripRendersIdentically(t *testing.T) {
	cfg := customConfig(
		template.Element{
			ID: "title", Type: template.ElementText, X: 60, Y: 80, Width: 600,
			Content: "Static", VariableID: "title",
			Styles: template.Styles{FontSize: 48, AutoFit: true, TextAlign: template.AlignCenter, Rotation: 3},
		},
		template.Element{
			ID: "photo", Type: template.ElementImage, X: 700, Y: 80, Width: 400, Height: 400,
			VariableID: "featuredImage", IsUploadable: true, PlaceholderText: "Drop photo",
			Styles: template.Styles{ZIndex: intp(0), BorderRadius: 16},
		},
		template.Element{ID: "badge", Type: template.ElementIcon, IconName: "bolt", X: 40, Y: 500, Width: 64, Height: 64},
	)
	cfg.BackgroundImage = "https://cdn.example.com/BG%20image.png?v=2"
	cfg.BackgroundZIndex = intp(-1)
	cfg.Dimensions = &template.Dimensions{Width: 1080, Height: 1080, Label: "Instagram Square"}

	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := template.ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	content := template.ContentData{"title": "Real Title"}
	before := Render(cfg, content)
	after := Render(&decoded, content)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("scene changed across JSON round-trip:\n%+v\nvs\n%+v", before, after)
	}

	// The background URL must survive byte-for-byte; the asset reference
	// counter matches it by exact string.
	if decoded.BackgroundImage != cfg.BackgroundImage {
		t.Errorf("background URL rewritten: %q -> %q", cfg.BackgroundImage, decoded.BackgroundImage)
	}
}

func TestUploadablePlaceholder(t *testing.T) {
	cfg := customConfig(template.Element{
		ID: "up", Type: template.ElementImage, Width: 300, Height: 200,
		VariableID: "featuredImage", IsUploadable: true, PlaceholderText: "Add image",
	})

	scene := Render(cfg, nil)
	node, _ := scene.NodeByLayer("up")
	if node.ImageURL != "" || node.Placeholder != "Add image" || !node.Uploadable {
		t.Errorf("empty uploadable slot rendered wrong: %+v", node)
	}

	scene = Render(cfg, template.ContentData{"featuredImage": "https://cdn.example.com/a.png"})
	node, _ = scene.NodeByLayer("up")
	if node.ImageURL != "https://cdn.example.com/a.png" || node.Placeholder != "" {
		t.Errorf("filled uploadable slot rendered wrong: %+v", node)
	}
}

func TestAutoFitAppliedToResolvedText(t *testing.T) {
	cfg := customConfig(template.Element{
		ID: "t", Type: template.ElementText, Width: 100,
		Content: "Hi", VariableID: "title",
		Styles: template.Styles{FontSize: 32, AutoFit: true},
	})

	// Auto-fit must measure the resolved value, not the static fallback.
	scene := Render(cfg, template.ContentData{"title": "Hello World"})
	node, _ := scene.NodeByLayer("t")
	if node.FontSize != 15 {
		t.Errorf("FontSize = %d, want 15 for resolved 11-char title", node.FontSize)
	}
}
