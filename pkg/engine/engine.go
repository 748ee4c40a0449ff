// Package engine is the pure layout renderer: it turns a template config
// and a content-variable bag into a flat scene graph ready for a sink.
//
// Render performs no I/O and no mutation; identical inputs produce
// identical scenes. Failure semantics are degrade-gracefully throughout:
// unknown layouts fall back to simple-centered, unknown icon names render
// nothing, and unresolved variable bindings fall back to static layer
// content rather than erroring.
package engine

import (
	"sort"

	"github.com/cardpress/cardpress/pkg/template"
	"github.com/cardpress/cardpress/pkg/template/icons"
)

// defaultFontSize applies to text layers with no explicit fontSize.
const defaultFontSize = 32

// Option configures a single render call.
type Option func(*renderer)

type renderer struct {
	selected string
}

// WithSelected forces the layer with the given id to draw on top of the
// stack regardless of its configured z-index. This is an edit-time-only
// override used by the builder; it never changes the config.
func WithSelected(id string) Option {
	return func(r *renderer) { r.selected = id }
}

// Render resolves cfg against content into a scene graph.
//
// For fixed layouts the composition is hardcoded per layout; for the custom
// layout the layer list drives the scene, stacked by effective z-index with
// the background image interleaved at the config's backgroundZIndex.
func Render(cfg *template.Config, content template.ContentData, opts ...Option) Scene {
	var r renderer
	for _, opt := range opts {
		opt(&r)
	}

	dims := cfg.EffectiveDimensions()
	scene := Scene{
		Width:      dims.Width,
		Height:     dims.Height,
		Background: cfg.BackgroundColor,
	}

	switch cfg.Layout {
	case template.LayoutCustom:
		scene.Nodes = renderCustom(cfg, content, dims, r.selected)
	case template.LayoutModernSplit:
		scene.Nodes = renderModernSplit(cfg, content, dims)
	case template.LayoutHeroImage:
		scene.Nodes = renderHeroImage(cfg, content, dims)
	default:
		// simple-centered, plus the fallback for neon-card (declared but
		// never implemented upstream) and any unknown layout value.
		scene.Nodes = renderSimpleCentered(cfg, content, dims)
	}
	return scene
}

// stackEntry pairs a node with its position in the source list so the sort
// can break z ties by original order.
type stackEntry struct {
	node Node
	seq  int
}

func renderCustom(cfg *template.Config, content template.ContentData, dims template.Dimensions, selected string) []Node {
	entries := make([]stackEntry, 0, len(cfg.Layers)+1)

	// The background participates in the z order: a layer with a smaller
	// z-index renders below it. Ties resolve with the background at the
	// bottom, which seq=-1 guarantees under a stable sort.
	if cfg.BackgroundImage != "" {
		entries = append(entries, stackEntry{
			node: Node{
				Kind:     KindBackground,
				Width:    float64(dims.Width),
				Height:   float64(dims.Height),
				ImageURL: cfg.BackgroundImage,
				Z:        cfg.EffectiveBackgroundZIndex(),
			},
			seq: -1,
		})
	}

	for i, el := range cfg.Layers {
		node, ok := renderLayer(cfg, el, content)
		if !ok {
			continue
		}
		entries = append(entries, stackEntry{node: node, seq: i})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].node.Z < entries[b].node.Z
	})

	nodes := make([]Node, 0, len(entries))
	var top *Node
	for _, e := range entries {
		if selected != "" && e.node.LayerID == selected {
			n := e.node
			n.Selected = true
			top = &n
			continue
		}
		nodes = append(nodes, e.node)
	}
	if top != nil {
		nodes = append(nodes, *top)
	}
	return nodes
}

func renderLayer(cfg *template.Config, el template.Element, content template.ContentData) (Node, bool) {
	node := Node{
		LayerID:      el.ID,
		X:            float64(el.X),
		Y:            float64(el.Y),
		Width:        float64(el.Width),
		Height:       float64(el.Height),
		Rotation:     el.Styles.Rotation,
		Z:            el.Styles.EffectiveZIndex(),
		Fill:         el.Styles.BackgroundColor,
		CornerRadius: el.Styles.BorderRadius,
	}

	switch el.Type {
	case template.ElementText:
		node.Kind = KindText
		node.Text = resolveValue(el, content, el.Content)
		node.FontSize = el.Styles.FontSize
		if node.FontSize <= 0 {
			node.FontSize = defaultFontSize
		}
		if el.Styles.AutoFit && el.Width > 0 {
			node.FontSize = FitFontSize(node.Text, node.FontSize, el.Width)
		}
		node.FontFamily = cfg.FontFamily
		node.FontWeight = el.Styles.FontWeight
		node.Align = el.Styles.TextAlign
		node.Color = firstNonEmpty(el.Styles.Color, cfg.TextColor)

	case template.ElementImage:
		node.Kind = KindImage
		node.ImageURL = resolveValue(el, content, el.Src)
		node.Uploadable = el.IsUploadable
		if node.ImageURL == "" {
			node.Placeholder = el.PlaceholderText
		}

	case template.ElementRect:
		node.Kind = KindRect

	case template.ElementIcon:
		ic, ok := icons.Lookup(el.IconName)
		if !ok {
			return Node{}, false
		}
		node.Kind = KindIcon
		node.IconViewBox = ic.ViewBox
		node.IconPath = ic.Path
		node.Color = firstNonEmpty(el.Styles.Color, cfg.PrimaryColor)

	case template.ElementSVG:
		markup := resolveValue(el, content, el.Content)
		if markup == "" {
			return Node{}, false
		}
		node.Kind = KindSVG
		node.SVGMarkup = markup

	default:
		// Unknown element types render nothing, mirroring icon handling.
		return Node{}, false
	}
	return node, true
}
