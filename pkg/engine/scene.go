package engine

import "github.com/cardpress/cardpress/pkg/template"

// Kind identifies what a scene node draws.
type Kind string

// Node kinds. KindBackground is synthesized from Config.BackgroundImage and
// is the only kind that never originates from a layer.
const (
	KindText       Kind = "text"
	KindImage      Kind = "image"
	KindRect       Kind = "rect"
	KindIcon       Kind = "icon"
	KindSVG        Kind = "svg"
	KindBackground Kind = "background"
)

// Node is one drawable unit of a rendered scene. Geometry is in design
// space. Only the fields relevant to the node's Kind are populated.
type Node struct {
	// LayerID is the originating layer's id, empty for nodes synthesized
	// by fixed layouts and for the background node.
	LayerID string `json:"layerId,omitempty"`
	Kind    Kind   `json:"kind"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
	Z        int     `json:"z"`

	// Text payload.
	Text       string             `json:"text,omitempty"`
	FontSize   int                `json:"fontSize,omitempty"`
	FontFamily string             `json:"fontFamily,omitempty"`
	FontWeight string             `json:"fontWeight,omitempty"`
	Align      template.TextAlign `json:"align,omitempty"`
	Color      string             `json:"color,omitempty"`

	// Box payload (rects, and text boxes with an own background).
	Fill         string `json:"fill,omitempty"`
	CornerRadius int    `json:"cornerRadius,omitempty"`

	// Image payload. An empty URL with a non-empty Placeholder is an
	// unfilled uploadable slot.
	ImageURL    string `json:"imageUrl,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Uploadable  bool   `json:"uploadable,omitempty"`

	// Icon payload.
	IconViewBox string `json:"iconViewBox,omitempty"`
	IconPath    string `json:"iconPath,omitempty"`

	// SVG payload: raw inline markup passed through verbatim.
	SVGMarkup string `json:"svgMarkup,omitempty"`

	// Selected marks the layer currently being edited; it is render
	// context, never persisted state.
	Selected bool `json:"selected,omitempty"`
}

// Scene is the fully resolved output of a render: nodes in bottom-to-top
// draw order at the design-space canvas size.
type Scene struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background,omitempty"` // canvas fill color
	Nodes      []Node `json:"nodes"`
}

// NodeByLayer returns the first node originating from the given layer id.
func (s *Scene) NodeByLayer(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.LayerID == id {
			return n, true
		}
	}
	return Node{}, false
}
