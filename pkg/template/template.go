// Package template defines the persisted data model for visual templates.
//
// A [Config] describes one social-image template: either a fixed named
// layout (simple-centered, modern-split, hero-image) driven by a handful of
// colors and fonts, or a free-form custom layout composed of positioned
// [Element] layers. Configs are persisted as opaque JSON documents and must
// round-trip losslessly through a save/load cycle; see ParseConfig and
// Config.Encode.
//
// All layer geometry is expressed in design space: pixel coordinates at the
// template's configured dimensions (1200x630 by default), independent of any
// on-screen scale factor.
package template

import "github.com/google/uuid"

// Layout selects which renderer composition applies to a config.
type Layout string

// Known layouts. Custom is the only layout with a meaningful layer list.
const (
	LayoutSimpleCentered Layout = "simple-centered"
	LayoutModernSplit    Layout = "modern-split"
	LayoutHeroImage      Layout = "hero-image"
	LayoutNeonCard       Layout = "neon-card"
	LayoutCustom         Layout = "custom"
)

// Valid reports whether l is one of the known layout values.
func (l Layout) Valid() bool {
	switch l {
	case LayoutSimpleCentered, LayoutModernSplit, LayoutHeroImage, LayoutNeonCard, LayoutCustom:
		return true
	}
	return false
}

// ElementType identifies the kind of visual primitive a layer renders.
type ElementType string

// Element types. Exactly one of Content, Src, IconName is active per type:
// text and svg use Content, image uses Src, icon uses IconName, rect uses none.
const (
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
	ElementRect  ElementType = "rect"
	ElementIcon  ElementType = "icon"
	ElementSVG   ElementType = "svg"
)

// Valid reports whether t is one of the known element types.
func (t ElementType) Valid() bool {
	switch t {
	case ElementText, ElementImage, ElementRect, ElementIcon, ElementSVG:
		return true
	}
	return false
}

// TextAlign is the horizontal alignment of a text layer within its box.
type TextAlign string

// Text alignments.
const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Dimensions is the design-space canvas size of a template.
type Dimensions struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Label  string `json:"label"`
}

// DefaultDimensions returns the Open Graph canvas size used wherever a
// config carries no explicit dimensions.
func DefaultDimensions() Dimensions {
	return Dimensions{Width: 1200, Height: 630, Label: "Open Graph"}
}

// LabelCustom marks free-form dimensions picked outside the preset list.
const LabelCustom = "Custom"

// Presets returns the named canvas size presets offered by the builder.
// The returned slice is a fresh copy on every call.
func Presets() []Dimensions {
	return []Dimensions{
		{Width: 1200, Height: 630, Label: "Open Graph"},
		{Width: 1080, Height: 1080, Label: "Instagram Square"},
		{Width: 1080, Height: 1350, Label: "Instagram Portrait"},
		{Width: 1080, Height: 1920, Label: "Instagram Story"},
	}
}

// PresetByLabel looks up a named preset. It returns false for LabelCustom
// and for unknown labels.
func PresetByLabel(label string) (Dimensions, bool) {
	for _, p := range Presets() {
		if p.Label == label {
			return p, true
		}
	}
	return Dimensions{}, false
}

// Styles holds the visual attributes shared by all element types.
//
// ZIndex is a pointer so that an explicit zero survives the JSON round-trip;
// an absent value means the default stacking order of 1.
type Styles struct {
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	Color           string    `json:"color,omitempty"`
	FontSize        int       `json:"fontSize,omitempty"`
	FontWeight      string    `json:"fontWeight,omitempty"`
	TextAlign       TextAlign `json:"textAlign,omitempty"`
	BorderRadius    int       `json:"borderRadius,omitempty"`
	ZIndex          *int      `json:"zIndex,omitempty"`
	AutoFit         bool      `json:"autoFit,omitempty"`
	Rotation        float64   `json:"rotation,omitempty"`
}

// DefaultZIndex is the stacking order of a layer with no explicit zIndex.
const DefaultZIndex = 1

// EffectiveZIndex returns the layer's stacking order, applying the default
// when no explicit value is set.
func (s Styles) EffectiveZIndex() int {
	if s.ZIndex == nil {
		return DefaultZIndex
	}
	return *s.ZIndex
}

// Element is one positioned visual unit of a custom layout.
//
// The ID is assigned once at creation and never reassigned; it is the sole
// key for update, delete, and drag-target resolution.
type Element struct {
	ID     string      `json:"id"`
	Type   ElementType `json:"type"`
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Width  int         `json:"width,omitempty"`
	Height int         `json:"height,omitempty"`
	Styles Styles      `json:"styles"`

	// Content is static text (type=text) or raw inline SVG markup
	// (type=svg). It is the fallback when no bound variable resolves.
	Content string `json:"content,omitempty"`
	// Src is a static image URL (type=image), overridden when VariableID
	// resolves to a non-empty value.
	Src string `json:"src,omitempty"`
	// IconName keys into the icon registry (type=icon). Unknown names
	// render nothing.
	IconName string `json:"iconName,omitempty"`

	// VariableID optionally binds the layer to a content-bag slot. A
	// non-empty bound value overrides Content/Src; an unset or empty one
	// falls back to the static value.
	VariableID string `json:"variableId,omitempty"`

	// IsUploadable marks an image layer as click-to-upload in the
	// interactive canvas. It requires a VariableID: the uploaded URL is
	// written into the content bag, never into Src.
	IsUploadable    bool   `json:"isUploadable,omitempty"`
	PlaceholderText string `json:"placeholderText,omitempty"`
}

// NewElementID returns a fresh random layer id.
func NewElementID() string {
	return uuid.NewString()
}

// NewElement creates a layer of the given type with a fresh id.
func NewElement(t ElementType) Element {
	return Element{ID: NewElementID(), Type: t}
}

// Config is the persisted, versionless document describing one template.
type Config struct {
	Layout          Layout      `json:"layout"`
	PrimaryColor    string      `json:"primaryColor,omitempty"`
	BackgroundColor string      `json:"backgroundColor,omitempty"`
	TextColor       string      `json:"textColor,omitempty"`
	FontFamily      string      `json:"fontFamily,omitempty"`
	ShowIcon        bool        `json:"showIcon,omitempty"`
	IconName        string      `json:"iconName,omitempty"`
	Dimensions      *Dimensions `json:"dimensions,omitempty"`

	// BackgroundImage is drawn behind (or interleaved with, see
	// BackgroundZIndex) the layer stack. The URL string is persisted
	// exactly as given: the asset reference counter matches it by exact
	// string, so it must never be rewritten or canonicalized.
	BackgroundImage  string `json:"backgroundImage,omitempty"`
	BackgroundZIndex *int   `json:"backgroundZIndex,omitempty"`

	// Layers is meaningful only for LayoutCustom. List order carries no
	// z-meaning; stacking is governed solely by Styles.ZIndex, with list
	// order breaking ties.
	Layers []Element `json:"layers,omitempty"`
}

// EffectiveDimensions returns the design-space canvas size, falling back to
// the 1200x630 Open Graph default when unset or non-positive.
func (c *Config) EffectiveDimensions() Dimensions {
	if c.Dimensions == nil || c.Dimensions.Width <= 0 || c.Dimensions.Height <= 0 {
		return DefaultDimensions()
	}
	return *c.Dimensions
}

// EffectiveBackgroundZIndex returns the background stacking order,
// defaulting to 0 (below the default layer z of 1).
func (c *Config) EffectiveBackgroundZIndex() int {
	if c.BackgroundZIndex == nil {
		return 0
	}
	return *c.BackgroundZIndex
}

// Layer returns the layer with the given id, if present.
func (c *Config) Layer(id string) (Element, bool) {
	for _, el := range c.Layers {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}

// Clone returns a deep copy of the config. The layer slice and pointer
// fields are duplicated so edits to the copy never alias the original.
func (c *Config) Clone() Config {
	out := *c
	if c.Dimensions != nil {
		d := *c.Dimensions
		out.Dimensions = &d
	}
	if c.BackgroundZIndex != nil {
		z := *c.BackgroundZIndex
		out.BackgroundZIndex = &z
	}
	if c.Layers != nil {
		out.Layers = make([]Element, len(c.Layers))
		for i, el := range c.Layers {
			if el.Styles.ZIndex != nil {
				z := *el.Styles.ZIndex
				el.Styles.ZIndex = &z
			}
			out.Layers[i] = el
		}
	}
	return out
}
