// Package canvas implements the interactive editing surface for custom
// layouts.
//
// The canvas is a headless interaction model: the host UI feeds it
// container size changes and pointer events in screen coordinates, and the
// canvas translates them into design-space edits (drag-to-reposition,
// layer selection, click-to-upload) reported through callbacks. All layer
// geometry stays in design space; the only presentation concern the canvas
// owns is the single top-left-origin scale factor between the two spaces.
//
// Read-only canvases (thumbnail and catalog previews) disable selection,
// dragging, and the upload affordance wholesale.
package canvas

import (
	"context"
	"io"
	"math"
	"sync"

	"github.com/cardpress/cardpress/pkg/engine"
	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/template"
)

// UploadFunc is the injected upload boundary: it stores the file and
// returns a public URL.
type UploadFunc func(ctx context.Context, filename string, r io.Reader) (string, error)

// Option configures a Canvas at construction.
type Option func(*Canvas)

// ReadOnly disables selection, dragging, and uploads.
func ReadOnly() Option {
	return func(c *Canvas) { c.readOnly = true }
}

// WithUploader injects the upload function used by uploadable layers.
func WithUploader(fn UploadFunc) Option {
	return func(c *Canvas) { c.upload = fn }
}

// WithOnLayerMoved registers the callback fired with new design-space
// coordinates while a layer is dragged.
func WithOnLayerMoved(fn func(layerID string, x, y int)) Option {
	return func(c *Canvas) { c.onLayerMoved = fn }
}

// WithOnContentChanged registers the callback fired when an upload writes
// into the content bag.
func WithOnContentChanged(fn func(key, value string)) Option {
	return func(c *Canvas) { c.onContentChanged = fn }
}

// WithOnSelect registers the callback fired when pointer-down lands on a
// layer.
func WithOnSelect(fn func(layerID string)) Option {
	return func(c *Canvas) { c.onSelect = fn }
}

type dragState struct {
	active  bool
	layerID string
	// Grab offset within the element, in design-space units.
	offsetX float64
	offsetY float64
}

// Canvas renders a custom-layout config at screen scale and turns pointer
// gestures into design-space edits. Safe for use from a single UI
// goroutine; the mutex guards against concurrent resize observations.
type Canvas struct {
	mu sync.Mutex

	cfg     template.Config
	content template.ContentData

	containerWidth float64
	readOnly       bool
	selected       string
	drag           dragState

	upload           UploadFunc
	onLayerMoved     func(string, int, int)
	onContentChanged func(string, string)
	onSelect         func(string)
}

// New creates a canvas for the given config and content.
func New(cfg template.Config, content template.ContentData, opts ...Option) *Canvas {
	c := &Canvas{cfg: cfg.Clone(), content: content.Clone()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetConfig replaces the rendered config. The builder calls this after
// every edit so the canvas always reflects authoritative state.
func (c *Canvas) SetConfig(cfg template.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg.Clone()
}

// SetContent replaces the content bag.
func (c *Canvas) SetContent(content template.ContentData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = content.Clone()
}

// Content returns a copy of the current content bag.
func (c *Canvas) Content() template.ContentData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content.Clone()
}

// SetContainerWidth records the on-screen container width. The host calls
// this from its resize observer; every subsequent coordinate conversion
// picks up the new scale, including moves within an in-flight drag.
func (c *Canvas) SetContainerWidth(w float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.containerWidth = w
}

// Scale is the screen/design ratio with origin at top-left. Before the
// first size observation it is 1 (design space shown 1:1).
func (c *Canvas) Scale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scaleLocked()
}

func (c *Canvas) scaleLocked() float64 {
	designW := float64(c.cfg.EffectiveDimensions().Width)
	if c.containerWidth <= 0 || designW <= 0 {
		return 1
	}
	return c.containerWidth / designW
}

// Scene renders the current config, with the selected layer forced on top
// unless the canvas is read-only.
func (c *Canvas) Scene() engine.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	var opts []engine.Option
	if !c.readOnly && c.selected != "" {
		opts = append(opts, engine.WithSelected(c.selected))
	}
	return engine.Render(&c.cfg, c.content, opts...)
}

// SelectedLayer returns the id of the currently selected layer, if any.
func (c *Canvas) SelectedLayer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Dragging reports whether a drag gesture is in progress.
func (c *Canvas) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drag.active
}

// PointerDown handles a press at container-relative screen coordinates.
// If it lands on a layer the layer becomes selected and a drag begins,
// with the grab offset captured in design units so later moves are
// scale-invariant. Returns the hit layer id, if any.
func (c *Canvas) PointerDown(screenX, screenY float64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return "", false
	}

	scale := c.scaleLocked()
	designX := screenX / scale
	designY := screenY / scale

	el, ok := c.hitTestLocked(designX, designY)
	if !ok {
		c.selected = ""
		c.drag = dragState{}
		return "", false
	}

	c.selected = el.ID
	c.drag = dragState{
		active:  true,
		layerID: el.ID,
		offsetX: designX - float64(el.X),
		offsetY: designY - float64(el.Y),
	}
	if c.onSelect != nil {
		c.onSelect(el.ID)
	}
	return el.ID, true
}

// PointerMove handles movement while a drag may be active. The scale is
// recomputed on every move rather than cached at drag start, so container
// resizes mid-drag do not corrupt positions. New coordinates are rounded
// to integer design pixels and reported through the move callback.
func (c *Canvas) PointerMove(screenX, screenY float64) {
	c.mu.Lock()
	if !c.drag.active {
		c.mu.Unlock()
		return
	}
	scale := c.scaleLocked()
	newX := int(math.Round(screenX/scale - c.drag.offsetX))
	newY := int(math.Round(screenY/scale - c.drag.offsetY))
	id := c.drag.layerID

	c.applyMoveLocked(id, newX, newY)
	cb := c.onLayerMoved
	c.mu.Unlock()

	if cb != nil {
		cb(id, newX, newY)
	}
}

// applyMoveLocked rebuilds the layer list with the moved element replaced,
// mirroring the builder's wholesale-replace update discipline.
func (c *Canvas) applyMoveLocked(id string, x, y int) {
	layers := make([]template.Element, len(c.cfg.Layers))
	for i, el := range c.cfg.Layers {
		if el.ID == id {
			el.X = x
			el.Y = y
		}
		layers[i] = el
	}
	c.cfg.Layers = layers
}

// PointerUp ends any drag. It is always safe to call, including after a
// release that happened outside the canvas.
func (c *Canvas) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag = dragState{}
}

// PointerLeave ends any drag when the pointer exits the canvas bounds; a
// stuck dragging state must never survive an off-canvas release.
func (c *Canvas) PointerLeave() {
	c.PointerUp()
}

// hitTestLocked finds the topmost layer whose box contains the design
// point. Hit boxes are axis-aligned; rotation affects drawing only.
func (c *Canvas) hitTestLocked(x, y float64) (template.Element, bool) {
	scene := engine.Render(&c.cfg, c.content)
	for i := len(scene.Nodes) - 1; i >= 0; i-- {
		n := scene.Nodes[i]
		if n.LayerID == "" {
			continue
		}
		if x >= n.X && x <= n.X+n.Width && y >= n.Y && y <= n.Y+n.Height {
			if el, ok := c.cfg.Layer(n.LayerID); ok {
				return el, true
			}
		}
	}
	return template.Element{}, false
}

// Upload runs the click-to-upload affordance for an uploadable image
// layer. On success the public URL is written into the content bag under
// the layer's variable binding and the content-changed callback fires.
//
// A layer with no variable binding has no defined destination: the upload
// still runs (the asset is not dropped) and its URL is returned alongside
// an ErrCodeInvalidElement error so the caller can decide what to do.
func (c *Canvas) Upload(ctx context.Context, layerID, filename string, r io.Reader) (string, error) {
	c.mu.Lock()
	if c.readOnly {
		c.mu.Unlock()
		return "", errors.New(errors.ErrCodeUnsupported, "canvas is read-only")
	}
	el, ok := c.cfg.Layer(layerID)
	upload := c.upload
	c.mu.Unlock()

	if !ok {
		return "", errors.New(errors.ErrCodeLayerNotFound, "layer %q not found", layerID)
	}
	if !el.IsUploadable {
		return "", errors.New(errors.ErrCodeInvalidElement, "layer %q is not uploadable", layerID)
	}
	if upload == nil {
		return "", errors.New(errors.ErrCodeUploadFailed, "no uploader configured")
	}

	url, err := upload(ctx, filename, r)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUploadFailed, err, "uploading %s", filename)
	}

	if el.VariableID == "" {
		return url, errors.New(errors.ErrCodeInvalidElement,
			"layer %q has no variable binding for the uploaded asset", layerID)
	}

	c.mu.Lock()
	if c.content == nil {
		c.content = template.ContentData{}
	}
	c.content[el.VariableID] = url
	cb := c.onContentChanged
	c.mu.Unlock()

	if cb != nil {
		cb(el.VariableID, url)
	}
	return url, nil
}
