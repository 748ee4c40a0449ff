// Package builder is the template editing state machine.
//
// A Builder owns the authoritative in-memory [template.Config] for one
// editing session. Every control routes through a single
// [Builder.UpdateConfig] entry point that replaces one top-level field;
// the layer list is always replaced wholesale, never patched in place.
//
// Custom layouts re-render synchronously: callers read [Builder.Scene]
// after any edit. Fixed layouts go through the [Rasterizer] boundary,
// debounced so a burst of edits collapses into a single trailing render,
// with stale in-flight responses dropped (last request wins).
package builder

import (
	"context"
	"sync"
	"time"

	"github.com/cardpress/cardpress/pkg/engine"
	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/store"
	"github.com/cardpress/cardpress/pkg/template"
)

// DefaultDebounce is the trailing delay before a fixed-layout edit
// triggers a rasterizer call.
const DefaultDebounce = 500 * time.Millisecond

// PreviewFunc receives the result of a debounced rasterize call. It is
// invoked outside the builder's lock, once per non-superseded request.
type PreviewFunc func(png []byte, err error)

// Option configures a Builder.
type Option func(*Builder)

// WithConfig starts the session from an existing config instead of the
// default new-template config. The config is deep-copied.
func WithConfig(cfg template.Config) Option {
	return func(b *Builder) { b.cfg = cfg.Clone() }
}

// WithContent seeds the content-variable bag.
func WithContent(content template.ContentData) Option {
	return func(b *Builder) { b.content = content.Clone() }
}

// WithRasterizer sets the preview rasterizer for fixed layouts.
func WithRasterizer(r Rasterizer) Option {
	return func(b *Builder) { b.raster = r }
}

// WithOnPreview registers the preview callback.
func WithOnPreview(fn PreviewFunc) Option {
	return func(b *Builder) { b.onPreview = fn }
}

// WithDebounce overrides the trailing debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(b *Builder) { b.debounce = d }
}

// WithStore sets the persistence manager used by Save.
func WithStore(m *store.Manager) Option {
	return func(b *Builder) { b.manager = m }
}

// WithRecord resumes editing a previously saved template.
func WithRecord(rec store.Record) Option {
	return func(b *Builder) {
		b.id = rec.ID
		b.orgID = rec.OrgID
		b.name = rec.Name
		b.category = rec.Category
	}
}

// Builder orchestrates edits to one template config.
type Builder struct {
	mu sync.Mutex

	cfg      template.Config
	content  template.ContentData
	selected string

	id       string
	orgID    string
	name     string
	category string

	raster    Rasterizer
	onPreview PreviewFunc
	debounce  time.Duration
	timer     *time.Timer
	seq       uint64

	manager *store.Manager
}

// New creates a builder. A fresh session starts with the custom layout
// and a single default text layer bound to the title variable.
func New(opts ...Option) *Builder {
	b := &Builder{
		cfg:      defaultConfig(),
		content:  template.ContentData{},
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func defaultConfig() template.Config {
	title := template.NewElement(template.ElementText)
	title.X = 100
	title.Y = 250
	title.Width = 1000
	title.Height = 120
	title.Content = "Your title here"
	title.VariableID = template.KeyTitle
	title.Styles = template.Styles{FontSize: 64, FontWeight: "bold", TextAlign: template.AlignCenter, AutoFit: true}

	return template.Config{
		Layout: template.LayoutCustom,
		Layers: []template.Element{title},
	}
}

// Config returns a deep copy of the current config.
func (b *Builder) Config() template.Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.Clone()
}

// Content returns a copy of the current content bag.
func (b *Builder) Content() template.ContentData {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content.Clone()
}

// Scene renders the current state for the interactive canvas. The
// selected layer, if any, draws on top.
func (b *Builder) Scene() engine.Scene {
	b.mu.Lock()
	cfg := b.cfg.Clone()
	content := b.content.Clone()
	selected := b.selected
	b.mu.Unlock()

	var opts []engine.Option
	if selected != "" {
		opts = append(opts, engine.WithSelected(selected))
	}
	return engine.Render(&cfg, content, opts...)
}

// UpdateConfig replaces one top-level config field. The layers field is
// replaced wholesale; callers editing a single layer must pass the full
// reconstructed list (or use the layer helpers, which do that).
func (b *Builder) UpdateConfig(ctx context.Context, key string, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch key {
	case "layout":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		layout := template.Layout(s)
		if !layout.Valid() {
			return errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", s)
		}
		b.cfg.Layout = layout
	case "primaryColor":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		b.cfg.PrimaryColor = s
	case "backgroundColor":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		b.cfg.BackgroundColor = s
	case "textColor":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		b.cfg.TextColor = s
	case "fontFamily":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		b.cfg.FontFamily = s
	case "showIcon":
		v, ok := value.(bool)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "config key %q wants a bool, got %T", key, value)
		}
		b.cfg.ShowIcon = v
	case "iconName":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		b.cfg.IconName = s
	case "backgroundImage":
		s, err := asString(key, value)
		if err != nil {
			return err
		}
		b.cfg.BackgroundImage = s
	case "backgroundZIndex":
		n, err := asInt(key, value)
		if err != nil {
			return err
		}
		b.cfg.BackgroundZIndex = &n
	case "dimensions":
		d, err := asDimensions(value)
		if err != nil {
			return err
		}
		b.cfg.Dimensions = d
	case "layers":
		layers, ok := value.([]template.Element)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "config key %q wants []Element, got %T", key, value)
		}
		if err := validateLayers(layers); err != nil {
			return err
		}
		b.cfg.Layers = append([]template.Element(nil), layers...)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", key)
	}

	b.schedulePreviewLocked(ctx)
	return nil
}

// SetContent writes one content variable and refreshes the preview.
func (b *Builder) SetContent(ctx context.Context, key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.content == nil {
		b.content = template.ContentData{}
	}
	b.content[key] = value
	b.schedulePreviewLocked(ctx)
}

// AddTextLayer appends a new text layer and returns it.
func (b *Builder) AddTextLayer(ctx context.Context) template.Element {
	el := template.NewElement(template.ElementText)
	el.X = 100
	el.Y = 100
	el.Width = 400
	el.Height = 60
	el.Content = "New text"
	el.Styles = template.Styles{FontSize: 32}
	b.appendLayer(ctx, el)
	return el
}

// AddImageLayer appends a new image layer and returns it.
func (b *Builder) AddImageLayer(ctx context.Context) template.Element {
	el := template.NewElement(template.ElementImage)
	el.X = 100
	el.Y = 100
	el.Width = 300
	el.Height = 300
	el.PlaceholderText = "Drop an image"
	b.appendLayer(ctx, el)
	return el
}

// AddShapeLayer appends a new rectangle layer and returns it.
func (b *Builder) AddShapeLayer(ctx context.Context) template.Element {
	el := template.NewElement(template.ElementRect)
	el.X = 100
	el.Y = 100
	el.Width = 200
	el.Height = 200
	el.Styles = template.Styles{BackgroundColor: "#e5e7eb"}
	b.appendLayer(ctx, el)
	return el
}

func (b *Builder) appendLayer(ctx context.Context, el template.Element) {
	b.mu.Lock()
	defer b.mu.Unlock()
	layers := append([]template.Element(nil), b.cfg.Layers...)
	b.cfg.Layers = append(layers, el)
	b.selected = el.ID
	b.schedulePreviewLocked(ctx)
}

// RemoveLayer deletes a layer by id. The remaining layers keep their ids
// and relative order.
func (b *Builder) RemoveLayer(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	layers := make([]template.Element, 0, len(b.cfg.Layers))
	found := false
	for _, el := range b.cfg.Layers {
		if el.ID == id {
			found = true
			continue
		}
		layers = append(layers, el)
	}
	if !found {
		return errors.New(errors.ErrCodeLayerNotFound, "layer %q not found", id)
	}
	b.cfg.Layers = layers
	if b.selected == id {
		b.selected = ""
	}
	b.schedulePreviewLocked(ctx)
	return nil
}

// UpdateLayer replaces the layer with el.ID by el. Marking a layer
// uploadable without a variable binding is rejected here, at edit time,
// so the canvas never sees that inconsistency.
func (b *Builder) UpdateLayer(ctx context.Context, el template.Element) error {
	if el.IsUploadable && el.VariableID == "" {
		return errors.New(errors.ErrCodeInvalidElement,
			"uploadable layer %q needs a variable binding", el.ID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	layers := append([]template.Element(nil), b.cfg.Layers...)
	for i := range layers {
		if layers[i].ID == el.ID {
			layers[i] = el
			b.cfg.Layers = layers
			b.schedulePreviewLocked(ctx)
			return nil
		}
	}
	return errors.New(errors.ErrCodeLayerNotFound, "layer %q not found", el.ID)
}

// MoveLayer repositions a layer. The canvas drag protocol calls this on
// every pointer move, so it takes the same wholesale-replacement path as
// any other layer edit.
func (b *Builder) MoveLayer(ctx context.Context, id string, x, y int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	layers := append([]template.Element(nil), b.cfg.Layers...)
	for i := range layers {
		if layers[i].ID == id {
			layers[i].X = x
			layers[i].Y = y
			b.cfg.Layers = layers
			b.schedulePreviewLocked(ctx)
			return nil
		}
	}
	return errors.New(errors.ErrCodeLayerNotFound, "layer %q not found", id)
}

// SelectLayer marks a layer as selected (empty id clears). Selection is
// edit-time state only; it never touches the config.
func (b *Builder) SelectLayer(id string) {
	b.mu.Lock()
	b.selected = id
	b.mu.Unlock()
}

// SelectedLayer returns the currently selected layer id.
func (b *Builder) SelectedLayer() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

// SetDimensionsPreset switches to a named preset, fully replacing the
// dimensions (no merge with previous custom values).
func (b *Builder) SetDimensionsPreset(ctx context.Context, label string) error {
	preset, ok := template.PresetByLabel(label)
	if !ok {
		return errors.New(errors.ErrCodeInvalidDimensions, "unknown dimensions preset %q", label)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg.Dimensions = &preset
	b.schedulePreviewLocked(ctx)
	return nil
}

// SetCustomSize patches width and height independently: a non-positive
// value keeps the current one. Any custom edit forces the Custom label.
func (b *Builder) SetCustomSize(ctx context.Context, width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.cfg.EffectiveDimensions()
	if width > 0 {
		cur.Width = width
	}
	if height > 0 {
		cur.Height = height
	}
	if cur.Width <= 0 || cur.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "dimensions must be positive, got %dx%d", cur.Width, cur.Height)
	}
	cur.Label = template.LabelCustom
	b.cfg.Dimensions = &cur
	b.schedulePreviewLocked(ctx)
	return nil
}

// SetName sets the template name used on save.
func (b *Builder) SetName(name string) {
	b.mu.Lock()
	b.name = name
	b.mu.Unlock()
}

// SetCategory sets the template category used on save.
func (b *Builder) SetCategory(category string) {
	b.mu.Lock()
	b.category = category
	b.mu.Unlock()
}

// SetOrg sets the owning organization used on save.
func (b *Builder) SetOrg(orgID string) {
	b.mu.Lock()
	b.orgID = orgID
	b.mu.Unlock()
}

// Save validates and persists the current config. On failure nothing is
// mutated; on success the assigned record id is retained so subsequent
// saves update the same template.
func (b *Builder) Save(ctx context.Context) (store.Record, error) {
	b.mu.Lock()
	if b.manager == nil {
		b.mu.Unlock()
		return store.Record{}, errors.New(errors.ErrCodeStoreFailed, "builder has no store")
	}
	cfg := b.cfg.Clone()
	rec := store.Record{
		ID:       b.id,
		OrgID:    b.orgID,
		Name:     b.name,
		Category: b.category,
	}
	b.mu.Unlock()

	data, err := cfg.Encode()
	if err != nil {
		return store.Record{}, err
	}
	rec.Config = data

	saved, err := b.manager.SaveTemplate(ctx, rec, &cfg)
	if err != nil {
		return store.Record{}, err
	}

	b.mu.Lock()
	b.id = saved.ID
	b.mu.Unlock()
	return saved, nil
}

// Close cancels any pending debounced preview.
func (b *Builder) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	// Advance the sequence so an already-fired render is dropped on arrival.
	b.seq++
}

// schedulePreviewLocked arms (or re-arms) the trailing debounce timer for
// fixed layouts. Custom layouts render synchronously through Scene, so
// edits there never touch the rasterizer.
func (b *Builder) schedulePreviewLocked(ctx context.Context) {
	if b.cfg.Layout == template.LayoutCustom || b.raster == nil || b.onPreview == nil {
		return
	}

	b.seq++
	seq := b.seq
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, func() {
		b.firePreview(ctx, seq)
	})
}

// firePreview runs one rasterize call. The snapshot is taken under the
// lock; the network call runs outside it. A response whose sequence has
// been superseded by a newer edit is dropped without reaching the
// callback, so an in-flight render can never overwrite a later state.
func (b *Builder) firePreview(ctx context.Context, seq uint64) {
	b.mu.Lock()
	if seq != b.seq {
		b.mu.Unlock()
		return
	}
	cfg := b.cfg.Clone()
	content := b.content.Clone()
	raster := b.raster
	onPreview := b.onPreview
	b.mu.Unlock()

	png, err := raster.Rasterize(ctx, &cfg, content)

	b.mu.Lock()
	stale := seq != b.seq
	b.mu.Unlock()
	if stale {
		return
	}
	onPreview(png, err)
}

func validateLayers(layers []template.Element) error {
	for _, el := range layers {
		if el.IsUploadable && el.VariableID == "" {
			return errors.New(errors.ErrCodeInvalidElement,
				"uploadable layer %q needs a variable binding", el.ID)
		}
	}
	return nil
}

func asString(key string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "config key %q wants a string, got %T", key, value)
	}
	return s, nil
}

// asInt accepts the numeric types a JSON decoder or caller plausibly
// hands over for an integer field.
func asInt(key string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "config key %q wants an integer, got %T", key, value)
}

func asDimensions(value any) (*template.Dimensions, error) {
	switch v := value.(type) {
	case template.Dimensions:
		return &v, nil
	case *template.Dimensions:
		if v == nil {
			return nil, nil
		}
		d := *v
		return &d, nil
	case nil:
		return nil, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "config key \"dimensions\" wants Dimensions, got %T", value)
}
