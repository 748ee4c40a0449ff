package template

import "github.com/cardpress/cardpress/pkg/errors"

// Validate checks the structural invariants the builder enforces before a
// config is persisted. Rendering is deliberately more forgiving than this:
// unknown layouts and icon names degrade at render time instead of failing,
// so Validate is a save-time gate, not a render-time one.
//
// Checked invariants:
//   - layout is a known enum value
//   - explicit dimensions have positive width and height
//   - layer ids are unique and non-empty
//   - layer types are known enum values
//   - an uploadable layer carries a variable binding (otherwise an upload
//     would have no destination; see Element.IsUploadable)
func (c *Config) Validate() error {
	if !c.Layout.Valid() {
		return errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", c.Layout)
	}
	if c.Dimensions != nil && (c.Dimensions.Width <= 0 || c.Dimensions.Height <= 0) {
		return errors.New(errors.ErrCodeInvalidDimensions, "dimensions must be positive, got %dx%d",
			c.Dimensions.Width, c.Dimensions.Height)
	}

	seen := make(map[string]struct{}, len(c.Layers))
	for i, el := range c.Layers {
		if el.ID == "" {
			return errors.New(errors.ErrCodeInvalidElement, "layer %d has no id", i)
		}
		if _, dup := seen[el.ID]; dup {
			return errors.New(errors.ErrCodeInvalidElement, "duplicate layer id %q", el.ID)
		}
		seen[el.ID] = struct{}{}

		if !el.Type.Valid() {
			return errors.New(errors.ErrCodeInvalidElement, "layer %q has unknown type %q", el.ID, el.Type)
		}
		if el.IsUploadable && el.Type != ElementImage {
			return errors.New(errors.ErrCodeInvalidElement, "layer %q: only image layers can be uploadable", el.ID)
		}
		if el.IsUploadable && el.VariableID == "" {
			return errors.New(errors.ErrCodeInvalidElement,
				"layer %q is uploadable but has no variable binding", el.ID)
		}
	}
	return nil
}
