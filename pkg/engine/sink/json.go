package sink

import (
	"encoding/json"

	"github.com/cardpress/cardpress/pkg/engine"
	"github.com/cardpress/cardpress/pkg/errors"
)

// RenderJSON exports the resolved scene as indented JSON. The dump is the
// exact node list a visual sink would draw, in draw order, which makes it
// useful for external tooling and for asserting render equivalence in
// tests without comparing pixels.
func RenderJSON(scene engine.Scene) ([]byte, error) {
	data, err := json.MarshalIndent(scene, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding scene")
	}
	return append(data, '\n'), nil
}
