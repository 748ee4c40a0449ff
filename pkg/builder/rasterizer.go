package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cardpress/cardpress/pkg/engine"
	"github.com/cardpress/cardpress/pkg/engine/sink"
	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/template"
)

// Rasterizer turns a template config plus content into image bytes.
// The builder never rasterizes fixed layouts itself; it talks to this
// boundary, which may be in-process or a remote rendering service.
type Rasterizer interface {
	Rasterize(ctx context.Context, cfg *template.Config, content template.ContentData) ([]byte, error)
}

// LocalRasterizer renders in-process through the scene pipeline.
type LocalRasterizer struct {
	opts []sink.PNGOption
}

// NewLocalRasterizer creates an in-process rasterizer. The sink options
// (scale, image fetcher) apply to every render.
func NewLocalRasterizer(opts ...sink.PNGOption) *LocalRasterizer {
	return &LocalRasterizer{opts: opts}
}

// Rasterize implements Rasterizer.
func (r *LocalRasterizer) Rasterize(ctx context.Context, cfg *template.Config, content template.ContentData) ([]byte, error) {
	scene := engine.Render(cfg, content)
	return sink.RenderPNG(ctx, scene, r.opts...)
}

// HTTPRasterizer calls a remote render endpoint: it posts the config and
// content as JSON and receives PNG bytes back.
type HTTPRasterizer struct {
	endpoint string
	client   *http.Client
}

// renderRequest is the wire shape of the render endpoint.
type renderRequest struct {
	Config  *template.Config     `json:"config"`
	Content template.ContentData `json:"content,omitempty"`
}

// NewHTTPRasterizer creates a client for a remote render endpoint, e.g.
// "http://localhost:8080/v1/render".
func NewHTTPRasterizer(endpoint string) *HTTPRasterizer {
	return &HTTPRasterizer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Rasterize implements Rasterizer.
func (r *HTTPRasterizer) Rasterize(ctx context.Context, cfg *template.Config, content template.ContentData) ([]byte, error) {
	body, err := json.Marshal(renderRequest{Config: cfg, Content: content})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding render request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "building render request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "calling rasterizer at %s", r.endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.New(errors.ErrCodeRasterFailed, "rasterizer returned %d: %s", resp.StatusCode, msg)
	}
	return io.ReadAll(resp.Body)
}

var (
	_ Rasterizer = (*LocalRasterizer)(nil)
	_ Rasterizer = (*HTTPRasterizer)(nil)
)
