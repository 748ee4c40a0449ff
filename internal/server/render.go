package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cardpress/cardpress/pkg/engine"
	"github.com/cardpress/cardpress/pkg/engine/sink"
	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/observability"
	"github.com/cardpress/cardpress/pkg/template"
)

// renderRequest is the body of POST /v1/render. Config stays raw so the
// cache key hashes the caller's exact bytes.
type renderRequest struct {
	Config  json.RawMessage      `json:"config"`
	Content template.ContentData `json:"content,omitempty"`
	Format  string               `json:"format,omitempty"` // "png" (default) or "svg"
	Scale   float64              `json:"scale,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "reading request body"))
		return
	}

	var req renderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding render request"))
		return
	}
	if req.Format == "" {
		req.Format = "png"
	}
	if req.Format != "png" && req.Format != "svg" {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", req.Format))
		return
	}
	if req.Scale <= 0 {
		req.Scale = 1
	}

	cfg, err := template.ParseConfig(req.Config)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	key := s.keyer.RenderKey(req.Config, req.Content, req.Format, req.Scale)
	if data, hit, cerr := s.cache.Get(ctx, key); cerr == nil && hit {
		observability.Cache().OnCacheHit(ctx, "render")
		writeImage(w, req.Format, data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	start := time.Now()
	observability.Render().OnRenderStart(ctx, string(cfg.Layout), req.Format)

	scene := engine.Render(&cfg, req.Content)
	var out []byte
	if req.Format == "svg" {
		out = sink.RenderSVG(scene)
	} else {
		pngOpts := []sink.PNGOption{sink.WithScale(req.Scale)}
		if s.fetcher != nil {
			pngOpts = append(pngOpts, sink.WithImageFetcher(s.fetcher))
		}
		out, err = sink.RenderPNG(ctx, scene, pngOpts...)
	}
	observability.Render().OnRenderComplete(ctx, string(cfg.Layout), req.Format, len(out), time.Since(start), err)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.cache.Set(ctx, key, out, s.cacheTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(out))
	}
	writeImage(w, req.Format, out)
}

func writeImage(w http.ResponseWriter, format string, data []byte) {
	if format == "svg" {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "image/png")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
