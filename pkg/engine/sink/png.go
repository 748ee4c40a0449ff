package sink

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/cardpress/cardpress/pkg/engine"
	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/fonts"
	"github.com/cardpress/cardpress/pkg/template"
)

// ImageFetcher loads remote images referenced by background and image
// nodes. Implementations must be safe for concurrent use.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale   float64
	fetcher ImageFetcher
}

// WithScale sets the raster scale factor (default 1.0; use 2.0 for 2x
// resolution exports).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithImageFetcher replaces the default HTTP fetcher. Tests use this to
// avoid network access.
func WithImageFetcher(f ImageFetcher) PNGOption {
	return func(r *pngRenderer) { r.fetcher = f }
}

// RenderPNG rasterizes the scene with the embedded Go fonts.
//
// Inline-SVG layers are a vector-only feature and are skipped here; every
// other node kind draws. A failed image fetch aborts the render with
// ErrCodeRasterFailed so callers can surface it, matching the rule that
// rasterization failures are explicit errors rather than partial output.
func RenderPNG(ctx context.Context, scene engine.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1.0, fetcher: defaultFetcher}
	for _, opt := range opts {
		opt(&r)
	}

	dc := gg.NewContext(int(float64(scene.Width)*r.scale), int(float64(scene.Height)*r.scale))
	dc.Scale(r.scale, r.scale)

	if c, ok := parseColor(scene.Background); ok {
		dc.SetColor(c)
		dc.Clear()
	}

	for _, n := range scene.Nodes {
		if err := r.drawNode(ctx, dc, n); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterFailed, err, "encoding png")
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) drawNode(ctx context.Context, dc *gg.Context, n engine.Node) error {
	if n.Rotation != 0 {
		dc.Push()
		dc.RotateAbout(gg.Radians(n.Rotation), n.X+n.Width/2, n.Y+n.Height/2)
		defer dc.Pop()
	}

	switch n.Kind {
	case engine.KindBackground, engine.KindImage:
		return r.drawImage(ctx, dc, n)
	case engine.KindRect:
		if c, ok := parseColor(n.Fill); ok {
			dc.SetColor(c)
			dc.DrawRoundedRectangle(n.X, n.Y, n.Width, n.Height, float64(n.CornerRadius))
			dc.Fill()
		}
	case engine.KindText:
		return drawText(dc, n)
	case engine.KindIcon:
		return drawIcon(dc, n)
	case engine.KindSVG:
		// Raw markup needs a full SVG renderer; vector output only.
	}
	return nil
}

func (r *pngRenderer) drawImage(ctx context.Context, dc *gg.Context, n engine.Node) error {
	if n.ImageURL == "" {
		drawPlaceholder(dc, n)
		return nil
	}

	img, err := r.fetcher.Fetch(ctx, n.ImageURL)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRasterFailed, err, "fetching image %s", n.ImageURL)
	}
	// Cover fit: fill the node box, cropping overflow around the center.
	fitted := imaging.Fill(img, int(n.Width), int(n.Height), imaging.Center, imaging.Lanczos)

	if n.CornerRadius > 0 {
		dc.DrawRoundedRectangle(n.X, n.Y, n.Width, n.Height, float64(n.CornerRadius))
		dc.Clip()
		defer dc.ResetClip()
	}
	dc.DrawImage(fitted, int(n.X), int(n.Y))
	return nil
}

func drawPlaceholder(dc *gg.Context, n engine.Node) {
	dc.SetRGB(0.61, 0.64, 0.69)
	dc.SetDash(8, 4)
	dc.SetLineWidth(2)
	dc.DrawRoundedRectangle(n.X, n.Y, n.Width, n.Height, float64(n.CornerRadius))
	dc.Stroke()
	dc.SetDash()

	if n.Placeholder == "" {
		return
	}
	face, err := fonts.Face(14, fonts.Regular)
	if err != nil {
		return
	}
	dc.SetFontFace(face)
	dc.SetRGB(0.42, 0.45, 0.5)
	dc.DrawStringAnchored(n.Placeholder, n.X+n.Width/2, n.Y+n.Height/2, 0.5, 0.5)
}

func drawText(dc *gg.Context, n engine.Node) error {
	if n.Text == "" {
		return nil
	}
	if c, ok := parseColor(n.Fill); ok {
		dc.SetColor(c)
		dc.DrawRoundedRectangle(n.X, n.Y, n.Width, n.Height, float64(n.CornerRadius))
		dc.Fill()
	}

	face, err := fonts.Face(float64(n.FontSize), fonts.WeightFor(n.FontWeight))
	if err != nil {
		return errors.Wrap(errors.ErrCodeRasterFailed, err, "loading font face")
	}
	dc.SetFontFace(face)

	if c, ok := parseColor(n.Color); ok {
		dc.SetColor(c)
	} else {
		dc.SetRGB(0, 0, 0)
	}

	if n.Width > 0 {
		align := gg.AlignLeft
		switch n.Align {
		case template.AlignCenter:
			align = gg.AlignCenter
		case template.AlignRight:
			align = gg.AlignRight
		}
		dc.DrawStringWrapped(n.Text, n.X, n.Y, 0, 0, n.Width, 1.3, align)
		return nil
	}
	dc.DrawStringAnchored(n.Text, n.X, n.Y, 0, 1)
	return nil
}

func drawIcon(dc *gg.Context, n engine.Node) error {
	segs, err := parsePathData(n.IconPath)
	if err != nil {
		// Registry data is static and parseable; dynamic configs with
		// junk paths degrade to nothing, same as unknown icon names.
		return nil
	}
	_, _, vw, vh := parseViewBox(n.IconViewBox)
	if n.Width <= 0 || n.Height <= 0 {
		return nil
	}

	dc.Push()
	dc.Translate(n.X, n.Y)
	dc.Scale(n.Width/vw, n.Height/vh)
	for _, s := range segs {
		switch s.Op {
		case 'M':
			dc.MoveTo(s.Pts[0].X, s.Pts[0].Y)
		case 'L':
			dc.LineTo(s.Pts[0].X, s.Pts[0].Y)
		case 'C':
			dc.CubicTo(s.Pts[0].X, s.Pts[0].Y, s.Pts[1].X, s.Pts[1].Y, s.Pts[2].X, s.Pts[2].Y)
		case 'Z':
			dc.ClosePath()
		}
	}
	if c, ok := parseColor(n.Color); ok {
		dc.SetColor(c)
	} else {
		dc.SetRGB(0, 0, 0)
	}
	dc.Fill()
	dc.Pop()
	return nil
}

// defaultFetcher loads images over HTTP with a bounded timeout.
var defaultFetcher ImageFetcher = &httpFetcher{
	client: &http.Client{Timeout: 15 * time.Second},
}

type httpFetcher struct {
	client *http.Client
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "building request for %s", url)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetching %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeNetwork, "fetching %s: status %d", url, resp.StatusCode)
	}
	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decoding image %s", url)
	}
	return img, nil
}
