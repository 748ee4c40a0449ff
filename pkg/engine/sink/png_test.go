package sink

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/cardpress/cardpress/pkg/engine"
	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/template"
)

type fakeFetcher struct {
	img  image.Image
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (image.Image, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

func solid(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRenderPNGDimensionsAndScale(t *testing.T) {
	scene := engine.Scene{Width: 120, Height: 63, Background: "#ffffff"}

	tests := []struct {
		name  string
		opts  []PNGOption
		wantW int
		wantH int
	}{
		{"default scale", nil, 120, 63},
		{"2x scale", []PNGOption{WithScale(2)}, 240, 126},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderPNG(context.Background(), scene, tt.opts...)
			if err != nil {
				t.Fatalf("RenderPNG: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decoding output: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("output %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderPNGDrawsAllKinds(t *testing.T) {
	fetcher := &fakeFetcher{img: solid(50, 50, color.NRGBA{R: 255, A: 255})}
	scene := engine.Scene{
		Width: 200, Height: 200, Background: "#ffffff",
		Nodes: []engine.Node{
			{Kind: engine.KindBackground, Width: 200, Height: 200, ImageURL: "https://x/bg.png"},
			{Kind: engine.KindRect, X: 10, Y: 10, Width: 50, Height: 50, Fill: "#00ff00", CornerRadius: 8},
			{Kind: engine.KindText, X: 10, Y: 80, Width: 180, Text: "Hello", FontSize: 24,
				FontWeight: "bold", Align: template.AlignCenter, Color: "#000000"},
			{Kind: engine.KindImage, X: 80, Y: 120, Width: 60, Height: 60, ImageURL: "https://x/a.png"},
			{Kind: engine.KindIcon, X: 150, Y: 10, Width: 24, Height: 24, IconViewBox: "0 0 24 24",
				IconPath: "M0 0L24 0L24 24L0 24z", Color: "#ff00ff"},
			{Kind: engine.KindImage, X: 10, Y: 150, Width: 40, Height: 40, Placeholder: "drop"},
		},
	}

	data, err := RenderPNG(context.Background(), scene, WithImageFetcher(fetcher))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	if len(fetcher.urls) != 2 {
		t.Errorf("fetched %d images, want 2 (background + layer)", len(fetcher.urls))
	}
}

func TestRenderPNGFetchFailureIsExplicit(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New(errors.ErrCodeNetwork, "boom")}
	scene := engine.Scene{
		Width: 100, Height: 100,
		Nodes: []engine.Node{{Kind: engine.KindImage, Width: 50, Height: 50, ImageURL: "https://x/a.png"}},
	}

	_, err := RenderPNG(context.Background(), scene, WithImageFetcher(fetcher))
	if err == nil {
		t.Fatal("expected error for failed image fetch")
	}
	if !errors.Is(err, errors.ErrCodeRasterFailed) {
		t.Errorf("error code = %v, want RASTER_FAILED", errors.GetCode(err))
	}
}

func TestRenderPNGInvalidColorIsSilent(t *testing.T) {
	scene := engine.Scene{
		Width: 50, Height: 50, Background: "not-a-color",
		Nodes: []engine.Node{
			{Kind: engine.KindRect, Width: 20, Height: 20, Fill: "also!bogus"},
		},
	}
	if _, err := RenderPNG(context.Background(), scene); err != nil {
		t.Fatalf("invalid colors must not error: %v", err)
	}
}
