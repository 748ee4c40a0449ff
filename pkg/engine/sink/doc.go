// Package sink provides output renderers for computed scenes.
//
// # Overview
//
// A "sink" transforms an [engine.Scene] into a final output format:
//
//   - SVG: vector output, the format interactive previews embed
//   - PNG: raster output for fixed-layout previews and exports
//   - JSON: scene dump for external tools and tests
//
// # SVG Output
//
// [RenderSVG] emits the scene bottom-to-top. Text alignment, rotation,
// rounded corners, and inline SVG layer markup are expressed with native
// SVG attributes; selected layers get a dashed outline so builder previews
// can show the active layer.
//
// # PNG Output
//
// [RenderPNG] rasterizes the scene with fogleman/gg using the embedded Go
// fonts. Remote images (backgrounds and image layers) are fetched through
// an [ImageFetcher]; pass [WithImageFetcher] to stub network access in
// tests, and [WithScale] for high-DPI output:
//
//	png, err := sink.RenderPNG(ctx, scene, sink.WithScale(2))
//
// Icon layers carry SVG path data; a small path interpreter (M, L, H, V,
// C, S and close commands) replays it onto the raster context.
package sink
