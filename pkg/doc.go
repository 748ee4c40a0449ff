// Package pkg provides the core libraries for Cardpress social-image
// rendering.
//
// # Overview
//
// Cardpress turns declarative template configs into share-ready social
// images. A template is a canvas size plus a stack of positioned layers
// (text, images, rectangles, icons, inline SVG) whose content is bound to
// named variables at render time. The pkg directory is organized into:
//
//  1. [template] - Config model (layouts, layers, presets, validation)
//  2. [engine] - Scene resolution (variable binding, auto-fit, z-ordering)
//  3. [engine/sink] - Output backends (SVG markup, PNG rasterization)
//  4. [builder] - Interactive editing session with debounced previews
//  5. [store] - Template persistence and asset reference counting
//  6. [cache] / [fetch] / [assets] - Render cache, remote images, uploads
//
// # Architecture
//
// The typical data flow:
//
//	Template config (JSON)
//	         ↓
//	    [template] package (decode + validate)
//	         ↓
//	    [engine] package (bind content, resolve layout to a scene)
//	         ↓
//	    [engine/sink] package (SVG or PNG bytes)
//
// # Quick Start
//
// Render a config to PNG:
//
//	cfg, err := template.ParseConfig(data)
//	if err != nil { ... }
//	scene := engine.Render(&cfg, template.ContentData{
//	    template.KeyTitle: "Release day",
//	})
//	png, err := sink.RenderPNG(ctx, scene)
package pkg
