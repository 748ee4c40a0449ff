package engine

import (
	"github.com/cardpress/cardpress/pkg/template"
	"github.com/cardpress/cardpress/pkg/template/icons"
)

// Fixed-layout typography. Sizes are design-space pixels at the canonical
// 1200x630 canvas and scale with the configured height for other presets.
const (
	fixedTitleSize    = 64
	fixedSubtitleSize = 32
	fixedFooterSize   = 24
	fixedIconSize     = 80
)

// scaled adjusts a canonical font size to the configured canvas height so
// fixed layouts keep their proportions on non-default presets.
func scaled(size int, dims template.Dimensions) int {
	if dims.Height == 630 {
		return size
	}
	return size * dims.Height / 630
}

func iconNode(cfg *template.Config, x, y, size float64) (Node, bool) {
	if !cfg.ShowIcon {
		return Node{}, false
	}
	ic, ok := icons.Lookup(cfg.IconName)
	if !ok {
		return Node{}, false
	}
	return Node{
		Kind:        KindIcon,
		X:           x,
		Y:           y,
		Width:       size,
		Height:      size,
		IconViewBox: ic.ViewBox,
		IconPath:    ic.Path,
		Color:       cfg.PrimaryColor,
	}, true
}

func fixedText(cfg *template.Config, text string, x, y, width float64, size int, align template.TextAlign) Node {
	return Node{
		Kind:       KindText,
		X:          x,
		Y:          y,
		Width:      width,
		Text:       text,
		FontSize:   FitFontSize(text, size, int(width)),
		FontFamily: cfg.FontFamily,
		Align:      align,
		Color:      cfg.TextColor,
	}
}

// renderSimpleCentered stacks icon, title, subtitle, and footer on the
// vertical center line.
func renderSimpleCentered(cfg *template.Config, content template.ContentData, dims template.Dimensions) []Node {
	w, h := float64(dims.Width), float64(dims.Height)
	var nodes []Node

	if cfg.BackgroundImage != "" {
		nodes = append(nodes, Node{Kind: KindBackground, Width: w, Height: h, ImageURL: cfg.BackgroundImage})
	}

	iconSize := float64(scaled(fixedIconSize, dims))
	if ic, ok := iconNode(cfg, w/2-iconSize/2, h*0.15, iconSize); ok {
		nodes = append(nodes, ic)
	}

	textW := w * 0.8
	textX := w * 0.1
	if title := content.Get(template.KeyTitle); title != "" {
		nodes = append(nodes, fixedText(cfg, title, textX, h*0.42, textW, scaled(fixedTitleSize, dims), template.AlignCenter))
	}
	if subtitle := content.Get(template.KeySubtitle); subtitle != "" {
		nodes = append(nodes, fixedText(cfg, subtitle, textX, h*0.58, textW, scaled(fixedSubtitleSize, dims), template.AlignCenter))
	}
	if footer := content.Get(template.KeyFooter); footer != "" {
		n := fixedText(cfg, footer, textX, h*0.88, textW, scaled(fixedFooterSize, dims), template.AlignCenter)
		n.Color = cfg.PrimaryColor
		nodes = append(nodes, n)
	}
	return nodes
}

// renderModernSplit draws a primary-color panel on the left 40% with the
// icon, and left-aligned text in the right column.
func renderModernSplit(cfg *template.Config, content template.ContentData, dims template.Dimensions) []Node {
	w, h := float64(dims.Width), float64(dims.Height)
	panelW := w * 0.4
	var nodes []Node

	if cfg.BackgroundImage != "" {
		nodes = append(nodes, Node{Kind: KindBackground, Width: w, Height: h, ImageURL: cfg.BackgroundImage})
	}

	nodes = append(nodes, Node{Kind: KindRect, Width: panelW, Height: h, Fill: cfg.PrimaryColor})

	iconSize := float64(scaled(fixedIconSize, dims))
	if ic, ok := iconNode(cfg, panelW/2-iconSize/2, h/2-iconSize/2, iconSize); ok {
		ic.Color = cfg.BackgroundColor
		nodes = append(nodes, ic)
	}

	textX := panelW + w*0.05
	textW := w - textX - w*0.05
	if title := content.Get(template.KeyTitle); title != "" {
		nodes = append(nodes, fixedText(cfg, title, textX, h*0.35, textW, scaled(fixedTitleSize, dims), template.AlignLeft))
	}
	if subtitle := content.Get(template.KeySubtitle); subtitle != "" {
		nodes = append(nodes, fixedText(cfg, subtitle, textX, h*0.55, textW, scaled(fixedSubtitleSize, dims), template.AlignLeft))
	}
	if footer := content.Get(template.KeyFooter); footer != "" {
		n := fixedText(cfg, footer, textX, h*0.88, textW, scaled(fixedFooterSize, dims), template.AlignLeft)
		n.Color = cfg.PrimaryColor
		nodes = append(nodes, n)
	}
	return nodes
}

// heroOverlay dims the hero image so text stays readable on top of it.
const heroOverlay = "rgba(0,0,0,0.45)"

// renderHeroImage covers the canvas with the featured image (background
// image as fallback) under a dark overlay, text anchored to the bottom.
func renderHeroImage(cfg *template.Config, content template.ContentData, dims template.Dimensions) []Node {
	w, h := float64(dims.Width), float64(dims.Height)
	var nodes []Node

	hero := firstNonEmpty(content.Get(template.KeyFeaturedImage), cfg.BackgroundImage)
	if hero != "" {
		nodes = append(nodes, Node{Kind: KindBackground, Width: w, Height: h, ImageURL: hero})
	}
	nodes = append(nodes, Node{Kind: KindRect, Width: w, Height: h, Fill: heroOverlay})

	textX := w * 0.08
	textW := w * 0.84
	if title := content.Get(template.KeyTitle); title != "" {
		nodes = append(nodes, fixedText(cfg, title, textX, h*0.62, textW, scaled(fixedTitleSize, dims), template.AlignLeft))
	}
	if subtitle := content.Get(template.KeySubtitle); subtitle != "" {
		nodes = append(nodes, fixedText(cfg, subtitle, textX, h*0.76, textW, scaled(fixedSubtitleSize, dims), template.AlignLeft))
	}
	if footer := content.Get(template.KeyFooter); footer != "" {
		n := fixedText(cfg, footer, textX, h*0.88, textW, scaled(fixedFooterSize, dims), template.AlignLeft)
		n.Color = cfg.PrimaryColor
		nodes = append(nodes, n)
	}
	return nodes
}
