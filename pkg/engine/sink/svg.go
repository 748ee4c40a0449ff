package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/cardpress/cardpress/pkg/engine"
	"github.com/cardpress/cardpress/pkg/fonts"
	"github.com/cardpress/cardpress/pkg/template"
)

// RenderSVG emits the scene as a standalone SVG document. Nodes are drawn
// in slice order, which the engine guarantees is bottom-to-top.
func RenderSVG(scene engine.Scene) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		scene.Width, scene.Height, scene.Width, scene.Height)

	if scene.Background != "" {
		fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="%s"/>`+"\n",
			scene.Width, scene.Height, escapeXML(scene.Background))
	}

	for i, n := range scene.Nodes {
		renderNode(&buf, n, i)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderNode(buf *bytes.Buffer, n engine.Node, idx int) {
	transform := rotationTransform(n)

	switch n.Kind {
	case engine.KindBackground:
		fmt.Fprintf(buf, `  <image href="%s" x="%.0f" y="%.0f" width="%.0f" height="%.0f" preserveAspectRatio="xMidYMid slice"/>`+"\n",
			escapeXML(n.ImageURL), n.X, n.Y, n.Width, n.Height)

	case engine.KindRect:
		fmt.Fprintf(buf, `  <rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" rx="%d" fill="%s"%s/>`+"\n",
			n.X, n.Y, n.Width, n.Height, n.CornerRadius, escapeXML(fillOr(n.Fill, "none")), transform)

	case engine.KindText:
		renderTextNode(buf, n, transform)

	case engine.KindImage:
		renderImageNode(buf, n, transform, idx)

	case engine.KindIcon:
		_, _, vw, vh := parseViewBox(n.IconViewBox)
		fmt.Fprintf(buf, `  <g transform="translate(%.0f %.0f) scale(%s %s)"><path d="%s" fill="%s"/></g>`+"\n",
			n.X, n.Y, trimFloat(n.Width/vw), trimFloat(n.Height/vh),
			escapeXML(n.IconPath), escapeXML(fillOr(n.Color, "currentColor")))

	case engine.KindSVG:
		// Inline layer markup passes through verbatim; it is
		// author-supplied template content, not untrusted input.
		fmt.Fprintf(buf, `  <g transform="translate(%.0f %.0f)%s">%s</g>`+"\n",
			n.X, n.Y, nestedRotation(n), n.SVGMarkup)
	}

	if n.Selected {
		fmt.Fprintf(buf, `  <rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="none" stroke="#3b82f6" stroke-width="2" stroke-dasharray="6 3"%s/>`+"\n",
			n.X-2, n.Y-2, n.Width+4, n.Height+4, transform)
	}
}

func renderTextNode(buf *bytes.Buffer, n engine.Node, transform string) {
	if n.Fill != "" {
		fmt.Fprintf(buf, `  <rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" rx="%d" fill="%s"%s/>`+"\n",
			n.X, n.Y, n.Width, n.Height, n.CornerRadius, escapeXML(n.Fill), transform)
	}

	x := n.X
	anchor := "start"
	switch n.Align {
	case template.AlignCenter:
		x = n.X + n.Width/2
		anchor = "middle"
	case template.AlignRight:
		x = n.X + n.Width
		anchor = "end"
	}

	family := n.FontFamily
	if family == "" {
		family = fonts.FontFamily
	}
	weight := n.FontWeight
	if weight == "" {
		weight = "normal"
	}

	fmt.Fprintf(buf, `  <text x="%s" y="%.0f" font-family="%s" font-size="%d" font-weight="%s" fill="%s" text-anchor="%s" dominant-baseline="hanging"%s>%s</text>`+"\n",
		trimFloat(x), n.Y, escapeXML(family), n.FontSize, escapeXML(weight),
		escapeXML(fillOr(n.Color, "#000000")), anchor, transform, escapeXML(n.Text))
}

func renderImageNode(buf *bytes.Buffer, n engine.Node, transform string, idx int) {
	if n.ImageURL == "" {
		// Unfilled uploadable slot: dashed frame plus the placeholder label.
		fmt.Fprintf(buf, `  <rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" rx="%d" fill="none" stroke="#9ca3af" stroke-dasharray="8 4"%s/>`+"\n",
			n.X, n.Y, n.Width, n.Height, n.CornerRadius, transform)
		if n.Placeholder != "" {
			fmt.Fprintf(buf, `  <text x="%s" y="%s" font-family="%s" font-size="14" fill="#6b7280" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
				trimFloat(n.X+n.Width/2), trimFloat(n.Y+n.Height/2), escapeXML(fonts.FontFamily), escapeXML(n.Placeholder))
		}
		return
	}

	clip := ""
	if n.CornerRadius > 0 {
		clipID := fmt.Sprintf("clip%d", idx)
		fmt.Fprintf(buf, `  <clipPath id="%s"><rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" rx="%d"/></clipPath>`+"\n",
			clipID, n.X, n.Y, n.Width, n.Height, n.CornerRadius)
		clip = fmt.Sprintf(` clip-path="url(#%s)"`, clipID)
	}
	fmt.Fprintf(buf, `  <image href="%s" x="%.0f" y="%.0f" width="%.0f" height="%.0f" preserveAspectRatio="xMidYMid slice"%s%s/>`+"\n",
		escapeXML(n.ImageURL), n.X, n.Y, n.Width, n.Height, clip, transform)
}

// rotationTransform builds a rotate() about the node's own box center, or
// "" for unrotated nodes.
func rotationTransform(n engine.Node) string {
	if n.Rotation == 0 {
		return ""
	}
	return fmt.Sprintf(` transform="rotate(%s %s %s)"`,
		trimFloat(n.Rotation), trimFloat(n.X+n.Width/2), trimFloat(n.Y+n.Height/2))
}

// nestedRotation is the rotate() term appended inside an existing
// transform attribute, relative to the already-translated origin.
func nestedRotation(n engine.Node) string {
	if n.Rotation == 0 {
		return ""
	}
	return fmt.Sprintf(" rotate(%s %s %s)", trimFloat(n.Rotation), trimFloat(n.Width/2), trimFloat(n.Height/2))
}

func parseViewBox(vb string) (x, y, w, h float64) {
	w, h = 24, 24
	parts := strings.Fields(vb)
	if len(parts) != 4 {
		return
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, 0, 24, 24
		}
		vals[i] = f
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return 0, 0, 24, 24
	}
	return vals[0], vals[1], vals[2], vals[3]
}

func fillOr(c, fallback string) string {
	if c == "" {
		return fallback
	}
	return c
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
