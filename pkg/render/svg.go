package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kintreehq/kintree/pkg/layout"
)

const cardInteractionCSS = `
    .card { transition: stroke-width 0.15s ease; }
    .card.highlight { stroke-width: 3; stroke: #2563eb; }
    .card { cursor: pointer; }`

const cardInteractionJS = `
    document.querySelectorAll('.card').forEach(el => {
      el.addEventListener('mouseenter', () => el.classList.add('highlight'));
      el.addEventListener('mouseleave', () => el.classList.remove('highlight'));
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	images      bool
	grid        bool
	interactive bool
	background  string
}

// WithImages renders person photos inside the cards when an image URL is set.
func WithImages() SVGOption { return func(r *svgRenderer) { r.images = true } }

// WithGrid draws a faint horizontal guide per generation row.
func WithGrid() SVGOption { return func(r *svgRenderer) { r.grid = true } }

// WithInteraction embeds hover-highlight CSS and script for browser viewing.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithBackground sets the canvas fill color (default white).
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws a computed layout as a standalone SVG document. Each person
// card carries id="person-<id>" and a data-person attribute so browser code
// can address individual cards.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill=%q/>`+"\n", r.background)

	if r.grid {
		renderGrid(&buf, l)
	}
	renderEdges(&buf, l)
	renderCoupleBars(&buf, l)
	for _, n := range l.Nodes {
		renderCard(&buf, n, r.images)
	}
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cardInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", cardInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, l layout.Layout) {
	for _, row := range slices.Sorted(maps.Keys(l.Rows)) {
		ids := l.Rows[row]
		if len(ids) == 0 {
			continue
		}
		n, ok := l.Node(ids[0])
		if !ok {
			continue
		}
		y := n.Y + n.Height/2
		fmt.Fprintf(buf, `  <line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e5e7eb" stroke-dasharray="4 4"/>`+"\n",
			y, l.Width, y)
	}
}

// renderEdges draws parent/child connectors as three-segment elbows: down
// from the parent anchor, across at the midpoint, down to the child's top.
func renderEdges(buf *bytes.Buffer, l layout.Layout) {
	for _, e := range l.Edges {
		midY := (e.Y1 + e.Y2) / 2
		fmt.Fprintf(buf, `  <path d="M %.1f %.1f V %.1f H %.1f V %.1f" fill="none" stroke="#9ca3af" stroke-width="1.5"/>`+"\n",
			e.X1, e.Y1, midY, e.X2, e.Y2)
	}
}

func renderCoupleBars(buf *bytes.Buffer, l layout.Layout) {
	for _, u := range l.Units {
		if u.Kind != layout.UnitCouple {
			continue
		}
		left, okL := l.Node(u.Members[0])
		right, okR := l.Node(u.Members[1])
		if !okL || !okR {
			continue
		}
		y := left.Y + left.Height/2
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#6b7280" stroke-width="2"/>`+"\n",
			left.X+left.Width, y, right.X, y)
	}
}

func renderCard(buf *bytes.Buffer, n layout.Node, withImages bool) {
	id := escapeAttr(n.PersonID)
	fmt.Fprintf(buf, `  <g id="person-%s" data-person="%s">`+"\n", id, id)
	fmt.Fprintf(buf, `    <rect class="card" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="#f9fafb" stroke="#374151" stroke-width="1.5"/>`+"\n",
		n.X, n.Y, n.Width, n.Height)

	textX := n.CenterX()
	if withImages && n.ImageURL != "" {
		size := n.Height - 12
		fmt.Fprintf(buf, `    <image href="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="xMidYMid slice"/>`+"\n",
			escapeAttr(n.ImageURL), n.X+6, n.Y+6, size, size)
		textX = n.X + 6 + size + (n.Width-12-size)/2
	}

	lines := strings.Split(n.Label, "\n")
	lineHeight := 16.0
	startY := n.Y + n.Height/2 - lineHeight*float64(len(lines)-1)/2 + 5
	for i, line := range lines {
		size, weight := 13, "bold"
		if i > 0 {
			size, weight = 11, "normal"
		}
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="%d" font-weight="%s" fill="#111827">%s</text>`+"\n",
			textX, startY+lineHeight*float64(i), size, weight, escapeText(line))
	}
	buf.WriteString("  </g>\n")
}

func escapeText(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func escapeAttr(s string) string {
	return strings.NewReplacer(`"`, "&quot;", "&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
