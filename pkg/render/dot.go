package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/kintreehq/kintree/pkg/tree"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Detailed includes birth/death years in node labels.
	// When false, only the person's name is shown.
	Detailed bool
}

// ToDOT converts a population to Graphviz DOT format. Parent edges run
// top-down; mutual spouse links are drawn as undirected dashed edges that do
// not influence ranking.
//
// The resulting DOT string can be rendered using [RenderDOTSVG] or
// [RenderDOTPNG].
func ToDOT(pop *tree.Population, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, p := range pop.People() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", p.ID, dotLabel(p, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, p := range pop.People() {
		for _, parentID := range p.Parents {
			if !pop.Contains(parentID) || parentID == p.ID {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", parentID, p.ID)
		}
	}

	for _, pair := range tree.SpousePairs(pop) {
		fmt.Fprintf(&buf, "  %q -> %q [dir=none, style=dashed, constraint=false];\n", pair[0], pair[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(p tree.Person, detailed bool) string {
	if !detailed || p.Years() == "" {
		return p.Name
	}
	return p.Name + "\n" + p.Years()
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderDOTPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderDOTSVG] and [ToPNG].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderDOTPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderDOTSVG(dot)
	if err != nil {
		return nil, err
	}
	return ToPNG(svg, scale)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
