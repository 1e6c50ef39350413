package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/pomgrid/pomgrid/pkg/matrix"
)

// Supported output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Options configures dependency graph rendering.
type Options struct {
	// Detailed adds per-version usage counts to artifact labels.
	// When false, only the coordinate is shown.
	Detailed bool
}

// ToDOT converts a matrix document to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Output is deterministic: projects are sorted, and artifacts and edges
// follow the document's own ordering.
func ToDOT(doc *matrix.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph pomgrid {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, p := range projectNames(doc) {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=lightblue];\n", "project:"+p, p)
	}

	buf.WriteString("\n")
	for _, g := range doc.Groups {
		for _, a := range g.Artifacts {
			coord := g.GroupID + ":" + a.ArtifactID
			attrs := artifactAttrs(coord, a, opts.Detailed)
			fmt.Fprintf(&buf, "  %q [%s];\n", coord, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("\n")
	for _, g := range doc.Groups {
		for _, a := range g.Artifacts {
			coord := g.GroupID + ":" + a.ArtifactID
			for _, v := range a.Versions {
				for _, p := range v.Projects {
					fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", "project:"+p, coord, v.Version)
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// projectNames collects every project in the document, sorted.
// Project node IDs carry a "project:" prefix so a project can never
// collide with an artifact coordinate.
func projectNames(doc *matrix.Document) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, g := range doc.Groups {
		for _, a := range g.Artifacts {
			for _, v := range a.Versions {
				for _, p := range v.Projects {
					if _, ok := seen[p]; !ok {
						seen[p] = struct{}{}
						names = append(names, p)
					}
				}
			}
		}
	}
	slices.Sort(names)
	return names
}

func artifactAttrs(coord string, a matrix.ArtifactEntry, detailed bool) []string {
	label := coord
	if detailed {
		lines := []string{coord}
		for _, v := range a.Versions {
			lines = append(lines, fmt.Sprintf("%s (%d)", v.Version, len(v.Projects)))
		}
		label = strings.Join(lines, "\n")
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if len(a.Versions) > 1 {
		attrs = append(attrs, "fillcolor=lightyellow", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	svg, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the opening svg tag so the image scales
// cleanly in browsers regardless of the Graphviz-emitted points units.
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
