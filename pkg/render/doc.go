// Package render draws dependency matrix documents as graphs.
//
// # Overview
//
// The package converts a [matrix.Document] into Graphviz DOT and renders
// it to SVG or PNG. Projects appear as ellipses, artifacts as boxes, and
// every edge carries the version its project resolved. An artifact used
// at more than one version is highlighted, which makes version drift
// visible at a glance.
//
//	dot := render.ToDOT(doc, render.Options{})
//	svg, err := render.RenderSVG(dot)
//	png, err := render.RenderPNG(dot)
//
// Rendering uses the embedded Graphviz runtime from
// [github.com/goccy/go-graphviz]; no external tools are required.
//
// [matrix.Document]: github.com/pomgrid/pomgrid/pkg/matrix
package render
